package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/parser"
)

// sourceFile pairs a file's path with its contents, the unit every
// subcommand below operates on (spec.md has no multi-file compilation
// unit, so each file is parsed/compiled independently).
type sourceFile struct {
	path   string
	source string
}

func readFiles(paths []string) ([]sourceFile, error) {
	files := make([]sourceFile, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, sourceFile{path: path, source: string(b)})
	}
	return files, nil
}

func parseFile(f sourceFile) (*ast.Chunk, error) {
	ch, err := parser.Parse(f.path, f.source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return ch, nil
}
