package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/token"
	"github.com/mna/mainer"
)

// Lint walks the AST for a small set of source-level smells that don't
// need full compilation to detect (spec.md places a real linter out of
// core scope; this is the thin host utility SPEC_FULL.md's §6 calls for).
func (c *Cmd) Lint(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	found := false
	for _, f := range files {
		node, err := parseFile(f)
		if err != nil {
			return printError(stdio, err)
		}
		fileFound := false
		report := func(span token.Span, msg string) {
			fileFound = true
			fmt.Fprintf(stdio.Stdout, "%s:%d: %s\n", f.path, span.Line(f.source), msg)
		}
		ast.Walk(ast.EnterFunc(func(n ast.Node) {
			switch node := n.(type) {
			case *ast.Block:
				if len(node.Stmts) == 0 {
					report(node.Span(), "empty block")
				}
			case *ast.Assignment:
				if node.Op == token.Equal {
					if rhs, ok := ast.Unwrap(node.Value).(*ast.Variable); ok && rhs.Name == node.Name {
						report(node.Span(), fmt.Sprintf("self-assignment of %q", node.Name))
					}
				}
			}
		}), node)
		found = found || fileFound
	}
	if found {
		return fmt.Errorf("lint found issues")
	}
	return nil
}
