package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/bang/lang/scanner"
	"github.com/mna/bang/lang/token"
	"github.com/mna/mainer"
)

func (c *Cmd) Tokens(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	for _, f := range files {
		s := scanner.New(f.source)
		for {
			tok := s.Next()
			fmt.Fprintf(stdio.Stdout, "%s:%d: %s", f.path, tok.Line, tok.Kind)
			if text := tok.String(f.source); text != "" {
				fmt.Fprintf(stdio.Stdout, " %q", text)
			}
			fmt.Fprintln(stdio.Stdout)
			if tok.Kind == token.EOF {
				break
			}
		}
	}
	return nil
}
