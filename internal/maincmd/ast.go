package maincmd

import (
	"context"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/mainer"
)

func (c *Cmd) Ast(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	printer := ast.Printer{Output: stdio.Stdout}
	for _, f := range files {
		ch, err := parseFile(f)
		if err != nil {
			return printError(stdio, err)
		}
		if err := printer.Print(ch); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
