package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/bang/internal/stdlib"
	"github.com/mna/bang/lang/compiler"
	"github.com/mna/mainer"
)

func (c *Cmd) Bytecode(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	host := stdlib.NewWithOutput(stdio.Stdout)
	for _, f := range files {
		node, err := parseFile(f)
		if err != nil {
			return printError(stdio, err)
		}
		ch, err := compiler.Compile(f.source, node, host)
		if err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", f.path, err))
		}
		if err := ch.Verify(); err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", f.path, err))
		}
		fmt.Fprint(stdio.Stdout, ch.Disassemble(f.path))
	}
	return nil
}
