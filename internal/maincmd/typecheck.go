package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/bang/internal/stdlib"
	"github.com/mna/bang/lang/compiler"
	"github.com/mna/mainer"
)

// Typecheck compiles each file without running it, surfacing every
// compile-time diagnostic the compiler itself already performs: unresolved
// imports, arity limits, and scope errors (spec.md §4.3.3). Bang has no
// static type system (spec.md's Non-goals), so this is the full extent of
// "typechecking" a dynamically-typed language can offer ahead of running
// it — matching SPEC_FULL.md's "simplified relative to a production
// typechecker" framing.
func (c *Cmd) Typecheck(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	host := stdlib.New()
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
		fmt.Fprintf(stdio.Stdout, "%s: ok\n", f.path)
	}
	return nil
}
