package maincmd

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/mna/bang/internal/stdlib"
	"github.com/mna/bang/lang/compiler"
	"github.com/mna/bang/lang/machine"
	"github.com/mna/mainer"
)

// sandboxLimits is populated from the environment once per run, following
// the teacher's convention of env-driven configuration for anything that
// isn't a CLI flag (BANG_MAX_STEPS/BANG_MAX_CALL_DEPTH guard a `run`
// against a runaway script; spec.md §5, §9).
type sandboxLimits struct {
	MaxSteps     int `env:"BANG_MAX_STEPS" envDefault:"0"`
	MaxCallDepth int `env:"BANG_MAX_CALL_DEPTH" envDefault:"0"`
}

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var limits sandboxLimits
	if err := env.Parse(&limits); err != nil {
		return printError(stdio, fmt.Errorf("reading sandbox limits: %w", err))
	}

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

		vm := machine.New(host)
		vm.MaxSteps = limits.MaxSteps
		vm.MaxCallDepth = limits.MaxCallDepth
		if _, err := vm.Run(ch); err != nil {
			return printError(stdio, fmt.Errorf("%s: %w", f.path, err))
		}
	}
	return nil
}
