package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"
)

// Format prints a whitespace-normalized version of each file: trailing
// whitespace stripped from every line, runs of more than one blank line
// collapsed to one, and the file ending in exactly one newline. It
// validates that the file parses before normalizing it, so a syntax error
// is reported rather than silently reformatting broken source.
//
// This is a deliberately small formatter, not a full pretty-printer that
// reconstructs canonical indentation from the AST (spec.md places a
// production formatter out of core scope); it is still real output a
// script author can apply, matching SPEC_FULL.md's "present so the
// documented command surface is real" framing for `format`.
func (c *Cmd) Format(ctx context.Context, stdio mainer.Stdio, args []string) error {
	files, err := readFiles(args)
	if err != nil {
		return printError(stdio, err)
	}
	for _, f := range files {
		if _, err := parseFile(f); err != nil {
			return printError(stdio, err)
		}
		fmt.Fprint(stdio.Stdout, normalize(f.source))
	}
	return nil
}

func normalize(source string) string {
	lines := strings.Split(source, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}
