// Package stdlib is Bang's builtin module table: the concrete host
// collaborator behind lang/chunk.Context (spec.md §4.4, §6). The core
// compiler/VM only know about the Context interface; this package is where
// `from maths import { sqrt }` and friends actually resolve, and where the
// always-in-scope `print`/`type`/`toString` globals are seeded.
//
// Grounded on original_source/language/src/builtins.rs's module table
// (`get_builtin_module_value`) and its always-global `define_globals`.
package stdlib

import (
	"io"
	"os"

	"github.com/mna/bang/lang/chunk"
)

// Modules is a chunk.Context backed by the fixed builtin module set
// (maths, list, string, json) plus the always-global print/type/toString.
type Modules struct {
	modules map[string]map[string]chunk.Value
	globals map[string]chunk.Value
}

// New returns a Modules that writes print's output to stdout. Use
// NewWithOutput to redirect it (tests, the `run` subcommand's captured
// Stdio).
func New() *Modules {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput is New with print's destination made explicit.
func NewWithOutput(stdout io.Writer) *Modules {
	return &Modules{
		modules: map[string]map[string]chunk.Value{
			"maths":  mathsModule(),
			"list":   listModule(),
			"string": stringModule(),
			"json":   jsonModule(),
		},
		globals: globalFunctions(stdout),
	}
}

// GetValue implements chunk.Context.
func (m *Modules) GetValue(module, item string) chunk.ImportResult {
	mod, ok := m.modules[module]
	if !ok {
		return chunk.ImportResult{Kind: chunk.ImportModuleNotFound}
	}
	v, ok := mod[item]
	if !ok {
		return chunk.ImportResult{Kind: chunk.ImportItemNotFound}
	}
	return chunk.ImportResult{Kind: chunk.ImportConstant, Constant: v}
}

// DefineGlobals implements chunk.Context.
func (m *Modules) DefineGlobals(define func(name string, v chunk.Value)) {
	for name, v := range m.globals {
		define(name, v)
	}
}
