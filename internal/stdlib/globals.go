package stdlib

import (
	"fmt"
	"io"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

// globalFunctions builds print/type/toString, the three always-in-scope
// builtins (grounded on original_source/language/src/builtins.rs's
// define_globals, which installs exactly these three with no module
// indirection).
func globalFunctions(stdout io.Writer) map[string]chunk.Value {
	return map[string]chunk.Value{
		"print": machine.NewNativeFunction("print", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			if s, ok := machine.AsString(args[0]); ok {
				fmt.Fprintln(stdout, s)
			} else {
				fmt.Fprintln(stdout, args[0].Display())
			}
			return args[0], nil
		}),

		"type": machine.NewNativeFunction("type", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			return machine.NewString(machine.TypeName(args[0])), nil
		}),

		// toString leaves strings untouched and renders everything else via
		// Display, but unquoted (Display wraps strings in quotes for nesting
		// inside list/dict printing; toString(x) on a bare string must return
		// the string's own contents, not 'contents').
		"toString": machine.NewNativeFunction("toString", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			if s, ok := machine.AsString(args[0]); ok {
				return machine.NewString(s), nil
			}
			return machine.NewString(args[0].Display()), nil
		}),
	}
}
