package stdlib

import (
	"fmt"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

// argTypeError reports a builtin argument type mismatch the way
// machine.RuntimeError messages read elsewhere in the VM ("Operands must be
// numbers.", "Can't index type ..."): a NativeFunc's returned error becomes
// the RuntimeError's Message verbatim (lang/machine/vm_call.go's
// callNative).
func argTypeError(fn, want string, got chunk.Value) error {
	return fmt.Errorf("%s: expected %s, got %s.", fn, want, machine.TypeName(got))
}
