package machine

import (
	"fmt"

	"github.com/mna/bang/lang/chunk"
)

// String is Bang's heap string object: immutable, acyclic, compared and
// hashed by content (spec.md §4.6.4: "strings compare by contents").
type String struct {
	Value string
}

// NewString wraps a Go string as a Bang Value.
func NewString(s string) chunk.Value { return chunk.Obj(&String{Value: s}) }

func (s *String) ObjectKind() string { return "string" }

func (s *String) Equal(other chunk.Object, _ map[[2]chunk.Object]bool) bool {
	o, ok := other.(*String)
	return ok && o.Value == s.Value
}

func (s *String) Display(_ map[chunk.Object]bool) string {
	return fmt.Sprintf("'%s'", s.Value)
}

// AsString reports whether v is a string object, and if so its Go string.
func AsString(v chunk.Value) (string, bool) {
	if !v.IsObject() {
		return "", false
	}
	s, ok := v.Object().(*String)
	if !ok {
		return "", false
	}
	return s.Value, true
}
