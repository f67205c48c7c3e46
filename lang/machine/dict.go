package machine

import (
	"strings"

	"github.com/dolthub/swiss"
	"github.com/mna/bang/lang/chunk"
)

// dictKey normalizes a Value into a Go-comparable key so Bang's by-content
// equality (numbers/bools/strings by value) lines up with swiss.Map's
// built-in `==` hashing, while objects other than strings fall back to
// identity (spec.md §4.6.4: "functions and native functions compare by
// identity").
type dictKey struct {
	kind chunk.Kind
	num  float64
	str  string
	obj  chunk.Object
}

func keyFor(v chunk.Value) dictKey {
	if s, ok := AsString(v); ok {
		return dictKey{kind: chunk.KindObject, str: s}
	}
	switch v.Kind() {
	case chunk.KindBool, chunk.KindNumber:
		return dictKey{kind: v.Kind(), num: v.Number()}
	case chunk.KindObject:
		return dictKey{kind: chunk.KindObject, obj: v.Object()}
	default:
		return dictKey{kind: chunk.KindNull}
	}
}

type dictEntry struct {
	key   chunk.Value
	value chunk.Value
}

// Dict is Bang's ordered dictionary object (spec.md §3: "Dict(ordered map
// from Value to Value)"). Grounded on the teacher's swiss-backed
// lang/machine/map.go, with an insertion-order key list added since
// spec.md requires iteration/printing in insertion order, which swiss's
// internal bucket order does not guarantee.
type Dict struct {
	m     *swiss.Map[dictKey, dictEntry]
	order []dictKey
}

func NewDict(size int) *Dict {
	return &Dict{m: swiss.NewMap[dictKey, dictEntry](uint32(size))}
}

func (d *Dict) ObjectKind() string { return "dict" }

func (d *Dict) Get(key chunk.Value) (chunk.Value, bool) {
	e, ok := d.m.Get(keyFor(key))
	if !ok {
		return chunk.Null, false
	}
	return e.value, true
}

func (d *Dict) Set(key, value chunk.Value) {
	k := keyFor(key)
	if _, exists := d.m.Get(k); !exists {
		d.order = append(d.order, k)
	}
	d.m.Put(k, dictEntry{key: key, value: value})
}

func (d *Dict) Len() int { return d.m.Count() }

// Range visits d's entries in insertion order, stopping at the first error
// (internal/stdlib's json module uses this to walk a dict without reaching
// into its unexported fields).
func (d *Dict) Range(fn func(key, value chunk.Value) error) error {
	for _, k := range d.order {
		e, _ := d.m.Get(k)
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dict) Equal(other chunk.Object, visited map[[2]chunk.Object]bool) bool {
	o, ok := other.(*Dict)
	if !ok || d.Len() != o.Len() {
		return false
	}
	for _, k := range d.order {
		a, _ := d.m.Get(k)
		b, ok := o.m.Get(k)
		if !ok || !chunk.EqualWith(a.value, b.value, visited) {
			return false
		}
	}
	return true
}

func (d *Dict) Display(visited map[chunk.Object]bool) string {
	if visited[d] {
		return "..."
	}
	visited[d] = true
	parts := make([]string, 0, len(d.order))
	for _, k := range d.order {
		e, _ := d.m.Get(k)
		parts = append(parts, chunk.DisplayWith(e.key, visited)+": "+chunk.DisplayWith(e.value, visited))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
