package machine

import (
	"strings"

	"github.com/mna/bang/lang/chunk"
)

// Set is a heap object variant named by spec.md §3's Object list, but with
// no surface syntax or opcode of its own (no literal form, no SetIndex/
// GetIndex case): it exists purely as a host-constructible value a stdlib
// module could return. Kept minimal for that reason.
type Set struct {
	items []chunk.Value
}

func NewSet(items []chunk.Value) *Set {
	s := &Set{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s *Set) ObjectKind() string { return "set" }

func (s *Set) Add(v chunk.Value) {
	for _, it := range s.items {
		if it.Equal(v) {
			return
		}
	}
	s.items = append(s.items, v)
}

func (s *Set) Has(v chunk.Value) bool {
	for _, it := range s.items {
		if it.Equal(v) {
			return true
		}
	}
	return false
}

func (s *Set) Equal(other chunk.Object, visited map[[2]chunk.Object]bool) bool {
	o, ok := other.(*Set)
	if !ok || len(s.items) != len(o.items) {
		return false
	}
	for _, it := range s.items {
		found := false
		for _, oit := range o.items {
			if chunk.EqualWith(it, oit, visited) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Set) Display(visited map[chunk.Object]bool) string {
	if visited[s] {
		return "..."
	}
	visited[s] = true
	parts := make([]string, len(s.items))
	for i, v := range s.items {
		parts[i] = chunk.DisplayWith(v, visited)
	}
	return "set(" + strings.Join(parts, ", ") + ")"
}
