package machine

import (
	"strings"

	"github.com/mna/bang/lang/chunk"
)

// List is Bang's interior-mutable list object (spec.md §3: "List(Vec<Value>)
// (interior-mutable)"). It may participate in reference cycles, so Equal
// and Display both honor the visited set.
type List struct {
	Items []chunk.Value
}

func NewList(items []chunk.Value) chunk.Value { return chunk.Obj(&List{Items: items}) }

func (l *List) ObjectKind() string { return "list" }

func (l *List) Equal(other chunk.Object, visited map[[2]chunk.Object]bool) bool {
	o, ok := other.(*List)
	if !ok || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !chunk.EqualWith(l.Items[i], o.Items[i], visited) {
			return false
		}
	}
	return true
}

func (l *List) Display(visited map[chunk.Object]bool) string {
	if visited[l] {
		return "..."
	}
	visited[l] = true
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = chunk.DisplayWith(v, visited)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
