package machine

import "github.com/mna/bang/lang/chunk"

// Cell is a shared, interior-mutable heap slot holding one Value: the
// storage a captured local is promoted to on first capture (spec.md §3:
// "Allocated cell"). Equality and printing both compare the boxed value,
// not cell identity, since a Value carrying a Cell is only ever produced
// internally by the VM and never observed by user code as a standalone
// object.
type Cell struct {
	Value chunk.Value
}

func NewCell(v chunk.Value) *Cell { return &Cell{Value: v} }

func (c *Cell) ObjectKind() string { return "allocated" }

func (c *Cell) Equal(other chunk.Object, visited map[[2]chunk.Object]bool) bool {
	o, ok := other.(*Cell)
	return ok && chunk.EqualWith(c.Value, o.Value, visited)
}

func (c *Cell) Display(visited map[chunk.Object]bool) string {
	return chunk.DisplayWith(c.Value, visited)
}
