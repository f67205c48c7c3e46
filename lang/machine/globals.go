package machine

import "github.com/mna/bang/lang/chunk"

// globalsTable is the VM's `globals: ordered map<string, Value>` (spec.md
// §4.6): a name index alongside parallel slices keeps lookup O(1) while
// preserving definition order, the same shape as lang/machine.Dict uses for
// its own ordered iteration.
type globalsTable struct {
	index  map[string]int
	names  []string
	values []chunk.Value
}

func newGlobalsTable() *globalsTable {
	return &globalsTable{index: map[string]int{}}
}

// Define creates or overwrites name's value.
func (g *globalsTable) Define(name string, v chunk.Value) {
	if i, ok := g.index[name]; ok {
		g.values[i] = v
		return
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.values = append(g.values, v)
}

func (g *globalsTable) Get(name string) (chunk.Value, bool) {
	i, ok := g.index[name]
	if !ok {
		return chunk.Null, false
	}
	return g.values[i], true
}
