package machine

import (
	"fmt"

	"github.com/mna/bang/lang/chunk"
)

// UpvalueDesc describes how a Closure should capture one upvalue cell when
// materialized from a Function's blueprint (spec.md §9: "Closure
// materializes a list of cells by copying either a local slot ... or a
// parent's already-created upvalue").
type UpvalueDesc struct {
	Index   int
	IsLocal bool
}

// Function is an immutable compiled function value (spec.md §3:
// "A Function is immutable after creation").
type Function struct {
	Name     string
	Arity    chunk.Arity
	Chunk    *chunk.Chunk
	Upvalues []UpvalueDesc // the blueprint OpClosure reads to build a Closure
}

func NewFunction(name string, arity chunk.Arity, ch *chunk.Chunk, upvalues []UpvalueDesc) chunk.Value {
	return chunk.Obj(&Function{Name: name, Arity: arity, Chunk: ch, Upvalues: upvalues})
}

func (f *Function) ObjectKind() string { return "function" }

// InnerChunk satisfies chunk.InnerChunkHolder so Verify can recurse into a
// compiled function's own bytecode (spec.md §4.5).
func (f *Function) InnerChunk() *chunk.Chunk { return f.Chunk }

func (f *Function) Equal(other chunk.Object, _ map[[2]chunk.Object]bool) bool {
	return f == other
}

func (f *Function) Display(_ map[chunk.Object]bool) string {
	return fmt.Sprintf("<function %s>", f.Name)
}

// Closure wraps a Function with the Allocated cells it captured.
type Closure struct {
	Function *Function
	Upvalues []*Cell
}

func NewClosure(fn *Function, upvalues []*Cell) chunk.Value {
	return chunk.Obj(&Closure{Function: fn, Upvalues: upvalues})
}

func (c *Closure) ObjectKind() string { return "closure" }

// InnerChunk delegates to the wrapped Function, so Verify reaches a
// closure's bytecode the same way it reaches a plain Function's.
func (c *Closure) InnerChunk() *chunk.Chunk { return c.Function.Chunk }

func (c *Closure) Equal(other chunk.Object, _ map[[2]chunk.Object]bool) bool {
	return c == other
}

func (c *Closure) Display(_ map[chunk.Object]bool) string {
	return fmt.Sprintf("<function %s>", c.Function.Name)
}

// NativeFunc is the Go function shape a NativeFunction wraps: it receives
// its arguments already arity-checked and catch-all-collapsed (spec.md
// §4.6.1), and runs to completion synchronously (spec.md §5).
type NativeFunc func(args []chunk.Value) (chunk.Value, error)

// NativeFunction is a host-provided builtin (internal/stdlib).
type NativeFunction struct {
	Name  string
	Arity chunk.Arity
	Func  NativeFunc
}

func NewNativeFunction(name string, arity chunk.Arity, fn NativeFunc) chunk.Value {
	return chunk.Obj(&NativeFunction{Name: name, Arity: arity, Func: fn})
}

func (n *NativeFunction) ObjectKind() string { return "function" }

func (n *NativeFunction) Equal(other chunk.Object, _ map[[2]chunk.Object]bool) bool {
	return n == other
}

func (n *NativeFunction) Display(_ map[chunk.Object]bool) string {
	return fmt.Sprintf("<function %s>", n.Name)
}
