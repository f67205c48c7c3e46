package machine_test

import (
	"math"
	"testing"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
	"github.com/stretchr/testify/require"
)

// scriptChunk builds a top-level chunk from the instructions build writes
// and finishes it with OpReturn, for tests that only need to
// exercise a handful of opcodes without going through the compiler.
func scriptChunk(build func(c *chunk.Chunk)) *chunk.Chunk {
	c := chunk.New()
	build(c)
	c.WriteOp(chunk.OpReturn, 1)
	return c
}

func pushConst(c *chunk.Chunk, v chunk.Value) {
	idx := c.AddConstant(v)
	c.WriteOp(chunk.OpConstant, 1)
	c.WriteU8(byte(idx), 1)
}

func TestVMArithmetic(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(3))
		pushConst(c, chunk.Number(4))
		c.WriteOp(chunk.OpAdd, 1)
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.Equal(t, 7.0, r.Number())
}

func TestVMDivisionByZeroYieldsInf(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(1))
		pushConst(c, chunk.Number(0))
		c.WriteOp(chunk.OpDivide, 1)
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.True(t, math.IsInf(r.Number(), 1))
}

func TestVMCallingNonFunctionErrors(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(1))
		c.WriteOp(chunk.OpCall, 1)
		c.WriteU8(0, 1)
	})
	vm := machine.New(nil)
	_, err := vm.Run(c)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "Can only call functions.")
}

func TestVMIndexingNumberErrors(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(1))
		pushConst(c, chunk.Number(0))
		c.WriteOp(chunk.OpGetIndex, 1)
	})
	vm := machine.New(nil)
	_, err := vm.Run(c)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "Can't index type number")
}

func TestVMListIndexOutOfRangeYieldsNull(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(1))
		pushConst(c, chunk.Number(2))
		c.WriteOp(chunk.OpList, 1)
		c.WriteU8(2, 1)
		pushConst(c, chunk.Number(10))
		c.WriteOp(chunk.OpGetIndex, 1)
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.True(t, r.IsNull())
}

func TestVMNegativeIndexCountsFromEnd(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(10))
		pushConst(c, chunk.Number(20))
		pushConst(c, chunk.Number(30))
		c.WriteOp(chunk.OpList, 1)
		c.WriteU8(3, 1)
		pushConst(c, chunk.Number(-1))
		c.WriteOp(chunk.OpGetIndex, 1)
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.Equal(t, 30.0, r.Number())
}

func TestVMCyclicListEquality(t *testing.T) {
	a := machine.NewList([]chunk.Value{chunk.Number(1)})
	b := machine.NewList([]chunk.Value{chunk.Number(1)})
	a.Object().(*machine.List).Items = append(a.Object().(*machine.List).Items, b)
	b.Object().(*machine.List).Items = append(b.Object().(*machine.List).Items, a)

	require.True(t, a.Equal(b))
}

func TestVMCyclicListDisplay(t *testing.T) {
	a := machine.NewList(nil)
	list := a.Object().(*machine.List)
	list.Items = append(list.Items, chunk.Number(1), a)

	require.Equal(t, "[1, ...]", a.Display())
}

func TestVMDictGetSetAndDisplay(t *testing.T) {
	d := machine.NewDict(2)
	d.Set(machine.NewString("a"), chunk.Number(1))
	d.Set(machine.NewString("b"), chunk.Number(2))

	v, ok := d.Get(machine.NewString("a"))
	require.True(t, ok)
	require.Equal(t, 1.0, v.Number())
	require.Equal(t, "{'a': 1, 'b': 2}", chunk.Obj(d).Display())
}

func TestVMSetIndexMutatesList(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, chunk.Number(1))
		pushConst(c, chunk.Number(2))
		c.WriteOp(chunk.OpList, 1)
		c.WriteU8(2, 1)
		// stack: [list] at slot 0; duplicate it so SetIndex's consumed copy
		// leaves the original list (now mutated, same backing pointer) behind.
		c.WriteOp(chunk.OpGetLocal, 1)
		c.WriteU8(0, 1)
		pushConst(c, chunk.Number(0))
		pushConst(c, chunk.Number(99))
		c.WriteOp(chunk.OpSetIndex, 1)
		c.WriteOp(chunk.OpPop, 1) // drop SetIndex's result, leaving the original list on top
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.True(t, r.IsObject())
	list, ok := r.Object().(*machine.List)
	require.True(t, ok)
	require.Equal(t, 99.0, list.Items[0].Number())
}

func TestVMSetIndexOnStringErrors(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, machine.NewString("hi"))
		pushConst(c, chunk.Number(0))
		pushConst(c, machine.NewString("x"))
		c.WriteOp(chunk.OpSetIndex, 1)
	})
	vm := machine.New(nil)
	_, err := vm.Run(c)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "immutable")
}

func TestVMNativeFunctionCall(t *testing.T) {
	double := machine.NewNativeFunction("double", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		return chunk.Number(args[0].Number() * 2), nil
	})
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, double)
		pushConst(c, chunk.Number(21))
		c.WriteOp(chunk.OpCall, 1)
		c.WriteU8(1, 1)
	})
	vm := machine.New(nil)
	r, err := vm.Run(c)
	require.NoError(t, err)
	require.Equal(t, 42.0, r.Number())
}

func TestVMNativeFunctionArityError(t *testing.T) {
	double := machine.NewNativeFunction("double", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		return chunk.Number(args[0].Number() * 2), nil
	})
	c := scriptChunk(func(c *chunk.Chunk) {
		pushConst(c, double)
		c.WriteOp(chunk.OpCall, 1)
		c.WriteU8(0, 1)
	})
	vm := machine.New(nil)
	_, err := vm.Run(c)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "Not enough arguments")
}

func TestVMGlobalsDefineGetSet(t *testing.T) {
	vm := machine.New(nil)
	vm.DefineGlobal("x", chunk.Number(1))
	v, ok := vm.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, 1.0, v.Number())
}

func TestVMContextInstallsGlobals(t *testing.T) {
	ctx := fakeCtx{globals: map[string]chunk.Value{"pi": chunk.Number(3.14)}}
	vm := machine.New(ctx)
	v, ok := vm.GetGlobal("pi")
	require.True(t, ok)
	require.Equal(t, 3.14, v.Number())
}

func TestVMMaxStepsExceeded(t *testing.T) {
	c := scriptChunk(func(c *chunk.Chunk) {
		pos := c.WriteOp(chunk.OpLoop, 1)
		c.WriteU16(0, 1)
		// OpLoop's own 3-byte width: looping back to pos re-executes it forever.
		c.PatchU16(pos+1, uint16(len(c.Code)-pos))
	})
	vm := machine.New(nil)
	vm.MaxSteps = 10
	_, err := vm.Run(c)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "step limit")
}

func TestVMStringDisplayIsQuoted(t *testing.T) {
	require.Equal(t, "'hi'", machine.NewString("hi").Display())
}

func TestVMFunctionEqualityIsByIdentity(t *testing.T) {
	ch := chunk.New()
	ch.WriteOp(chunk.OpReturn, 1)
	a := machine.NewFunction("f", chunk.Arity{}, ch, nil)
	b := machine.NewFunction("f", chunk.Arity{}, ch, nil)
	require.False(t, a.Equal(b))
	require.True(t, a.Equal(a))
}

type fakeCtx struct {
	globals map[string]chunk.Value
}

func (f fakeCtx) GetValue(module, item string) chunk.ImportResult {
	return chunk.ImportResult{Kind: chunk.ImportModuleNotFound}
}

func (f fakeCtx) DefineGlobals(define func(name string, v chunk.Value)) {
	for name, v := range f.globals {
		define(name, v)
	}
}
