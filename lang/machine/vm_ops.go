package machine

import "github.com/mna/bang/lang/chunk"

// binaryAdd implements Add's polymorphism (spec.md §4.6.2): numeric
// addition when both operands are numbers, concatenation when both are
// strings, a runtime error otherwise.
func (vm *VM) binaryAdd(line int) error {
	b, a := vm.pop(), vm.pop()
	if a.IsNumber() && b.IsNumber() {
		vm.push(chunk.Number(a.Number() + b.Number()))
		return nil
	}
	as, aok := AsString(a)
	bs, bok := AsString(b)
	if aok && bok {
		vm.push(NewString(as + bs))
		return nil
	}
	return vm.runtimeError(line, "Operands must be two numbers or two strings.")
}

// binaryArith implements Subtract/Multiply/Divide, which require both
// operands to be numbers (spec.md §4.6.2). Division by zero yields IEEE-754
// infinity or NaN rather than erroring; Go's float64 division already does
// this.
func (vm *VM) binaryArith(op chunk.Op, line int) error {
	b, a := vm.pop(), vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError(line, "Operands must be numbers.")
	}
	x, y := a.Number(), b.Number()
	switch op {
	case chunk.OpSubtract:
		vm.push(chunk.Number(x - y))
	case chunk.OpMultiply:
		vm.push(chunk.Number(x * y))
	case chunk.OpDivide:
		vm.push(chunk.Number(x / y))
	}
	return nil
}

// compare implements Less/Greater/LessEqual/GreaterEqual, which allow two
// numbers or two strings compared lexicographically (spec.md §4.6.2).
func (vm *VM) compare(op chunk.Op, line int) error {
	b, a := vm.pop(), vm.pop()
	var lt, gt bool
	switch {
	case a.IsNumber() && b.IsNumber():
		lt, gt = a.Number() < b.Number(), a.Number() > b.Number()
	default:
		as, aok := AsString(a)
		bs, bok := AsString(b)
		if !aok || !bok {
			return vm.runtimeError(line, "Operands must be two numbers or two strings.")
		}
		lt, gt = as < bs, as > bs
	}
	var result bool
	switch op {
	case chunk.OpLess:
		result = lt
	case chunk.OpGreater:
		result = gt
	case chunk.OpLessEqual:
		result = !gt
	case chunk.OpGreaterEqual:
		result = !lt
	}
	vm.push(chunk.Bool(result))
	return nil
}

// getIndex implements GetIndex (spec.md §4.6.3): list/string support
// numeric indexing via chunk.Index's negative/rounding rules, with
// out-of-range yielding null rather than an error; dict supports any
// hashable value as key.
func (vm *VM) getIndex(line int) error {
	idx, container := vm.pop(), vm.pop()
	if !container.IsObject() {
		return vm.runtimeError(line, "Can't index type "+TypeName(container))
	}
	switch obj := container.Object().(type) {
	case *List:
		if !idx.IsNumber() {
			vm.push(chunk.Null)
			return nil
		}
		i := chunk.Index(idx.Number(), len(obj.Items))
		if i < 0 || i >= len(obj.Items) {
			vm.push(chunk.Null)
			return nil
		}
		vm.push(obj.Items[i])
	case *String:
		if !idx.IsNumber() {
			vm.push(chunk.Null)
			return nil
		}
		runes := []rune(obj.Value)
		i := chunk.Index(idx.Number(), len(runes))
		if i < 0 || i >= len(runes) {
			vm.push(chunk.Null)
			return nil
		}
		vm.push(NewString(string(runes[i])))
	case *Dict:
		v, ok := obj.Get(idx)
		if !ok {
			vm.push(chunk.Null)
			return nil
		}
		vm.push(v)
	default:
		return vm.runtimeError(line, "Can't index type "+TypeName(container))
	}
	return nil
}

// setIndex implements SetIndex: like getIndex but mutates in place, leaving
// the assigned value on the stack (spec.md §4.6.3; assignment is always an
// expression, spec.md §4.3.2). Strings are immutable.
func (vm *VM) setIndex(line int) error {
	value, idx, container := vm.pop(), vm.pop(), vm.pop()
	if !container.IsObject() {
		return vm.runtimeError(line, "Can't index type "+TypeName(container))
	}
	switch obj := container.Object().(type) {
	case *List:
		if !idx.IsNumber() {
			return vm.runtimeError(line, "List index must be a number.")
		}
		i := chunk.Index(idx.Number(), len(obj.Items))
		if i < 0 || i >= len(obj.Items) {
			return vm.runtimeError(line, "List index out of range.")
		}
		obj.Items[i] = value
	case *String:
		return vm.runtimeError(line, "Strings are immutable.")
	case *Dict:
		obj.Set(idx, value)
	default:
		return vm.runtimeError(line, "Can't index type "+TypeName(container))
	}
	vm.push(value)
	return nil
}

func (vm *VM) makeList(count int) {
	items := make([]chunk.Value, count)
	for i := count - 1; i >= 0; i-- {
		items[i] = vm.pop()
	}
	vm.push(NewList(items))
}

func (vm *VM) makeDict(count int) {
	type pair struct{ key, value chunk.Value }
	pairs := make([]pair, count)
	for i := count - 1; i >= 0; i-- {
		value := vm.pop()
		key := vm.pop()
		pairs[i] = pair{key, value}
	}
	d := NewDict(count)
	for _, p := range pairs {
		d.Set(p.key, p.value)
	}
	vm.push(chunk.Obj(d))
}

// captureLocal self-promotes the stack slot for frame's local at slot into
// an Allocated cell, idempotently: subsequent captures (by OpClosure or a
// direct GetAllocated/SetAllocated access) see the same cell (spec.md §9:
// "Closure materializes a list of cells by copying either a local slot
// (first capture) or a parent's already-created upvalue").
func (vm *VM) captureLocal(frame *CallFrame, slot int) *Cell {
	idx := frame.offset + slot
	if v := vm.stack[idx]; v.IsObject() {
		if cell, ok := v.Object().(*Cell); ok {
			return cell
		}
	}
	cell := NewCell(vm.stack[idx])
	vm.stack[idx] = chunk.Obj(cell)
	return cell
}

// makeClosure implements OpClosure: replaces the Function constant
// OpConstant just pushed with a Closure whose upvalue cells it builds from
// the function's blueprint, reading either a slot of the enclosing frame (the
// frame executing this instruction) or a cell already captured into that
// frame's own upvalues (spec.md §9). A recursive local function captures the
// very slot holding the Function; that slot becomes a cell, and the Closure
// is stored inside it.
func (vm *VM) makeClosure(frame *CallFrame) {
	top := len(vm.stack) - 1
	fn := vm.stack[top].Object().(*Function)
	cells := make([]*Cell, len(fn.Upvalues))
	for i, uv := range fn.Upvalues {
		if uv.IsLocal {
			cells[i] = vm.captureLocal(frame, uv.Index)
		} else {
			cells[i] = frame.upvalues[uv.Index]
		}
	}
	closure := NewClosure(fn, cells)
	if cell, ok := vm.stack[top].Object().(*Cell); ok {
		cell.Value = closure
		return
	}
	vm.stack[top] = closure
}
