package machine

import (
	"fmt"

	"github.com/mna/bang/lang/chunk"
)

const (
	initialStackCapacity = 64
	initialFrameCapacity = 16
)

// VM is Bang's single-threaded, synchronous bytecode interpreter (spec.md
// §4.6, §5). It owns the operand stack and the globals table for the
// duration of a run; concurrent use of one VM value is undefined.
type VM struct {
	// MaxSteps bounds the number of dispatched instructions before the VM
	// aborts with a runtime error. A value <= 0 means no limit (wired to
	// BANG_MAX_STEPS by internal/maincmd's `run` subcommand).
	MaxSteps int

	// MaxCallDepth bounds the number of nested Function/Closure calls,
	// guarding against unbounded recursion exhausting the host stack. A
	// value <= 0 means no limit (wired to BANG_MAX_CALL_DEPTH).
	MaxCallDepth int

	stack   []chunk.Value
	frames  []CallFrame
	globals *globalsTable
}

// New returns a VM with ctx's globals already defined (spec.md §6:
// "VM::new(context) → VM (context installs globals)").
func New(ctx chunk.Context) *VM {
	vm := &VM{
		stack:   make([]chunk.Value, 0, initialStackCapacity),
		frames:  make([]CallFrame, 0, initialFrameCapacity),
		globals: newGlobalsTable(),
	}
	if ctx != nil {
		ctx.DefineGlobals(vm.DefineGlobal)
	}
	return vm
}

// DefineGlobal creates or overwrites a global (spec.md §6: "vm.define_global
// (name, value)").
func (vm *VM) DefineGlobal(name string, v chunk.Value) { vm.globals.Define(name, v) }

// GetGlobal looks up a global by name (spec.md §6: "vm.get_global(name) →
// Option<Value>").
func (vm *VM) GetGlobal(name string) (chunk.Value, bool) { return vm.globals.Get(name) }

func (vm *VM) push(v chunk.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() chunk.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// peek returns the value distance slots below the top without popping it;
// peek(0) is the top itself. This also implements OpGetTemp's duplication
// semantics directly.
func (vm *VM) peek(distance int) chunk.Value { return vm.stack[len(vm.stack)-1-distance] }

// Run drives ch to completion: to a top-level Return, or to the first
// runtime error (spec.md §4.6: "The top chunk is passed to run and drives
// execution until Return with an empty frame stack"). The top-level chunk
// runs as a synthetic, argument-less Function whose frame starts at stack
// offset 0.
func (vm *VM) Run(ch *chunk.Chunk) (chunk.Value, error) {
	top := &Function{Name: "<script>", Chunk: ch}
	vm.frames = append(vm.frames, CallFrame{fn: top, ip: 0, offset: 0})
	return vm.run()
}

func (vm *VM) run() (chunk.Value, error) {
	steps := 0
	for {
		if vm.MaxSteps > 0 {
			steps++
			if steps > vm.MaxSteps {
				return chunk.Null, vm.runtimeError(vm.currentLine(), "step limit exceeded")
			}
		}

		frame := &vm.frames[len(vm.frames)-1]
		line := frame.chunk().LineAt(frame.ip)
		op := chunk.Op(frame.chunk().Code[frame.ip])
		frame.ip++

		switch op {
		case chunk.OpConstant:
			idx := vm.readU8(frame)
			vm.push(frame.chunk().Constants[idx])
		case chunk.OpConstantLong:
			idx := vm.readU16(frame)
			vm.push(frame.chunk().Constants[idx])
		case chunk.OpNull:
			vm.push(chunk.Null)
		case chunk.OpTrue:
			vm.push(chunk.Bool(true))
		case chunk.OpFalse:
			vm.push(chunk.Bool(false))

		case chunk.OpAdd:
			if err := vm.binaryAdd(line); err != nil {
				return chunk.Null, err
			}
		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if err := vm.binaryArith(op, line); err != nil {
				return chunk.Null, err
			}
		case chunk.OpNegate:
			a := vm.pop()
			if !a.IsNumber() {
				return chunk.Null, vm.runtimeError(line, "Operand must be a number.")
			}
			vm.push(chunk.Number(-a.Number()))
		case chunk.OpNot:
			vm.push(chunk.Bool(!vm.pop().Truthy()))

		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(chunk.Bool(a.Equal(b)))
		case chunk.OpNotEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(chunk.Bool(!a.Equal(b)))
		case chunk.OpLess, chunk.OpGreater, chunk.OpLessEqual, chunk.OpGreaterEqual:
			if err := vm.compare(op, line); err != nil {
				return chunk.Null, err
			}

		case chunk.OpPop:
			vm.pop()

		case chunk.OpDefineGlobal:
			name := frame.chunk().Strings[vm.readU16(frame)]
			vm.globals.Define(name, vm.pop())
		case chunk.OpGetGlobal:
			name := frame.chunk().Strings[vm.readU16(frame)]
			v, ok := vm.globals.Get(name)
			if !ok {
				return chunk.Null, vm.runtimeError(line, "Undefined variable '"+name+"'.")
			}
			vm.push(v)
		case chunk.OpSetGlobal:
			name := frame.chunk().Strings[vm.readU16(frame)]
			if _, ok := vm.globals.Get(name); !ok {
				return chunk.Null, vm.runtimeError(line, "Undefined variable '"+name+"'.")
			}
			vm.globals.Define(name, vm.peek(0))

		case chunk.OpGetLocal:
			slot := int(vm.readU8(frame))
			vm.push(vm.stack[frame.offset+slot])
		case chunk.OpSetLocal:
			slot := int(vm.readU8(frame))
			vm.stack[frame.offset+slot] = vm.peek(0)

		case chunk.OpGetTemp:
			n := int(vm.readU8(frame))
			vm.push(vm.peek(n))

		case chunk.OpGetAllocated:
			slot := int(vm.readU8(frame))
			vm.push(vm.captureLocal(frame, slot).Value)
		case chunk.OpSetAllocated:
			slot := int(vm.readU8(frame))
			vm.captureLocal(frame, slot).Value = vm.peek(0)

		case chunk.OpGetUpvalue:
			idx := int(vm.readU8(frame))
			vm.push(frame.upvalues[idx].Value)
		case chunk.OpSetUpvalue:
			idx := int(vm.readU8(frame))
			frame.upvalues[idx].Value = vm.peek(0)

		case chunk.OpClosure:
			vm.makeClosure(frame)

		case chunk.OpJump:
			frame.ip += int(vm.readU16(frame))
		case chunk.OpJumpIfFalse:
			offset := vm.readU16(frame)
			if !vm.peek(0).Truthy() {
				frame.ip += int(offset)
			}
		case chunk.OpJumpIfNull:
			offset := vm.readU16(frame)
			if vm.peek(0).IsNull() {
				frame.ip += int(offset)
			}
		case chunk.OpLoop:
			frame.ip -= int(vm.readU16(frame))

		case chunk.OpCall:
			argc := int(vm.readU8(frame))
			if err := vm.call(argc, line); err != nil {
				return chunk.Null, err
			}

		case chunk.OpList:
			vm.makeList(int(vm.readU8(frame)))
		case chunk.OpListLong:
			vm.makeList(int(vm.readU16(frame)))
		case chunk.OpDict:
			vm.makeDict(int(vm.readU8(frame)))

		case chunk.OpGetIndex:
			if err := vm.getIndex(line); err != nil {
				return chunk.Null, err
			}
		case chunk.OpSetIndex:
			if err := vm.setIndex(line); err != nil {
				return chunk.Null, err
			}

		case chunk.OpToString:
			vm.push(NewString(vm.pop().Display()))

		case chunk.OpReturn:
			retVal := vm.pop()
			base := frame.offset - 1
			if base < 0 {
				base = 0
			}
			vm.stack = vm.stack[:base]
			vm.push(retVal)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return retVal, nil
			}

		default:
			return chunk.Null, vm.runtimeError(line, fmt.Sprintf("unknown opcode %d", op))
		}
	}
}

func (vm *VM) currentLine() int {
	f := &vm.frames[len(vm.frames)-1]
	pos := f.ip
	if pos >= len(f.chunk().Code) {
		pos = len(f.chunk().Code) - 1
	}
	if pos < 0 {
		return 0
	}
	return f.chunk().LineAt(pos)
}

func (vm *VM) readU8(f *CallFrame) byte {
	b := f.chunk().Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readU16(f *CallFrame) uint16 {
	v := f.chunk().ReadU16(f.ip)
	f.ip += 2
	return v
}

// runtimeError clears the operand stack and captures a line trace, innermost
// first: the offending line, then the call site inside every still-open
// caller frame (spec.md §4.6.5).
func (vm *VM) runtimeError(line int, msg string) error {
	lines := []int{line}
	for i := len(vm.frames) - 2; i >= 0; i-- {
		lines = append(lines, vm.frames[i].callSiteLine())
	}
	vm.stack = vm.stack[:0]
	return &RuntimeError{Message: msg, Lines: lines}
}

// TypeName returns v's Bang-level type name, the same string both the VM's
// own "Can't index type ..." errors and internal/stdlib's `type` builtin
// report (spec.md §4.6.2, §6).
func TypeName(v chunk.Value) string {
	switch v.Kind() {
	case chunk.KindNull:
		return "null"
	case chunk.KindBool:
		return "bool"
	case chunk.KindNumber:
		return "number"
	case chunk.KindObject:
		return v.Object().ObjectKind()
	default:
		return "unknown"
	}
}
