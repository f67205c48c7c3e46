package machine

import "github.com/mna/bang/lang/chunk"

// call implements OpCall's dispatch over the three callable shapes (spec.md
// §4.6.1). Stack on entry is […, callee, arg0, …, arg(argc-1)].
func (vm *VM) call(argc int, line int) error {
	calleeIdx := len(vm.stack) - 1 - argc
	callee := vm.stack[calleeIdx]
	if !callee.IsObject() {
		return vm.runtimeError(line, "Can only call functions.")
	}
	switch obj := callee.Object().(type) {
	case *Function:
		return vm.enterFunction(obj, nil, argc, calleeIdx, line)
	case *Closure:
		return vm.enterFunction(obj.Function, obj.Upvalues, argc, calleeIdx, line)
	case *NativeFunction:
		return vm.callNative(obj, argc, calleeIdx, line)
	default:
		return vm.runtimeError(line, "Can only call functions.")
	}
}

// checkArity validates argc against arity, collapsing any catch-all extras
// in place on the stack starting at offset (spec.md §4.6.1: "If catch-all,
// collapse argc+1-count extra arguments into a list at the end of the
// stack"). It returns the effective number of stack slots the callee's
// locals now occupy (== len(Params)).
func (vm *VM) checkArity(arity chunk.Arity, name string, argc, offset, line int) (int, error) {
	required := arity.Count
	if !arity.CatchAll {
		if argc != required {
			return 0, vm.runtimeError(line, arityMessage(name, required, argc))
		}
		return argc, nil
	}
	if argc < required {
		return 0, vm.runtimeError(line, arityMessage(name, required, argc))
	}
	restCount := argc - required
	rest := make([]chunk.Value, restCount)
	copy(rest, vm.stack[offset+required:offset+required+restCount])
	vm.stack = vm.stack[:offset+required]
	vm.push(NewList(rest))
	return required + 1, nil
}

func arityMessage(name string, required, got int) string {
	if name == "" {
		name = "<anonymous>"
	}
	if got < required {
		return "Not enough arguments to call " + name + "."
	}
	return "Too many arguments to call " + name + "."
}

// enterFunction pushes a new CallFrame for fn (spec.md §4.6.1: "Push the
// current (ip+2, offset) as a frame; set offset = sp - count; set ip = 0 in
// the callee's chunk"). This implementation keeps the concrete per-frame
// state (fn, upvalues, ip, offset) as one CallFrame value per active call,
// rather than separate current/saved halves: the caller's own CallFrame
// entry is untouched (its ip already advanced past Call before this runs),
// so popping the new frame on Return resumes it exactly where it left off.
func (vm *VM) enterFunction(fn *Function, upvalues []*Cell, argc, calleeIdx, line int) error {
	if vm.MaxCallDepth > 0 && len(vm.frames) >= vm.MaxCallDepth {
		return vm.runtimeError(line, "call stack depth exceeded.")
	}
	offset := calleeIdx + 1
	if _, err := vm.checkArity(fn.Arity, fn.Name, argc, offset, line); err != nil {
		return err
	}
	vm.frames = append(vm.frames, CallFrame{fn: fn, upvalues: upvalues, ip: 0, offset: offset})
	return nil
}

// callNative runs a host-provided NativeFunction to completion synchronously
// (spec.md §4.6.1, §5: "a native returns a Value when it is finished; it
// may not suspend the interpreter").
func (vm *VM) callNative(fn *NativeFunction, argc, calleeIdx, line int) error {
	offset := calleeIdx + 1
	n, err := vm.checkArity(fn.Arity, fn.Name, argc, offset, line)
	if err != nil {
		return err
	}
	args := make([]chunk.Value, n)
	copy(args, vm.stack[offset:offset+n])
	result, callErr := fn.Func(args)
	if callErr != nil {
		return vm.runtimeError(line, callErr.Error())
	}
	vm.stack = vm.stack[:calleeIdx]
	vm.push(result)
	return nil
}
