package stdlib

import (
	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

func asList(name string, v chunk.Value) (*machine.List, error) {
	if v.IsObject() {
		if l, ok := v.Object().(*machine.List); ok {
			return l, nil
		}
	}
	return nil, argTypeError(name, "list", v)
}

func listModule() map[string]chunk.Value {
	return map[string]chunk.Value{
		"length": machine.NewNativeFunction("length", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("length", args[0])
			if err != nil {
				return chunk.Null, err
			}
			return chunk.Number(float64(len(l.Items))), nil
		}),

		"isEmpty": machine.NewNativeFunction("isEmpty", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("isEmpty", args[0])
			if err != nil {
				return chunk.Null, err
			}
			return chunk.Bool(len(l.Items) == 0), nil
		}),

		// push mutates l in place and returns the same list value, mirroring
		// original_source's `ListReturned` shape (the native receives the list
		// object already resolved; it returns args[0] itself, not a copy).
		"push": machine.NewNativeFunction("push", chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("push", args[0])
			if err != nil {
				return chunk.Null, err
			}
			l.Items = append(l.Items, args[1])
			return args[0], nil
		}),

		// pop mutates l in place and returns the removed item, or null if l
		// was already empty.
		"pop": machine.NewNativeFunction("pop", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("pop", args[0])
			if err != nil {
				return chunk.Null, err
			}
			if len(l.Items) == 0 {
				return chunk.Null, nil
			}
			last := l.Items[len(l.Items)-1]
			l.Items = l.Items[:len(l.Items)-1]
			return last, nil
		}),

		"includes": machine.NewNativeFunction("includes", chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("includes", args[0])
			if err != nil {
				return chunk.Null, err
			}
			for _, item := range l.Items {
				if item.Equal(args[1]) {
					return chunk.Bool(true), nil
				}
			}
			return chunk.Bool(false), nil
		}),

		// reverse returns a new list; it does not mutate l, matching
		// original_source's `.iter().rev().cloned().collect()`.
		"reverse": machine.NewNativeFunction("reverse", chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("reverse", args[0])
			if err != nil {
				return chunk.Null, err
			}
			reversed := make([]chunk.Value, len(l.Items))
			for i, v := range l.Items {
				reversed[len(l.Items)-1-i] = v
			}
			return machine.NewList(reversed), nil
		}),

		// get uses the same negative-index-from-end convention as OpGetIndex
		// (chunk.Index), out of range yielding null rather than an error.
		"get": machine.NewNativeFunction("get", chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
			l, err := asList("get", args[0])
			if err != nil {
				return chunk.Null, err
			}
			if !args[1].IsNumber() {
				return chunk.Null, argTypeError("get", "number", args[1])
			}
			i := chunk.Index(args[1].Number(), len(l.Items))
			if i < 0 || i >= len(l.Items) {
				return chunk.Null, nil
			}
			return l.Items[i], nil
		}),
	}
}
