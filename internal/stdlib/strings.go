package stdlib

import (
	"math"
	"strconv"
	"strings"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

func strUnary(name string, fn func(string) string) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		s, ok := machine.AsString(args[0])
		if !ok {
			return chunk.Null, argTypeError(name, "string", args[0])
		}
		return machine.NewString(fn(s)), nil
	})
}

func strUnaryNumber(name string, fn func(string) float64) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		s, ok := machine.AsString(args[0])
		if !ok {
			return chunk.Null, argTypeError(name, "string", args[0])
		}
		return chunk.Number(fn(s)), nil
	})
}

func strBinaryBool(name string, fn func(a, b string) bool) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
		a, ok := machine.AsString(args[0])
		if !ok {
			return chunk.Null, argTypeError(name, "string", args[0])
		}
		b, ok := machine.AsString(args[1])
		if !ok {
			return chunk.Null, argTypeError(name, "string", args[1])
		}
		return chunk.Bool(fn(a, b)), nil
	})
}

func stringModule() map[string]chunk.Value {
	return map[string]chunk.Value{
		"length":    strUnaryNumber("length", func(s string) float64 { return float64(len([]rune(s))) }),
		"trim":      strUnary("trim", strings.TrimSpace),
		"trimStart": strUnary("trimStart", func(s string) string { return strings.TrimLeft(s, " \t\n\r") }),
		"trimEnd":   strUnary("trimEnd", func(s string) string { return strings.TrimRight(s, " \t\n\r") }),

		"repeat": machine.NewNativeFunction("repeat", chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
			s, ok := machine.AsString(args[0])
			if !ok {
				return chunk.Null, argTypeError("repeat", "string", args[0])
			}
			if !args[1].IsNumber() {
				return chunk.Null, argTypeError("repeat", "number", args[1])
			}
			return machine.NewString(strings.Repeat(s, int(args[1].Number()))), nil
		}),

		"includes":     strBinaryBool("includes", strings.Contains),
		"startsWith":   strBinaryBool("startsWith", strings.HasPrefix),
		"endsWith":     strBinaryBool("endsWith", strings.HasSuffix),
		"toLowerCase":  strUnary("toLowerCase", strings.ToLower),
		"toUpperCase":  strUnary("toUpperCase", strings.ToUpper),

		"toNumber": strUnaryNumber("toNumber", func(s string) float64 {
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return math.NaN()
			}
			return n
		}),
	}
}
