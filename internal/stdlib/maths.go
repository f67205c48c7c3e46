package stdlib

import (
	"math"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

// unary1 wraps a float64 -> float64 function as a one-argument Bang native
// function, erroring if the argument isn't a number (mirrors
// original_source's `unwrap_type!(Number, ...)` macro, hand-expanded since
// Go has no equivalent macro facility).
func unary1(name string, fn func(float64) float64) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		if !args[0].IsNumber() {
			return chunk.Null, argTypeError(name, "number", args[0])
		}
		return chunk.Number(fn(args[0].Number())), nil
	})
}

func unaryBool(name string, fn func(float64) bool) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 1}, func(args []chunk.Value) (chunk.Value, error) {
		if !args[0].IsNumber() {
			return chunk.Null, argTypeError(name, "number", args[0])
		}
		return chunk.Bool(fn(args[0].Number())), nil
	})
}

func binary2(name string, fn func(a, b float64) float64) chunk.Value {
	return machine.NewNativeFunction(name, chunk.Arity{Count: 2}, func(args []chunk.Value) (chunk.Value, error) {
		if !args[0].IsNumber() || !args[1].IsNumber() {
			return chunk.Null, argTypeError(name, "number", args[0])
		}
		return chunk.Number(fn(args[0].Number(), args[1].Number())), nil
	})
}

func mathsModule() map[string]chunk.Value {
	return map[string]chunk.Value{
		"PI":       chunk.Number(math.Pi),
		"E":        chunk.Number(math.E),
		"INFINITY": chunk.Number(math.Inf(1)),

		"floor": unary1("floor", math.Floor),
		"ceil":  unary1("ceil", math.Ceil),
		"round": unary1("round", math.Round),
		"abs":   unary1("abs", math.Abs),
		"sqrt":  unary1("sqrt", math.Sqrt),
		"cbrt":  unary1("cbrt", math.Cbrt),

		"sin":  unary1("sin", math.Sin),
		"cos":  unary1("cos", math.Cos),
		"tan":  unary1("tan", math.Tan),
		"asin": unary1("asin", math.Asin),
		"acos": unary1("acos", math.Acos),
		"atan": unary1("atan", math.Atan),

		"sinh":  unary1("sinh", math.Sinh),
		"cosh":  unary1("cosh", math.Cosh),
		"tanh":  unary1("tanh", math.Tanh),
		"asinh": unary1("asinh", math.Asinh),
		"acosh": unary1("acosh", math.Acosh),
		"atanh": unary1("atanh", math.Atanh),

		"isNan": unaryBool("isNan", math.IsNaN),

		"exp": unary1("exp", math.Exp),
		"ln":  unary1("ln", math.Log),

		"pow": binary2("pow", math.Pow),
		"log": binary2("log", logBase),

		"radiansToDegrees": unary1("radiansToDegrees", radiansToDegrees),
		"degreesToRadians": unary1("degreesToRadians", degreesToRadians),
	}
}

func radiansToDegrees(r float64) float64 { return r * (180 / math.Pi) }
func degreesToRadians(d float64) float64 { return d * (math.Pi / 180) }

// logBase matches original_source's `f64::log(self, base)`: log of self in
// the given base, not Go's natural-log-only math.Log.
func logBase(x, base float64) float64 { return math.Log(x) / math.Log(base) }
