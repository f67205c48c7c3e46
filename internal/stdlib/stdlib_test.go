package stdlib_test

import (
	"bytes"
	"testing"

	"github.com/mna/bang/internal/stdlib"
	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/compiler"
	"github.com/mna/bang/lang/machine"
	"github.com/mna/bang/lang/parser"
	"github.com/stretchr/testify/require"
)

func runGlobal(t *testing.T, ctx chunk.Context, source, name string) chunk.Value {
	t.Helper()
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	out, err := compiler.Compile(source, ch, ctx)
	require.NoError(t, err)
	vm := machine.New(ctx)
	_, err = vm.Run(out)
	require.NoError(t, err)
	v, ok := vm.GetGlobal(name)
	require.True(t, ok, "global %q was never defined", name)
	return v
}

func TestMathsModuleSqrt(t *testing.T) {
	ctx := stdlib.New()
	r := runGlobal(t, ctx, "from maths import { sqrt }\nlet r = sqrt(16)\n", "r")
	require.Equal(t, 4.0, r.Number())
}

func TestMathsModuleConstants(t *testing.T) {
	ctx := stdlib.New()
	r := runGlobal(t, ctx, "from maths import { PI }\nlet r = PI\n", "r")
	require.InDelta(t, 3.14159, r.Number(), 0.001)
}

func TestMathsModuleLogBase(t *testing.T) {
	ctx := stdlib.New()
	r := runGlobal(t, ctx, "from maths import { log }\nlet r = log(8, 2)\n", "r")
	require.InDelta(t, 3.0, r.Number(), 1e-9)
}

func TestListModulePushPopGet(t *testing.T) {
	ctx := stdlib.New()
	source := "" +
		"from list import { push, pop, get, reverse, length }\n" +
		"let l = [1, 2]\n" +
		"push(l, 3)\n" +
		"let popped = pop(l)\n" +
		"let first = get(l, 0)\n" +
		"let rev = reverse(l)\n" +
		"let len = length(l)\n"
	require.Equal(t, 3.0, runGlobal(t, ctx, source, "popped").Number())
	require.Equal(t, 1.0, runGlobal(t, ctx, source, "first").Number())
	require.Equal(t, 2.0, runGlobal(t, ctx, source, "len").Number())

	rev := runGlobal(t, ctx, source, "rev")
	list, ok := rev.Object().(*machine.List)
	require.True(t, ok)
	require.Equal(t, 2.0, list.Items[0].Number())
	require.Equal(t, 1.0, list.Items[1].Number())
}

func TestListModuleGetNegativeIndex(t *testing.T) {
	ctx := stdlib.New()
	r := runGlobal(t, ctx, "from list import { get }\nlet r = get([10, 20, 30], -1)\n", "r")
	require.Equal(t, 30.0, r.Number())
}

func TestListModuleGetOutOfRangeYieldsNull(t *testing.T) {
	ctx := stdlib.New()
	r := runGlobal(t, ctx, "from list import { get }\nlet r = get([1], 10)\n", "r")
	require.True(t, r.IsNull())
}

func TestStringModuleFunctions(t *testing.T) {
	ctx := stdlib.New()
	source := "" +
		"from string import { trim, toUpperCase, includes, repeat }\n" +
		"let a = trim('  hi  ')\n" +
		"let b = toUpperCase('hi')\n" +
		"let c = includes('hello', 'ell')\n" +
		"let d = repeat('ab', 3)\n"
	a, ok := machine.AsString(runGlobal(t, ctx, source, "a"))
	require.True(t, ok)
	require.Equal(t, "hi", a)

	b, ok := machine.AsString(runGlobal(t, ctx, source, "b"))
	require.True(t, ok)
	require.Equal(t, "HI", b)

	require.True(t, runGlobal(t, ctx, source, "c").Bool())

	d, ok := machine.AsString(runGlobal(t, ctx, source, "d"))
	require.True(t, ok)
	require.Equal(t, "ababab", d)
}

func TestTypeBuiltin(t *testing.T) {
	ctx := stdlib.New()
	source := "let a = type(1)\nlet b = type('s')\nlet c = type(null)\nlet d = type([1])\n"
	a, _ := machine.AsString(runGlobal(t, ctx, source, "a"))
	b, _ := machine.AsString(runGlobal(t, ctx, source, "b"))
	c, _ := machine.AsString(runGlobal(t, ctx, source, "c"))
	d, _ := machine.AsString(runGlobal(t, ctx, source, "d"))
	require.Equal(t, "number", a)
	require.Equal(t, "string", b)
	require.Equal(t, "null", c)
	require.Equal(t, "list", d)
}

func TestToStringBuiltinDoesNotQuoteStrings(t *testing.T) {
	ctx := stdlib.New()
	source := "let a = toString('hi')\nlet b = toString(3)\n"
	a, ok := machine.AsString(runGlobal(t, ctx, source, "a"))
	require.True(t, ok)
	require.Equal(t, "hi", a)

	b, ok := machine.AsString(runGlobal(t, ctx, source, "b"))
	require.True(t, ok)
	require.Equal(t, "3", b)
}

func TestPrintWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	ctx := stdlib.NewWithOutput(&buf)
	source := "print('hello')\n"
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	out, err := compiler.Compile(source, ch, ctx)
	require.NoError(t, err)
	vm := machine.New(ctx)
	_, err = vm.Run(out)
	require.NoError(t, err)
	require.Equal(t, "hello\n", buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := stdlib.New()
	source := "" +
		"from json import { parse, stringify }\n" +
		"let decoded = parse('{\"a\": 1, \"b\": [1, 2, 3]}')\n" +
		"let a = decoded['a']\n" +
		"let encoded = stringify([1, 'two', null, true])\n"
	require.Equal(t, 1.0, runGlobal(t, ctx, source, "a").Number())

	encoded, ok := machine.AsString(runGlobal(t, ctx, source, "encoded"))
	require.True(t, ok)
	require.Equal(t, `[1,"two",null,true]`, encoded)
}

func TestImportUnknownModule(t *testing.T) {
	ch, err := parser.Parse("test", "from nosuch import { x }\n")
	require.NoError(t, err)
	ctx := stdlib.New()
	_, err = compiler.Compile("from nosuch import { x }\n", ch, ctx)
	require.Error(t, err)
	cerr, ok := err.(*compiler.Error)
	require.True(t, ok)
	require.Equal(t, compiler.ModuleNotFound, cerr.Kind)
}
