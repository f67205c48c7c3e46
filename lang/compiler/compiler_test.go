package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/compiler"
	"github.com/mna/bang/lang/machine"
	"github.com/mna/bang/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, source string) *chunk.Chunk {
	t.Helper()
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	out, err := compiler.Compile(source, ch, nil)
	require.NoError(t, err)
	require.NoError(t, out.Verify())
	return out
}

func compileErr(t *testing.T, source string, ctx chunk.Context) *compiler.Error {
	t.Helper()
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	_, err = compiler.Compile(source, ch, ctx)
	require.Error(t, err)
	cerr, ok := err.(*compiler.Error)
	require.True(t, ok, "expected *compiler.Error, got %T", err)
	return cerr
}

// runGlobal compiles and runs source, returning the named global's final
// value (spec.md §8's "source → observable globals" testing shape).
func runGlobal(t *testing.T, source, name string) chunk.Value {
	t.Helper()
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	out, err := compiler.Compile(source, ch, nil)
	require.NoError(t, err)
	vm := machine.New(nil)
	_, err = vm.Run(out)
	require.NoError(t, err)
	v, ok := vm.GetGlobal(name)
	require.True(t, ok, "global %q was never defined", name)
	return v
}

func TestCompileVerifiesCleanBytecode(t *testing.T) {
	mustCompile(t, "let f = (a, b) ->\n  if a > b\n    return a\n  return b\nlet r = f(3, 7)\n")
}

func TestCompileArithmeticDeclaration(t *testing.T) {
	r := runGlobal(t, "let x = 1 + 2 * 3\n", "x")
	require.Equal(t, 7.0, r.Number())
}

func TestCompileStringConcatenation(t *testing.T) {
	r := runGlobal(t, "let s = 'foo' + 'bar'\n", "s")
	s, ok := machine.AsString(r)
	require.True(t, ok)
	require.Equal(t, "foobar", s)
}

func TestCompileIfElse(t *testing.T) {
	source := "let x = 5\nlet r = 0\nif x > 3\n  r = 1\nelse\n  r = 2\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 1.0, r.Number())
}

func TestCompileWhileLoop(t *testing.T) {
	source := "let i = 0\nlet sum = 0\nwhile i < 5\n  sum += i\n  i += 1\n"
	r := runGlobal(t, source, "sum")
	require.Equal(t, 10.0, r.Number())
}

func TestCompileIterativeFibonacci(t *testing.T) {
	source := "" +
		"let fib = (n) ->\n" +
		"  let a = 0\n" +
		"  let b = 1\n" +
		"  let i = 0\n" +
		"  while i < n\n" +
		"    let tmp = a + b\n" +
		"    a = b\n" +
		"    b = tmp\n" +
		"    i += 1\n" +
		"  return a\n" +
		"let r = fib(10)\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 55.0, r.Number())
}

func TestCompileRecursiveFibonacci(t *testing.T) {
	source := "" +
		"let fib = (n) ->\n" +
		"  if n == 0\n" +
		"    return 0\n" +
		"  else if n <= 2\n" +
		"    return n - 1\n" +
		"  return fib(n-1) + fib(n-2)\n" +
		"let r = fib(5)\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 3.0, r.Number())
}

func TestCompileClosureMutation(t *testing.T) {
	source := "" +
		"let mk = () ->\n" +
		"  let x = 0\n" +
		"  return () ->\n" +
		"    x += 1\n" +
		"    return x\n" +
		"let c = mk()\n" +
		"c()\n" +
		"c()\n" +
		"let r = c()\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 3.0, r.Number())
}

func TestCompileCatchAllFunction(t *testing.T) {
	source := "" +
		"let f = (a, ..rest) ->\n" +
		"  return rest\n" +
		"let r = f(1, 2, 3)\n"
	r := runGlobal(t, source, "r")
	require.True(t, r.IsObject())
	list, ok := r.Object().(*machine.List)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
	require.Equal(t, 2.0, list.Items[0].Number())
	require.Equal(t, 3.0, list.Items[1].Number())
}

func TestCompilePipelineWithExtraArgs(t *testing.T) {
	source := "let add = (x, y) => x + y\nlet r = 3 >> add(4)\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 7.0, r.Number())
}

func TestCompilePipelineNonCallTarget(t *testing.T) {
	source := "let double = (x) => x * 2\nlet r = 5 >> double\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 10.0, r.Number())
}

func TestCompileLogicalOperators(t *testing.T) {
	source := "let a = false || 2\nlet b = 1 && 2\nlet c = null ?? 3\n"
	a := runGlobal(t, source, "a")
	b := runGlobal(t, source, "b")
	c := runGlobal(t, source, "c")
	require.Equal(t, 2.0, a.Number())
	require.Equal(t, 2.0, b.Number())
	require.Equal(t, 3.0, c.Number())
}

func TestCompileFormatString(t *testing.T) {
	source := "let n = 3\nlet s = `n is ${n}!`\n"
	r := runGlobal(t, source, "s")
	s, ok := machine.AsString(r)
	require.True(t, ok)
	require.Equal(t, "n is 3!", s)
}

func TestCompileOrderedDestructuringGlobalScope(t *testing.T) {
	source := "let [a, b] = [10, 20]\n"
	require.Equal(t, 10.0, runGlobal(t, source, "a").Number())
	require.Equal(t, 20.0, runGlobal(t, source, "b").Number())
}

func TestCompileOrderedDestructuringFunctionScope(t *testing.T) {
	source := "" +
		"let f = () ->\n" +
		"  let [a, b] = [10, 20]\n" +
		"  return a + b\n" +
		"let r = f()\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 30.0, r.Number())
}

func TestCompileNamedDestructuring(t *testing.T) {
	source := "let { x, y as z } = { 'x': 1, 'y': 2 }\n"
	require.Equal(t, 1.0, runGlobal(t, source, "x").Number())
	require.Equal(t, 2.0, runGlobal(t, source, "z").Number())
}

func TestCompileCompoundIndexAssignment(t *testing.T) {
	source := "let a = [1, 2, 3]\na[1] += 10\nlet r = a[1]\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 12.0, r.Number())
}

func TestCompileListAndDictLiterals(t *testing.T) {
	source := "let l = [1, 2, 3]\nlet d = { 'a': 1, 'b': 2 }\nlet r = l[1] + d['b']\n"
	r := runGlobal(t, source, "r")
	require.Equal(t, 4.0, r.Number())
}

func TestCompileVariableAlreadyExistsInFunctionScope(t *testing.T) {
	source := "let f = () ->\n  let x = 1\n  let x = 2\n"
	cerr := compileErr(t, source, nil)
	require.Equal(t, compiler.VariableAlreadyExists, cerr.Kind)
}

func TestCompileTooManyParameters(t *testing.T) {
	params := make([]string, 0, 256)
	for i := 0; i < 256; i++ {
		params = append(params, fmt.Sprintf("p%d", i))
	}
	source := "let f = (" + strings.Join(params, ", ") + ") => 1\n"
	cerr := compileErr(t, source, nil)
	require.Equal(t, compiler.TooManyParameters, cerr.Kind)
}

func TestCompileTooManyArguments(t *testing.T) {
	args := make([]string, 0, 256)
	for i := 0; i < 256; i++ {
		args = append(args, "1")
	}
	source := "let f = (..rest) => rest\nlet r = f(" + strings.Join(args, ", ") + ")\n"
	cerr := compileErr(t, source, nil)
	require.Equal(t, compiler.TooManyArguments, cerr.Kind)
}

// stubContext is a minimal chunk.Context for exercising import resolution
// without depending on internal/stdlib.
type stubContext struct {
	values  map[string]map[string]chunk.Value
	globals map[string]chunk.Value
}

func (s *stubContext) GetValue(module, item string) chunk.ImportResult {
	mod, ok := s.values[module]
	if !ok {
		return chunk.ImportResult{Kind: chunk.ImportModuleNotFound}
	}
	v, ok := mod[item]
	if !ok {
		return chunk.ImportResult{Kind: chunk.ImportItemNotFound}
	}
	return chunk.ImportResult{Kind: chunk.ImportConstant, Constant: v}
}

func (s *stubContext) DefineGlobals(define func(name string, v chunk.Value)) {
	for name, v := range s.globals {
		define(name, v)
	}
}

func TestCompileImportModuleNotFound(t *testing.T) {
	cerr := compileErr(t, "from maths import { sqrt }\n", &stubContext{})
	require.Equal(t, compiler.ModuleNotFound, cerr.Kind)
}

func TestCompileImportItemNotFound(t *testing.T) {
	ctx := &stubContext{values: map[string]map[string]chunk.Value{
		"maths": {"pi": chunk.Number(3.14)},
	}}
	cerr := compileErr(t, "from maths import { nonexistent }\n", ctx)
	require.Equal(t, compiler.ItemNotFound, cerr.Kind)
}

func TestCompileImportBindsConstant(t *testing.T) {
	ctx := &stubContext{values: map[string]map[string]chunk.Value{
		"maths": {"pi": chunk.Number(3.14)},
	}}
	source := "from maths import { pi }\n"
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	out, err := compiler.Compile(source, ch, ctx)
	require.NoError(t, err)
	vm := machine.New(ctx)
	_, err = vm.Run(out)
	require.NoError(t, err)
	v, ok := vm.GetGlobal("pi")
	require.True(t, ok)
	require.Equal(t, 3.14, v.Number())
}

func TestCompileIndexOutOfRangeYieldsNull(t *testing.T) {
	source := "let a = [1, 2]\nlet r = a[10]\n"
	r := runGlobal(t, source, "r")
	require.True(t, r.IsNull())
}

func TestCompileCallingNumberIsRuntimeError(t *testing.T) {
	ch, err := parser.Parse("test", "let r = 1()\n")
	require.NoError(t, err)
	out, err := compiler.Compile("let r = 1()\n", ch, nil)
	require.NoError(t, err)
	vm := machine.New(nil)
	_, err = vm.Run(out)
	require.Error(t, err)
	_, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
}

func TestCompileIndexingNumberIsRuntimeError(t *testing.T) {
	ch, err := parser.Parse("test", "let a = 1\nlet r = a[0]\n")
	require.NoError(t, err)
	out, err := compiler.Compile("let a = 1\nlet r = a[0]\n", ch, nil)
	require.NoError(t, err)
	vm := machine.New(nil)
	_, err = vm.Run(out)
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, rerr.Message, "Can't index type number")
}
