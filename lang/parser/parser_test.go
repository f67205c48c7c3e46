package parser_test

import (
	"testing"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *ast.Chunk {
	t.Helper()
	ch, err := parser.Parse("test", source)
	require.NoError(t, err)
	return ch
}

func TestParseDeclaration(t *testing.T) {
	ch := mustParse(t, "let x = 1\n")
	require.Len(t, ch.Block.Stmts, 1)
	decl, ok := ch.Block.Stmts[0].(*ast.Declaration)
	require.True(t, ok)
	target, ok := decl.Target.(*ast.SingleTarget)
	require.True(t, ok)
	require.Equal(t, "x", target.Name)
	lit, ok := decl.Value.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, 1.0, lit.Value)
}

func TestParseDestructuring(t *testing.T) {
	ch := mustParse(t, "let [a, b] = list\nlet { c, d as e } = dict\n")
	require.Len(t, ch.Block.Stmts, 2)

	ordered := ch.Block.Stmts[0].(*ast.Declaration).Target.(*ast.OrderedTarget)
	require.Equal(t, []string{"a", "b"}, ordered.Names)

	named := ch.Block.Stmts[1].(*ast.Declaration).Target.(*ast.NamedTarget)
	require.Equal(t, []ast.NamedItem{{Name: "c", Alias: "c"}, {Name: "d", Alias: "e"}}, named.Items)
}

func TestParsePrecedence(t *testing.T) {
	ch := mustParse(t, "let r = a >> b && c\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	top := decl.Value.(*ast.Binary)
	require.Equal(t, ">>", top.Op.String())
	right, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "&&", right.Op.String())
}

func TestParseIfElseChain(t *testing.T) {
	source := "if a\n  x\nelse if b\n  y\nelse\n  z\n"
	ch := mustParse(t, source)
	ifStmt := ch.Block.Stmts[0].(*ast.If)
	require.Len(t, ifStmt.Then.(*ast.Block).Stmts, 1)
	elseIf, ok := ifStmt.Else.(*ast.If)
	require.True(t, ok)
	require.Len(t, elseIf.Then.(*ast.Block).Stmts, 1)
	elseBlock, ok := elseIf.Else.(*ast.Block)
	require.True(t, ok)
	require.Len(t, elseBlock.Stmts, 1)
}

func TestParseWhileBlock(t *testing.T) {
	ch := mustParse(t, "while cond\n  step()\n")
	w := ch.Block.Stmts[0].(*ast.While)
	require.Len(t, w.Body.(*ast.Block).Stmts, 1)
}

func TestParseFunctionArrow(t *testing.T) {
	ch := mustParse(t, "let f = (x) -> \n  return x\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	fn := decl.Value.(*ast.Function)
	require.Equal(t, []ast.Param{{Name: "x"}}, fn.Params)
	require.False(t, fn.CatchAll)
}

func TestParseFunctionFatArrow(t *testing.T) {
	ch := mustParse(t, "let add = (x, y) => x + y\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	fn := decl.Value.(*ast.Function)
	ret := fn.Body.(*ast.Return)
	bin := ret.Value.(*ast.Binary)
	require.Equal(t, "+", bin.Op.String())
}

func TestParseCatchAllFunction(t *testing.T) {
	ch := mustParse(t, "let f = (a, ..rest) => rest\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	fn := decl.Value.(*ast.Function)
	require.True(t, fn.CatchAll)
	require.Equal(t, "rest", fn.Params[1].Name)
}

func TestParseCatchAllMustBeLast(t *testing.T) {
	_, err := parser.Parse("test", "let a = (..catch, all) => 7\n")
	require.Error(t, err)
}

func TestParseOnlyOneCatchAll(t *testing.T) {
	_, err := parser.Parse("test", "let a = (..catch, ..all) => 7\n")
	require.Error(t, err)
}

func TestParseGroupVsFunctionDisambiguation(t *testing.T) {
	ch := mustParse(t, "let g = (1 + 2)\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	_, ok := decl.Value.(*ast.Group)
	require.True(t, ok)
}

func TestParseCallAndIndex(t *testing.T) {
	ch := mustParse(t, "let r = list::push(a)[0]\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	idx := decl.Value.(*ast.Index)
	call := idx.Expr.(*ast.Call)
	mod := call.Callee.(*ast.ModuleAccess)
	require.Equal(t, "list", mod.Module)
	require.Equal(t, "push", mod.Item)
}

func TestParseIndexAssignment(t *testing.T) {
	ch := mustParse(t, "a[0] += 1\n")
	stmt := ch.Block.Stmts[0].(*ast.ExprStmt)
	assign := stmt.Expr.(*ast.IndexAssignment)
	require.Equal(t, "+=", assign.Op.String())
}

func TestParseFormatString(t *testing.T) {
	ch := mustParse(t, "let s = `a${x}b${y}c`\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	fs := decl.Value.(*ast.FormatString)
	require.Equal(t, []string{"a", "b", "c"}, fs.Strings)
	require.Len(t, fs.Expressions, 2)
}

func TestParseImport(t *testing.T) {
	ch := mustParse(t, "from list import { map, push as add }\n")
	imp := ch.Block.Stmts[0].(*ast.Import)
	require.Equal(t, "list", imp.Module)
	require.Equal(t, []ast.ImportItem{{Name: "map", Alias: "map"}, {Name: "push", Alias: "add"}}, imp.Items)
}

func TestParseTrailingComment(t *testing.T) {
	ch := mustParse(t, "let x = 1 // hello\n")
	decl := ch.Block.Stmts[0].(*ast.Declaration)
	c := decl.Value.(*ast.CommentExpr)
	require.Equal(t, "// hello", c.Text)
}

func TestParseErrorReported(t *testing.T) {
	_, err := parser.Parse("test", "let = 1\n")
	require.Error(t, err)
}
