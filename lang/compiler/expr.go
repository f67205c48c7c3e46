package compiler

import (
	"fmt"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
	"github.com/mna/bang/lang/token"
)

func (c *Compiler) compileExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		c.compileLiteral(n)
	case *ast.Variable:
		c.emitGet(c.resolveVar(n.Name), n.Name, c.lineOf(n))
	case *ast.Assignment:
		c.compileAssignment(n)
	case *ast.Binary:
		c.compileBinary(n)
	case *ast.Unary:
		c.compileUnary(n)
	case *ast.Group:
		c.compileExpr(n.Expr)
	case *ast.Call:
		c.compileCall(n)
	case *ast.Function:
		c.compileFunction(n, "")
	case *ast.List:
		c.compileList(n)
	case *ast.Dictionary:
		c.compileDictionary(n)
	case *ast.Index:
		c.compileIndex(n)
	case *ast.IndexAssignment:
		c.compileIndexAssignment(n)
	case *ast.FormatString:
		c.compileFormatString(n)
	case *ast.ModuleAccess:
		c.compileModuleAccess(n)
	case *ast.CommentExpr:
		c.compileExpr(n.Expr)
	default:
		panic(fmt.Sprintf("compiler: unhandled expression type %T", e))
	}
}

func (c *Compiler) compileLiteral(n *ast.Literal) {
	line := c.lineOf(n)
	switch n.Kind {
	case token.Number:
		c.emitConstant(chunk.Number(n.Value.(float64)), line)
	case token.String:
		c.emitConstant(machine.NewString(n.Value.(string)), line)
	case token.True:
		c.emitOp(chunk.OpTrue, line)
	case token.False:
		c.emitOp(chunk.OpFalse, line)
	case token.Null:
		c.emitOp(chunk.OpNull, line)
	}
}

// compileAssignment lowers `name = value` and the compound forms
// (spec.md §4.3.2 "Assignment"). Both Get and Set opcodes used here leave
// their value on the stack: assignment is an expression.
func (c *Compiler) compileAssignment(n *ast.Assignment) {
	line := c.lineOf(n)
	ref := c.resolveVar(n.Name)
	if n.Op == token.Equal {
		c.compileExpr(n.Value)
	} else {
		c.emitGet(ref, n.Name, line)
		c.compileExpr(n.Value)
		c.emitOp(compoundOpcode(n.Op), line)
	}
	c.emitSet(ref, n.Name, line)
}

func binaryOpcode(op token.Kind) chunk.Op {
	switch op {
	case token.Plus:
		return chunk.OpAdd
	case token.Minus:
		return chunk.OpSubtract
	case token.Star:
		return chunk.OpMultiply
	case token.Slash:
		return chunk.OpDivide
	case token.EqualEqual:
		return chunk.OpEqual
	case token.BangEqual:
		return chunk.OpNotEqual
	case token.LeftAngle:
		return chunk.OpLess
	case token.RightAngle:
		return chunk.OpGreater
	case token.LessEqual:
		return chunk.OpLessEqual
	case token.GreaterEqual:
		return chunk.OpGreaterEqual
	default:
		panic("compiler: unhandled binary operator " + op.String())
	}
}

func compoundOpcode(op token.Kind) chunk.Op {
	switch op {
	case token.PlusEqual:
		return chunk.OpAdd
	case token.MinusEqual:
		return chunk.OpSubtract
	case token.StarEqual:
		return chunk.OpMultiply
	case token.SlashEqual:
		return chunk.OpDivide
	default:
		panic("compiler: unhandled compound operator " + op.String())
	}
}

func (c *Compiler) compileBinary(n *ast.Binary) {
	line := c.lineOf(n)
	switch n.Op {
	case token.And:
		c.compileLogicalAnd(n, line)
	case token.Or:
		c.compileLogicalOr(n, line)
	case token.QuestionQuestion:
		c.compileNullish(n, line)
	case token.Pipeline:
		c.compilePipeline(n, line)
	default:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emitOp(binaryOpcode(n.Op), line)
	}
}

// compileLogicalAnd implements `a and b` (spec.md §4.3.2): JumpIfFalse
// does not pop, so a false left operand is exactly the value that
// remains on the stack as the whole expression's result.
func (c *Compiler) compileLogicalAnd(n *ast.Binary, line int) {
	c.compileExpr(n.Left)
	end := c.emitJump(chunk.OpJumpIfFalse, line)
	c.emitOp(chunk.OpPop, line)
	c.compileExpr(n.Right)
	c.patchJump(end, line)
}

func (c *Compiler) compileLogicalOr(n *ast.Binary, line int) {
	c.compileExpr(n.Left)
	alt := c.emitJump(chunk.OpJumpIfFalse, line)
	end := c.emitJump(chunk.OpJump, line)
	c.patchJump(alt, line)
	c.emitOp(chunk.OpPop, line)
	c.compileExpr(n.Right)
	c.patchJump(end, line)
}

func (c *Compiler) compileNullish(n *ast.Binary, line int) {
	c.compileExpr(n.Left)
	alt := c.emitJump(chunk.OpJumpIfNull, line)
	end := c.emitJump(chunk.OpJump, line)
	c.patchJump(alt, line)
	c.emitOp(chunk.OpPop, line)
	c.compileExpr(n.Right)
	c.patchJump(end, line)
}

// unwrapForPipeline strips groups and trailing comments from the right
// operand of a pipeline so `x >> f(args).comment` still recognizes the
// call shape (spec.md §4.3.2 "Pipeline").
func unwrapForPipeline(e ast.Expr) ast.Expr {
	for {
		switch v := e.(type) {
		case *ast.Group:
			e = v.Expr
		case *ast.CommentExpr:
			e = v.Expr
		default:
			return e
		}
	}
}

func (c *Compiler) compilePipeline(n *ast.Binary, line int) {
	target := unwrapForPipeline(n.Right)
	if call, ok := target.(*ast.Call); ok {
		c.compileExpr(call.Callee)
		c.compileExpr(n.Left)
		for _, a := range call.Args {
			c.compileExpr(a)
		}
		argc := len(call.Args) + 1
		c.checkArgc(argc, line)
		c.emitOp(chunk.OpCall, line)
		c.emitU8(byte(argc), line)
		return
	}
	c.compileExpr(target)
	c.compileExpr(n.Left)
	c.emitOp(chunk.OpCall, line)
	c.emitU8(1, line)
}

func (c *Compiler) compileUnary(n *ast.Unary) {
	line := c.lineOf(n)
	c.compileExpr(n.Expr)
	if n.Op == token.Bang {
		c.emitOp(chunk.OpNot, line)
	} else {
		c.emitOp(chunk.OpNegate, line)
	}
}

func (c *Compiler) checkArgc(argc int, line int) {
	if argc > maxU8 {
		c.fail(TooManyArguments, line, "more than 255 arguments")
	}
}

func (c *Compiler) compileCall(n *ast.Call) {
	line := c.lineOf(n)
	c.compileExpr(n.Callee)
	for _, a := range n.Args {
		c.compileExpr(a)
	}
	c.checkArgc(len(n.Args), line)
	c.emitOp(chunk.OpCall, line)
	c.emitU8(byte(len(n.Args)), line)
}

// compileFunction compiles fn's body into a fresh Chunk and leaves the
// resulting Function (or, if it captured anything, Closure) value on top
// of the enclosing function's stack (spec.md §4.3.2 "Function", §9
// "Closures / upvalues").
func (c *Compiler) compileFunction(fn *ast.Function, name string) {
	line := c.lineOf(fn)
	if len(fn.Params) > maxU8 {
		c.fail(TooManyParameters, line, "more than 255 parameters")
	}

	parent := c.fs
	c.fs = &funcState{parent: parent, chunk: chunk.New(), captured: collectCaptured(fn.Body)}

	for _, p := range fn.Params {
		c.addLocal(p.Name, line)
	}

	c.compileStmt(fn.Body)
	bodyLine := c.lineOf(fn.Body)
	c.emitOp(chunk.OpNull, bodyLine)
	c.emitOp(chunk.OpReturn, bodyLine)

	count := len(fn.Params)
	if fn.CatchAll {
		count--
	}
	arity := chunk.Arity{Count: count, CatchAll: fn.CatchAll}

	upvalues := make([]machine.UpvalueDesc, len(c.fs.upvalues))
	for i, uv := range c.fs.upvalues {
		upvalues[i] = machine.UpvalueDesc{Index: uv.index, IsLocal: uv.isLocal}
	}
	body := c.fs.chunk
	captured := len(c.fs.upvalues) > 0

	c.fs = parent
	c.emitConstant(machine.NewFunction(name, arity, body, upvalues), line)
	if captured {
		c.emitOp(chunk.OpClosure, line)
	}
}

func (c *Compiler) compileList(n *ast.List) {
	line := c.lineOf(n)
	for _, item := range n.Items {
		c.compileExpr(item)
	}
	count := len(n.Items)
	if count > maxU16 {
		c.fail(TooLongList, line, "more than 65535 list items")
	}
	if count <= maxU8 {
		c.emitOp(chunk.OpList, line)
		c.emitU8(byte(count), line)
		return
	}
	c.emitOp(chunk.OpListLong, line)
	c.emitU16(uint16(count), line)
}

func (c *Compiler) compileDictionary(n *ast.Dictionary) {
	line := c.lineOf(n)
	for _, item := range n.Items {
		c.compileExpr(item.Key)
		c.compileExpr(item.Value)
	}
	count := len(n.Items)
	if count > maxU8 {
		c.fail(TooLargeDict, line, "more than 255 dict entries")
	}
	c.emitOp(chunk.OpDict, line)
	c.emitU8(byte(count), line)
}

func (c *Compiler) compileIndex(n *ast.Index) {
	line := c.lineOf(n)
	c.compileExpr(n.Expr)
	c.compileExpr(n.Index)
	c.emitOp(chunk.OpGetIndex, line)
}

// compileIndexAssignment lowers `x[i] = v` directly, and `x[i] += v` via
// the GetTemp-duplication pattern of spec.md §4.3.2 so the container and
// index are each evaluated exactly once.
func (c *Compiler) compileIndexAssignment(n *ast.IndexAssignment) {
	line := c.lineOf(n)
	c.compileExpr(n.Expr)
	c.compileExpr(n.Index)
	if n.Op == token.Equal {
		c.compileExpr(n.Value)
		c.emitOp(chunk.OpSetIndex, line)
		return
	}
	c.emitOp(chunk.OpGetTemp, line)
	c.emitU8(1, line)
	c.emitOp(chunk.OpGetTemp, line)
	c.emitU8(1, line)
	c.emitOp(chunk.OpGetIndex, line)
	c.compileExpr(n.Value)
	c.emitOp(compoundOpcode(n.Op), line)
	c.emitOp(chunk.OpSetIndex, line)
}

// compileFormatString lowers to a chain of constant-string pushes and
// ToString/Add operations (spec.md §9 "Format strings as sugar").
func (c *Compiler) compileFormatString(n *ast.FormatString) {
	line := c.lineOf(n)
	c.emitConstant(machine.NewString(n.Strings[0]), line)
	for i, e := range n.Expressions {
		c.compileExpr(e)
		c.emitOp(chunk.OpToString, line)
		c.emitOp(chunk.OpAdd, line)
		c.emitConstant(machine.NewString(n.Strings[i+1]), line)
		c.emitOp(chunk.OpAdd, line)
	}
}

func (c *Compiler) compileModuleAccess(n *ast.ModuleAccess) {
	line := c.lineOf(n)
	v := c.resolveImport(n.Module, n.Item, line)
	c.emitConstant(v, line)
}

// resolveImport queries the Context host and memoizes the result by
// (module, item), so repeated imports of the same item share identity
// (spec.md §4.3.2 "Import", §8 scenario 6).
func (c *Compiler) resolveImport(module, item string, line int) chunk.Value {
	key := [2]string{module, item}
	if v, ok := c.importMemo[key]; ok {
		return v
	}
	if c.ctx == nil {
		c.fail(ModuleNotFound, line, "module not found: "+module)
	}
	res := c.ctx.GetValue(module, item)
	switch res.Kind {
	case chunk.ImportConstant:
		c.importMemo[key] = res.Constant
		return res.Constant
	case chunk.ImportThunk:
		v := machine.NewFunction(item, res.Arity, res.Thunk, nil)
		c.importMemo[key] = v
		return v
	case chunk.ImportItemNotFound:
		c.fail(ItemNotFound, line, "item not found: "+module+"::"+item)
	default:
		c.fail(ModuleNotFound, line, "module not found: "+module)
	}
	panic("unreachable")
}
