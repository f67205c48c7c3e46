package compiler

import (
	"fmt"

	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/chunk"
	"github.com/mna/bang/lang/machine"
)

func (c *Compiler) compileStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.compileStmt(s)
	}
}

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		c.compileBlock(n)
	case *ast.Declaration:
		c.compileDeclaration(n)
	case *ast.ExprStmt:
		c.compileExprStmt(n)
	case *ast.If:
		c.compileIf(n)
	case *ast.While:
		c.compileWhile(n)
	case *ast.Return:
		c.compileReturn(n)
	case *ast.Import:
		c.compileImport(n)
	case *ast.CommentStmt:
		// purely documentation, no bytecode
	default:
		panic(fmt.Sprintf("compiler: unhandled statement type %T", s))
	}
}

func (c *Compiler) compileBlock(n *ast.Block) {
	line := c.lineOf(n)
	c.beginScope()
	c.compileStmts(n.Stmts)
	c.endScope(line)
}

func (c *Compiler) compileExprStmt(n *ast.ExprStmt) {
	c.compileExpr(n.Expr)
	c.emitOp(chunk.OpPop, c.lineOf(n))
}

// compileIf emits the condition followed by a non-consuming JumpIfFalse
// (spec.md §4.3.1: conditionals do not pop), so each branch starts by
// explicitly popping the condition value itself.
func (c *Compiler) compileIf(n *ast.If) {
	line := c.lineOf(n)
	c.compileExpr(n.Condition)
	thenJump := c.emitJump(chunk.OpJumpIfFalse, line)
	c.emitOp(chunk.OpPop, line)
	c.compileStmt(n.Then)
	elseJump := c.emitJump(chunk.OpJump, line)
	c.patchJump(thenJump, line)
	c.emitOp(chunk.OpPop, line)
	if n.Else != nil {
		c.compileStmt(n.Else)
	}
	c.patchJump(elseJump, line)
}

func (c *Compiler) compileWhile(n *ast.While) {
	line := c.lineOf(n)
	loopStart := len(c.fs.chunk.Code)
	c.compileExpr(n.Condition)
	exitJump := c.emitJump(chunk.OpJumpIfFalse, line)
	c.emitOp(chunk.OpPop, line)
	c.compileStmt(n.Body)
	c.emitLoop(loopStart, line)
	c.patchJump(exitJump, line)
	c.emitOp(chunk.OpPop, line)
}

func (c *Compiler) compileReturn(n *ast.Return) {
	line := c.lineOf(n)
	if n.Value != nil {
		c.compileExpr(n.Value)
	} else {
		c.emitOp(chunk.OpNull, line)
	}
	c.emitOp(chunk.OpReturn, line)
}

// compileDeclaration lowers a `let` statement for all three target shapes
// (spec.md §4.3.2 "Declaration", §9 "Destructuring via temporary slot").
// A single-name target whose value is a function literal gets the
// function pre-declared as a local before its body compiles, so a
// function can call itself recursively through an upvalue to its own
// name (spec.md §9, mirroring Lox-style recursive local functions).
func (c *Compiler) compileDeclaration(n *ast.Declaration) {
	line := c.lineOf(n)
	switch t := n.Target.(type) {
	case *ast.SingleTarget:
		fn, isFn := ast.Unwrap(n.Value).(*ast.Function)
		if isFn && !c.fs.isGlobalScope() {
			c.addLocal(t.Name, line)
			c.compileFunction(fn, t.Name)
			return
		}
		if isFn {
			c.compileFunction(fn, t.Name)
		} else {
			c.compileExpr(n.Value)
		}
		c.defineBinding(t.Name, line)
	case *ast.OrderedTarget:
		c.compileOrderedDestructure(t, n.Value, line)
	case *ast.NamedTarget:
		c.compileNamedDestructure(t, n.Value, line)
	}
}

// beginDestructure compiles the RHS and reserves its stack slot as an
// anonymous local, addressable by GetLocal for the rest of the
// destructuring regardless of how many per-name locals get pushed above
// it in the meantime (GetLocal's operand is a frame-absolute slot index,
// not relative to the current stack top).
func (c *Compiler) beginDestructure(value ast.Expr, line int) int {
	c.compileExpr(value)
	return c.addLocal("", line)
}

// endDestructure drops the destructuring temporary. At global scope the
// temporary never becomes a real binding, so its stack slot must be
// popped explicitly (spec.md §9: "a final Pop drops the RHS"). At
// function scope the per-name locals were pushed directly above it with
// no intervening pops, so the temporary can't be popped in isolation;
// it is left in place and reclaimed later by the enclosing block's
// endScope, along with the real locals bound above it.
func (c *Compiler) endDestructure(tempIdx int, line int) {
	if c.fs.isGlobalScope() {
		c.fs.locals = c.fs.locals[:len(c.fs.locals)-1]
		c.emitOp(chunk.OpPop, line)
	}
}

func (c *Compiler) compileOrderedDestructure(t *ast.OrderedTarget, value ast.Expr, line int) {
	tempIdx := c.beginDestructure(value, line)
	for i, name := range t.Names {
		c.emitOp(chunk.OpGetLocal, line)
		c.emitU8(byte(tempIdx), line)
		c.emitConstant(chunk.Number(float64(i)), line)
		c.emitOp(chunk.OpGetIndex, line)
		c.defineBinding(name, line)
	}
	c.endDestructure(tempIdx, line)
}

func (c *Compiler) compileNamedDestructure(t *ast.NamedTarget, value ast.Expr, line int) {
	tempIdx := c.beginDestructure(value, line)
	for _, item := range t.Items {
		c.emitOp(chunk.OpGetLocal, line)
		c.emitU8(byte(tempIdx), line)
		c.emitConstant(machine.NewString(item.Name), line)
		c.emitOp(chunk.OpGetIndex, line)
		c.defineBinding(item.Alias, line)
	}
	c.endDestructure(tempIdx, line)
}

// compileImport resolves each imported item through the Context host and
// binds it exactly like a single-name declaration (spec.md §4.3.2
// "Import").
func (c *Compiler) compileImport(n *ast.Import) {
	line := c.lineOf(n)
	for _, item := range n.Items {
		v := c.resolveImport(n.Module, item.Name, line)
		c.emitConstant(v, line)
		c.defineBinding(item.Alias, line)
	}
}
