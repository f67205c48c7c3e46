// Package compiler implements the single-pass AST-to-bytecode lowering
// described in spec.md §4.3: it merges what would otherwise be a separate
// name-resolution pass directly into bytecode emission, tracking locals,
// scope depth, and upvalue chains as it walks the AST once per function to
// emit code (after collectCaptured's pre-pass over the function body).
package compiler

import (
	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/chunk"
)

const (
	maxU8     = 255
	maxU16    = 65535
	maxLocals = 255
)

// local is one entry in a function's compile-time local-variable table.
// An anonymous local (name == "") is scratch space used only by
// destructuring declarations (spec.md §9: "Destructuring via temporary
// slot").
type local struct {
	name   string
	depth  int
	closed bool
}

// upvalueSlot is one entry in a function's compile-time upvalue table: a
// reference either to a slot in the immediately enclosing function's
// locals (isLocal true) or to an upvalue already resolved in that
// enclosing function (isLocal false, chained outward).
type upvalueSlot struct {
	index   int
	isLocal bool
}

// funcState is the compiler's per-function-in-progress record; the
// compiler keeps a stack of these via the parent chain (spec.md §4.3:
// "a stack of in-progress chunks").
type funcState struct {
	parent     *funcState
	chunk      *chunk.Chunk
	locals     []local
	upvalues   []upvalueSlot
	scopeDepth int
	captured   map[string]bool // names this function's nested closures reference
}

func (fs *funcState) isGlobalScope() bool { return fs.parent == nil && fs.scopeDepth == 0 }

// Compiler lowers one AST chunk into one bytecode Chunk, tracking locals,
// scope depth, and upvalue chains as it descends (spec.md §4.3).
type Compiler struct {
	source     string
	ctx        chunk.Context
	fs         *funcState
	importMemo map[[2]string]chunk.Value
}

// Compile lowers ch into a runnable Chunk. Compilation halts and returns
// the first error encountered (spec.md §7: "compilation halts with one
// diagnostic").
func Compile(source string, ch *ast.Chunk, ctx chunk.Context) (out *chunk.Chunk, err error) {
	c := &Compiler{
		source:     source,
		ctx:        ctx,
		importMemo: map[[2]string]chunk.Value{},
	}
	c.fs = &funcState{chunk: chunk.New(), captured: collectCaptured(ch.Block)}

	defer func() {
		if r := recover(); r != nil {
			if cerr, ok := r.(*Error); ok {
				err = cerr
				return
			}
			panic(r)
		}
	}()

	c.compileStmts(ch.Block.Stmts)
	line := c.lineOf(ch.Block)
	c.emitOp(chunk.OpNull, line)
	c.emitOp(chunk.OpReturn, line)
	return c.fs.chunk, nil
}

func (c *Compiler) lineOf(n ast.Node) int { return n.Span().Line(c.source) }

func (c *Compiler) fail(kind Kind, line int, msg string) {
	panic(newError(kind, line, msg))
}

func (c *Compiler) emitOp(op chunk.Op, line int) int { return c.fs.chunk.WriteOp(op, line) }
func (c *Compiler) emitU8(b byte, line int)          { c.fs.chunk.WriteU8(b, line) }
func (c *Compiler) emitU16(v uint16, line int)       { c.fs.chunk.WriteU16(v, line) }

// emitJump writes op followed by a placeholder u16 offset, returning the
// position of the offset so it can be patched once the jump target is
// known.
func (c *Compiler) emitJump(op chunk.Op, line int) int {
	c.emitOp(op, line)
	pos := len(c.fs.chunk.Code)
	c.emitU16(0, line)
	return pos
}

func (c *Compiler) patchJump(pos int, line int) {
	offset := len(c.fs.chunk.Code) - (pos + 2)
	if offset > maxU16 {
		c.fail(TooBigJump, line, "jump offset exceeds 65535 bytes")
	}
	c.fs.chunk.PatchU16(pos, uint16(offset))
}

func (c *Compiler) emitLoop(start int, line int) {
	c.emitOp(chunk.OpLoop, line)
	pos := len(c.fs.chunk.Code)
	c.emitU16(0, line)
	offset := pos + 2 - start
	if offset > maxU16 {
		c.fail(TooBigJump, line, "loop offset exceeds 65535 bytes")
	}
	c.fs.chunk.PatchU16(pos, uint16(offset))
}

// emitConstant adds v to the constant pool and emits the Constant or
// ConstantLong form depending on the resulting index.
func (c *Compiler) emitConstant(v chunk.Value, line int) {
	idx := c.fs.chunk.AddConstant(v)
	if idx > maxU16 {
		c.fail(TooManyConstants, line, "more than 65535 constants")
	}
	if idx <= maxU8 {
		c.emitOp(chunk.OpConstant, line)
		c.emitU8(byte(idx), line)
		return
	}
	c.emitOp(chunk.OpConstantLong, line)
	c.emitU16(uint16(idx), line)
}

func (c *Compiler) beginScope() { c.fs.scopeDepth++ }

func (c *Compiler) endScope(line int) {
	c.fs.scopeDepth--
	for len(c.fs.locals) > 0 && c.fs.locals[len(c.fs.locals)-1].depth > c.fs.scopeDepth {
		c.fs.locals = c.fs.locals[:len(c.fs.locals)-1]
		c.emitOp(chunk.OpPop, line)
	}
}

// addLocal declares name as occupying the next stack slot in the current
// function. name == "" declares an anonymous scratch slot (used by
// destructuring) that can never be looked up by resolveLocal.
func (c *Compiler) addLocal(name string, line int) int {
	if name != "" {
		for i := len(c.fs.locals) - 1; i >= 0 && c.fs.locals[i].depth == c.fs.scopeDepth; i-- {
			if c.fs.locals[i].name == name {
				c.fail(VariableAlreadyExists, line, "variable already exists: "+name)
			}
		}
	}
	if len(c.fs.locals) >= maxLocals {
		c.fail(TooManyLocals, line, "more than 255 locals")
	}
	l := local{name: name, depth: c.fs.scopeDepth, closed: name != "" && c.fs.captured[name]}
	c.fs.locals = append(c.fs.locals, l)
	return len(c.fs.locals) - 1
}

func resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return i
		}
	}
	return -1
}

func addUpvalue(fs *funcState, index int, isLocal bool) int {
	for i, uv := range fs.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	fs.upvalues = append(fs.upvalues, upvalueSlot{index: index, isLocal: isLocal})
	return len(fs.upvalues) - 1
}

func resolveUpvalue(fs *funcState, name string) int {
	if fs.parent == nil {
		return -1
	}
	if idx := resolveLocal(fs.parent, name); idx != -1 {
		return addUpvalue(fs, idx, true)
	}
	if idx := resolveUpvalue(fs.parent, name); idx != -1 {
		return addUpvalue(fs, idx, false)
	}
	return -1
}

// varRefKind tags how a resolved variable reference is reached.
type varRefKind int

const (
	refLocal varRefKind = iota
	refClosedLocal
	refUpvalue
	refGlobal
)

type varRef struct {
	kind  varRefKind
	index int
}

func (c *Compiler) resolveVar(name string) varRef {
	if idx := resolveLocal(c.fs, name); idx != -1 {
		if c.fs.locals[idx].closed {
			return varRef{kind: refClosedLocal, index: idx}
		}
		return varRef{kind: refLocal, index: idx}
	}
	if idx := resolveUpvalue(c.fs, name); idx != -1 {
		return varRef{kind: refUpvalue, index: idx}
	}
	return varRef{kind: refGlobal}
}

func (c *Compiler) globalIndex(name string, line int) uint16 {
	idx := c.fs.chunk.InternString(name)
	if idx > maxU16 {
		c.fail(TooManyConstants, line, "more than 65535 interned strings")
	}
	return uint16(idx)
}

func (c *Compiler) emitGet(ref varRef, name string, line int) {
	switch ref.kind {
	case refLocal:
		c.emitOp(chunk.OpGetLocal, line)
		c.emitU8(byte(ref.index), line)
	case refClosedLocal:
		c.emitOp(chunk.OpGetAllocated, line)
		c.emitU8(byte(ref.index), line)
	case refUpvalue:
		c.emitOp(chunk.OpGetUpvalue, line)
		c.emitU8(byte(ref.index), line)
	default:
		c.emitOp(chunk.OpGetGlobal, line)
		c.emitU16(c.globalIndex(name, line), line)
	}
}

func (c *Compiler) emitSet(ref varRef, name string, line int) {
	switch ref.kind {
	case refLocal:
		c.emitOp(chunk.OpSetLocal, line)
		c.emitU8(byte(ref.index), line)
	case refClosedLocal:
		c.emitOp(chunk.OpSetAllocated, line)
		c.emitU8(byte(ref.index), line)
	case refUpvalue:
		c.emitOp(chunk.OpSetUpvalue, line)
		c.emitU8(byte(ref.index), line)
	default:
		c.emitOp(chunk.OpSetGlobal, line)
		c.emitU16(c.globalIndex(name, line), line)
	}
}

// defineBinding finishes a `let` binding for name whose value is already on
// top of the stack: a function-scope binding simply keeps that slot (it
// has just become the new local); a global-scope binding pops it into the
// globals table.
func (c *Compiler) defineBinding(name string, line int) {
	if c.fs.isGlobalScope() {
		c.emitOp(chunk.OpDefineGlobal, line)
		c.emitU16(c.globalIndex(name, line), line)
		return
	}
	c.addLocal(name, line)
}
