package chunk

// ImportResultKind tags which form a Context's resolution of a module item
// took (spec.md §4.4): a plain value baked in as a constant, a bytecode
// thunk to realize into a function value, or one of the two import-time
// compiler errors.
type ImportResultKind int

const (
	ImportConstant ImportResultKind = iota
	ImportThunk
	ImportModuleNotFound
	ImportItemNotFound
)

// ImportResult is what a Context returns for a single `from module import {
// item }` binding.
type ImportResult struct {
	Kind     ImportResultKind
	Constant Value // valid when Kind == ImportConstant
	Thunk    *Chunk // valid when Kind == ImportThunk: compiled body of a host-provided function
	Arity    Arity  // valid when Kind == ImportThunk
}

// Arity describes a callable's parameter shape: a fixed count plus whether
// the last parameter collects any extra positional arguments (spec.md §4.6,
// the `..name` catch-all parameter).
type Arity struct {
	Count    int
	CatchAll bool
}

// Context is the host collaborator spec.md §4.4 calls the "import host": it
// resolves `from <module> import { ... }` bindings at compile time and
// seeds VM globals at run time. Concrete modules (maths, list, string,
// json) live in internal/stdlib, out of core per spec.md §1.
type Context interface {
	// GetValue resolves a single module item, queried once per import binding
	// during compilation.
	GetValue(module, item string) ImportResult
	// DefineGlobals lets the host seed additional VM globals (builtins that
	// are always in scope, not gated behind an import) before a chunk runs.
	DefineGlobals(define func(name string, v Value))
}
