package compiler

import "github.com/mna/bang/lang/ast"

// collectCaptured finds every name referenced (read or written) from inside
// any function literal nested within body, at any depth. The compiler uses
// this to decide, before it emits a single instruction for a function's
// body, which of that function's own locals must live in an Allocated cell
// for their entire lifetime (spec.md §9's upvalue design) — a pre-pass
// rather than Crafting-Interpreters-style lazy open/close-upvalue
// bookkeeping, since committing to the decision up front lets the single
// compile pass choose GetAllocated/SetAllocated uniformly for a captured
// local without ever needing to rewrite already-emitted GetLocal/SetLocal
// bytes.
//
// This over-approximates: a name used inside a nested function that
// happens to shadow the outer local is still flagged. That only costs an
// extra Cell indirection on an otherwise-unneeded local, never a
// correctness bug.
func collectCaptured(body ast.Node) map[string]bool {
	captured := map[string]bool{}
	depth := 0

	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if _, ok := n.(*ast.Function); ok {
			if dir == ast.VisitEnter {
				depth++
			} else {
				depth--
			}
			return visit
		}
		if depth > 0 && dir == ast.VisitEnter {
			switch v := n.(type) {
			case *ast.Variable:
				captured[v.Name] = true
			case *ast.Assignment:
				captured[v.Name] = true
			}
		}
		return visit
	}
	ast.Walk(visit, body)
	return captured
}
