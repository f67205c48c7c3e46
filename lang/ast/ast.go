// Package ast defines the abstract syntax tree produced by lang/parser and
// consumed by lang/compiler and the host collaborators (formatter, linter,
// typechecker, pretty-printer).
package ast

import (
	"fmt"
	"strings"

	"github.com/mna/bang/lang/token"
)

// Node is any node in the AST: every statement and every expression.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a one-line
	// description of itself; see format() in ast.go for the supported
	// verbs/flags.
	fmt.Formatter

	// Span reports the source span covered by the node.
	Span() token.Span

	// Walk visits the node's direct children, in source order.
	Walk(v Visitor)
}

// Stmt is a statement node (spec.md §3: Block, Declaration, Expression, If,
// While, Return, Import, Comment).
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node (spec.md §3: Literal, Variable, Assignment,
// Binary, Unary, Group, Call, Function, List, Dictionary, Index,
// IndexAssignment, FormatString, ModuleAccess, Comment).
type Expr interface {
	Node
	expr()
}

// Unwrap strips any number of enclosing *Group expressions.
func Unwrap(e Expr) Expr {
	for {
		g, ok := e.(*Group)
		if !ok {
			return e
		}
		e = g.Expr
	}
}

// IsAssignable reports whether e is a valid assignment target: a bare
// variable or an index expression.
func IsAssignable(e Expr) bool {
	switch Unwrap(e).(type) {
	case *Variable, *Index:
		return true
	default:
		return false
	}
}

func format(f fmt.State, verb rune, n Node, label string) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}
	label = strings.ReplaceAll(label, "\n", "⏎")
	fmt.Fprint(f, label)
}
