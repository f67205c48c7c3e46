package ast

import (
	"fmt"

	"github.com/mna/bang/lang/token"
)

type (
	// Literal is a number, string, true, false, or null literal.
	Literal struct {
		SpanValue token.Span
		Kind      token.Kind // token.Number, token.String, token.True, token.False, or token.Null
		Value     any        // float64, string, bool, or nil respectively
	}

	// Variable is a reference to a named binding.
	Variable struct {
		SpanValue token.Span
		Name      string
	}

	// Assignment is `name = expr` or a compound `name += expr` (and -=, *=,
	// /=). Op is token.Equal for plain assignment.
	Assignment struct {
		SpanValue token.Span
		Name      string
		Op        token.Kind
		Value     Expr
	}

	// Binary is a binary operator expression.
	Binary struct {
		SpanValue token.Span
		Op        token.Kind
		Left      Expr
		Right     Expr
	}

	// Unary is a unary operator expression (`-x`, `!x`).
	Unary struct {
		SpanValue token.Span
		Op        token.Kind
		Expr      Expr
	}

	// Group is a parenthesised expression.
	Group struct {
		SpanValue token.Span
		Expr      Expr
	}

	// Call is a function call `callee(args...)`.
	Call struct {
		SpanValue token.Span
		Callee    Expr
		Args      []Expr
	}

	// Param is one function parameter.
	Param struct {
		Name string
	}

	// Function is a function literal: `(params) => expr` or
	// `(params) -> [returnType] \n block`.
	Function struct {
		SpanValue  token.Span
		Params     []Param
		CatchAll   bool // last parameter collects remaining args (spec.md §3 Arity)
		Body       Stmt
		Name       string // not set by lang/parser; the compiler names functions from their `let` binding
		ReturnType string // optional type annotation text; no other package reads it
	}

	// List is a list literal `[a, b, c]`.
	List struct {
		SpanValue token.Span
		Items     []Expr
	}

	// DictItem is one `key: value` pair of a dictionary literal.
	DictItem struct {
		Key   Expr
		Value Expr
	}

	// Dictionary is a dictionary literal `{k: v, ...}`.
	Dictionary struct {
		SpanValue token.Span
		Items     []DictItem
	}

	// Index is an index expression `expr[index]`.
	Index struct {
		SpanValue token.Span
		Expr      Expr
		Index     Expr
	}

	// IndexAssignment is `expr[index] = value` or a compound
	// `expr[index] += value` (Op is token.Equal for plain assignment).
	IndexAssignment struct {
		SpanValue token.Span
		Expr      Expr
		Index     Expr
		Value     Expr
		Op        token.Kind
	}

	// FormatString is a string literal with interpolations. The invariant
	// len(Strings) == len(Expressions)+1 always holds (spec.md §3).
	FormatString struct {
		SpanValue   token.Span
		Strings     []string
		Expressions []Expr
	}

	// ModuleAccess is `module::item`.
	ModuleAccess struct {
		SpanValue token.Span
		Module    string
		Item      string
	}

	// CommentExpr wraps the expression it trails with its source comment text
	// (spec.md §4.2: `.comment` is the highest-precedence infix rule).
	CommentExpr struct {
		SpanValue token.Span
		Expr      Expr
		Text      string
	}
)

func (n *Literal) Span() token.Span         { return n.SpanValue }
func (n *Variable) Span() token.Span        { return n.SpanValue }
func (n *Assignment) Span() token.Span      { return n.SpanValue }
func (n *Binary) Span() token.Span          { return n.SpanValue }
func (n *Unary) Span() token.Span           { return n.SpanValue }
func (n *Group) Span() token.Span           { return n.SpanValue }
func (n *Call) Span() token.Span            { return n.SpanValue }
func (n *Function) Span() token.Span        { return n.SpanValue }
func (n *List) Span() token.Span            { return n.SpanValue }
func (n *Dictionary) Span() token.Span       { return n.SpanValue }
func (n *Index) Span() token.Span           { return n.SpanValue }
func (n *IndexAssignment) Span() token.Span { return n.SpanValue }
func (n *FormatString) Span() token.Span    { return n.SpanValue }
func (n *ModuleAccess) Span() token.Span    { return n.SpanValue }
func (n *CommentExpr) Span() token.Span     { return n.SpanValue }

func (*Literal) expr()         {}
func (*Variable) expr()        {}
func (*Assignment) expr()      {}
func (*Binary) expr()          {}
func (*Unary) expr()           {}
func (*Group) expr()           {}
func (*Call) expr()            {}
func (*Function) expr()        {}
func (*List) expr()            {}
func (*Dictionary) expr()      {}
func (*Index) expr()           {}
func (*IndexAssignment) expr() {}
func (*FormatString) expr()    {}
func (*ModuleAccess) expr()    {}
func (*CommentExpr) expr()     {}

func (n *Literal) Walk(Visitor)  {}
func (n *Variable) Walk(Visitor) {}
func (n *Assignment) Walk(v Visitor) {
	Walk(v, n.Value)
}
func (n *Binary) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *Unary) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *Group) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *Function) Walk(v Visitor) { Walk(v, n.Body) }
func (n *List) Walk(v Visitor) {
	for _, item := range n.Items {
		Walk(v, item)
	}
}
func (n *Dictionary) Walk(v Visitor) {
	for _, item := range n.Items {
		Walk(v, item.Key)
		Walk(v, item.Value)
	}
}
func (n *Index) Walk(v Visitor) {
	Walk(v, n.Expr)
	Walk(v, n.Index)
}
func (n *IndexAssignment) Walk(v Visitor) {
	Walk(v, n.Expr)
	Walk(v, n.Index)
	Walk(v, n.Value)
}
func (n *FormatString) Walk(v Visitor) {
	for _, e := range n.Expressions {
		Walk(v, e)
	}
}
func (n *ModuleAccess) Walk(Visitor) {}
func (n *CommentExpr) Walk(v Visitor) { Walk(v, n.Expr) }

func (n *Literal) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("literal %v", n.Value))
}
func (n *Variable) Format(f fmt.State, verb rune) {
	format(f, verb, n, "variable "+n.Name)
}
func (n *Assignment) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assignment "+n.Name)
}
func (n *Binary) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.String())
}
func (n *Unary) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.String())
}
func (n *Group) Format(f fmt.State, verb rune) { format(f, verb, n, "group") }
func (n *Call) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("call {%d args}", len(n.Args)))
}
func (n *Function) Format(f fmt.State, verb rune) {
	label := "function"
	if n.Name != "" {
		label += " " + n.Name
	}
	format(f, verb, n, label)
}
func (n *List) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("list {%d items}", len(n.Items)))
}
func (n *Dictionary) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("dictionary {%d items}", len(n.Items)))
}
func (n *Index) Format(f fmt.State, verb rune) { format(f, verb, n, "index") }
func (n *IndexAssignment) Format(f fmt.State, verb rune) {
	format(f, verb, n, "index assignment")
}
func (n *FormatString) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("format string {%d exprs}", len(n.Expressions)))
}
func (n *ModuleAccess) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Module+"::"+n.Item)
}
func (n *CommentExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "comment "+n.Text)
}
