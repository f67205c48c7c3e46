package ast

import (
	"fmt"

	"github.com/mna/bang/lang/token"
)

// A DeclarationTarget is the left-hand side of a `let` declaration: a single
// name, an ordered (by-index) destructure, or a named destructure with
// optional `as` aliases (spec.md §3).
type DeclarationTarget interface {
	declarationTarget()
}

// SingleTarget binds the declared value to a single name.
type SingleTarget struct {
	Name string
}

func (*SingleTarget) declarationTarget() {}

// OrderedTarget destructures the declared value by numeric index:
// `let [a, b] = list`.
type OrderedTarget struct {
	Names []string
}

func (*OrderedTarget) declarationTarget() {}

// NamedItem is one binding in a NamedTarget: `name` or `name as alias`.
type NamedItem struct {
	Name  string
	Alias string // equal to Name when no `as` clause is present
}

// NamedTarget destructures the declared value by key, with optional
// aliasing: `let { a, b as c } = dict`.
type NamedTarget struct {
	Items []NamedItem
}

func (*NamedTarget) declarationTarget() {}

type (
	// Block is a sequence of statements introduced by an increase in
	// indentation (spec.md §4.2).
	Block struct {
		SpanValue token.Span
		Stmts     []Stmt
	}

	// Declaration is a `let` binding, with a single-name, ordered-destructure,
	// or named-destructure target.
	Declaration struct {
		SpanValue token.Span
		Target    DeclarationTarget
		Value     Expr
	}

	// ExprStmt is an expression evaluated for its side effect, as a statement.
	ExprStmt struct {
		SpanValue token.Span
		Expr      Expr
	}

	// If is a conditional statement, with an optional Else branch (which may
	// itself be another *If, for `else if` chains).
	If struct {
		SpanValue token.Span
		Condition Expr
		Then      Stmt
		Else      Stmt // nil if no else branch
	}

	// While is a pretest loop.
	While struct {
		SpanValue token.Span
		Condition Expr
		Body      Stmt
	}

	// Return is a `return <expr>` statement.
	Return struct {
		SpanValue token.Span
		Value     Expr // nil if bare `return`
	}

	// ImportItem is one `name` or `name as alias` in an import list.
	ImportItem struct {
		Name  string
		Alias string // equal to Name when no `as` clause
	}

	// Import is a `from <module> import { item, item as alias, ... }`
	// statement.
	Import struct {
		SpanValue token.Span
		Module    string
		Items     []ImportItem
	}

	// CommentStmt is a standalone comment occupying a whole statement
	// position.
	CommentStmt struct {
		SpanValue token.Span
		Text      string
	}
)

func (n *Block) Span() token.Span       { return n.SpanValue }
func (n *Declaration) Span() token.Span { return n.SpanValue }
func (n *ExprStmt) Span() token.Span    { return n.SpanValue }
func (n *If) Span() token.Span          { return n.SpanValue }
func (n *While) Span() token.Span       { return n.SpanValue }
func (n *Return) Span() token.Span      { return n.SpanValue }
func (n *Import) Span() token.Span      { return n.SpanValue }
func (n *CommentStmt) Span() token.Span { return n.SpanValue }

func (*Block) stmt()       {}
func (*Declaration) stmt() {}
func (*ExprStmt) stmt()    {}
func (*If) stmt()          {}
func (*While) stmt()       {}
func (*Return) stmt()      {}
func (*Import) stmt()      {}
func (*CommentStmt) stmt() {}

func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Declaration) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ExprStmt) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *If) Walk(v Visitor) {
	Walk(v, n.Condition)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *While) Walk(v Visitor) {
	Walk(v, n.Condition)
	Walk(v, n.Body)
}
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *Import) Walk(Visitor)      {}
func (n *CommentStmt) Walk(Visitor) {}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("block {%d stmts}", len(n.Stmts)))
}
func (n *Declaration) Format(f fmt.State, verb rune) { format(f, verb, n, "declaration") }
func (n *ExprStmt) Format(f fmt.State, verb rune)    { format(f, verb, n, "expression statement") }
func (n *If) Format(f fmt.State, verb rune)          { format(f, verb, n, "if") }
func (n *While) Format(f fmt.State, verb rune)       { format(f, verb, n, "while") }
func (n *Return) Format(f fmt.State, verb rune)      { format(f, verb, n, "return") }
func (n *Import) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("import %q", n.Module))
}
func (n *CommentStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "comment "+n.Text)
}
