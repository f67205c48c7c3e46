package ast

import (
	"fmt"

	"github.com/mna/bang/lang/token"
)

// Chunk is the root node of a parsed source file: a block of top-level
// statements plus the file name it came from (may be empty for non-file
// input such as a REPL line).
type Chunk struct {
	Name      string
	Block     *Block
	SpanValue token.Span
}

func (n *Chunk) Span() token.Span { return n.SpanValue }

func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Chunk) Format(f fmt.State, verb rune) {
	label := "chunk"
	if n.Name != "" {
		label += " " + n.Name
	}
	format(f, verb, n, label)
}
