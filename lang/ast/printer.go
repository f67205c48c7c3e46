package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of the AST as an indented tree, one node
// per line.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// NodeFmt is the format string used to print each node. The verb must be
	// either `s` or `v`. Defaults to "%v".
	NodeFmt string
}

// Print pretty-prints the AST rooted at n, one line per node, indented by
// nesting depth.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, nodeFmt: p.NodeFmt}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	nodeFmt string
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, "%s"+p.nodeFmt+"\n", strings.Repeat(". ", p.depth-1), n)
	}
	return p
}
