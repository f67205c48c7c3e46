package parser

import (
	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/token"
)

func (p *parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.Let:
		return p.parseDeclaration()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Return:
		return p.parseReturn()
	case token.From:
		return p.parseImport()
	case token.Comment:
		tok := p.cur
		p.advance()
		p.expectEndOfStmt()
		return &ast.CommentStmt{SpanValue: tok.Span, Text: p.text(tok)}
	default:
		start := p.cur.Span
		expr := p.parseExpr()
		p.expectEndOfStmt()
		return &ast.ExprStmt{SpanValue: start.Union(expr.Span()), Expr: expr}
	}
}

// parseBlock parses an indented block introduced by an EndOfLine at the
// current statement's end. A block whose following line is not indented
// deeper than parentDepth is empty (spec.md §4.2: "equal or lower depth pops
// out").
func (p *parser) parseBlock(parentDepth int) *ast.Block {
	start := p.cur.Span
	if p.cur.Kind == token.EndOfLine {
		p.advance()
	}
	for p.skipBlankLine() {
	}

	block := &ast.Block{SpanValue: start}
	if p.cur.Kind == token.EOF {
		return block
	}

	newDepth := lineIndent(p.source, p.cur.Span.Start)
	if newDepth <= parentDepth {
		return block
	}

	savedDepth := p.depth
	p.depth = newDepth
	for p.cur.Kind != token.EOF && lineIndent(p.source, p.cur.Span.Start) == newDepth {
		block.Stmts = append(block.Stmts, p.parseStmt())
		for p.skipBlankLine() {
		}
	}
	p.depth = savedDepth

	if len(block.Stmts) > 0 {
		block.SpanValue = start.Union(block.Stmts[len(block.Stmts)-1].Span())
	}
	return block
}

func (p *parser) parseDeclarationTarget() ast.DeclarationTarget {
	switch p.cur.Kind {
	case token.LeftSquare:
		p.advance()
		var names []string
		for p.cur.Kind != token.RightSquare {
			names = append(names, p.text(p.expectIdentifier()))
			if p.cur.Kind != token.RightSquare {
				p.expect(token.Comma, ExpectedClosingSquare, ",")
			}
		}
		p.advance()
		return &ast.OrderedTarget{Names: names}
	case token.LeftBrace:
		p.advance()
		var items []ast.NamedItem
		for p.cur.Kind != token.RightBrace {
			name := p.text(p.expectIdentifier())
			alias := name
			if p.cur.Kind == token.As {
				p.advance()
				alias = p.text(p.expectIdentifier())
			}
			items = append(items, ast.NamedItem{Name: name, Alias: alias})
			if p.cur.Kind != token.RightBrace {
				p.expect(token.Comma, ExpectedClosingBrace, ",")
			}
		}
		p.advance()
		return &ast.NamedTarget{Items: items}
	default:
		return &ast.SingleTarget{Name: p.text(p.expectIdentifier())}
	}
}

func (p *parser) parseDeclaration() ast.Stmt {
	start := p.cur.Span
	p.advance() // let
	target := p.parseDeclarationTarget()
	p.expect(token.Equal, ExpectedExpression, "=")
	value := p.parseExpr()
	p.expectEndOfStmt()
	return &ast.Declaration{SpanValue: start.Union(value.Span()), Target: target, Value: value}
}

func (p *parser) parseIf() ast.Stmt {
	start := p.cur.Span
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlock(p.depth)
	span := start.Union(then.Span())

	var elseStmt ast.Stmt
	// an `else` at the current depth, on its own line, continues the chain
	if p.cur.Kind == token.Else && lineIndent(p.source, p.cur.Span.Start) == p.depth {
		p.advance()
		if p.cur.Kind == token.If {
			elseStmt = p.parseIf()
		} else {
			elseStmt = p.parseBlock(p.depth)
		}
		span = span.Union(elseStmt.Span())
	}

	return &ast.If{SpanValue: span, Condition: cond, Then: then, Else: elseStmt}
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.cur.Span
	p.advance() // while
	cond := p.parseExpr()
	body := p.parseBlock(p.depth)
	return &ast.While{SpanValue: start.Union(body.Span()), Condition: cond, Body: body}
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.cur.Span
	p.advance() // return
	span := start
	var value ast.Expr
	if p.cur.Kind != token.EndOfLine && p.cur.Kind != token.EOF && p.cur.Kind != token.Comment {
		value = p.parseExpr()
		span = span.Union(value.Span())
	}
	p.expectEndOfStmt()
	return &ast.Return{SpanValue: span, Value: value}
}

func (p *parser) parseImport() ast.Stmt {
	start := p.cur.Span
	p.advance() // from
	module := p.text(p.expectIdentifier())
	if p.cur.Kind != token.Import {
		p.fail(ExpectedImportKeyword, "expected 'import'")
	}
	p.advance()
	p.expect(token.LeftBrace, ExpectedOpeningBracket, "{")

	var items []ast.ImportItem
	for p.cur.Kind != token.RightBrace {
		if p.cur.Kind != token.Identifier {
			p.fail(ExpectedModuleItem, "expected module item")
		}
		name := p.text(p.cur)
		p.advance()
		alias := name
		if p.cur.Kind == token.As {
			p.advance()
			alias = p.text(p.expectIdentifier())
		}
		items = append(items, ast.ImportItem{Name: name, Alias: alias})
		if p.cur.Kind != token.RightBrace {
			p.expect(token.Comma, ExpectedClosingBrace, ",")
		}
	}
	end := p.cur.Span
	p.advance()
	p.expectEndOfStmt()
	return &ast.Import{SpanValue: start.Union(end), Module: module, Items: items}
}
