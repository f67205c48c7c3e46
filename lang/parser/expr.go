package parser

import (
	"github.com/mna/bang/lang/ast"
	"github.com/mna/bang/lang/token"
)

// parseExpr parses a full expression, including a possible trailing comment
// attachment (spec.md §4.2: Comment is the highest-precedence infix rule).
func (p *parser) parseExpr() ast.Expr {
	e := p.parseAssignment()
	for p.cur.Kind == token.Comment {
		tok := p.cur
		p.advance()
		e = &ast.CommentExpr{SpanValue: e.Span().Union(tok.Span), Expr: e, Text: p.text(tok)}
	}
	return e
}

func assignOpFor(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual:
		return k, true
	default:
		return 0, false
	}
}

func (p *parser) parseAssignment() ast.Expr {
	if p.cur.Kind == token.Identifier {
		if op, ok := assignOpFor(p.peek().Kind); ok {
			nameTok := p.cur
			p.advance() // identifier
			p.advance() // op
			value := p.parseAssignment()
			return &ast.Assignment{
				SpanValue: nameTok.Span.Union(value.Span()),
				Name:      p.text(nameTok),
				Op:        op,
				Value:     value,
			}
		}
	}
	return p.parsePipeline()
}

func (p *parser) parsePipeline() ast.Expr {
	left := p.parseOr()
	for p.cur.Kind == token.Pipeline {
		op := p.cur.Kind
		p.advance()
		right := p.parseOr()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.cur.Kind == token.Or {
		op := p.cur.Kind
		p.advance()
		right := p.parseAnd()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseNullish()
	for p.cur.Kind == token.And {
		op := p.cur.Kind
		p.advance()
		right := p.parseNullish()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseNullish() ast.Expr {
	left := p.parseEquality()
	for p.cur.Kind == token.QuestionQuestion {
		op := p.cur.Kind
		p.advance()
		right := p.parseEquality()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.cur.Kind == token.EqualEqual || p.cur.Kind == token.BangEqual {
		op := p.cur.Kind
		p.advance()
		right := p.parseComparison()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.cur.Kind == token.LeftAngle || p.cur.Kind == token.LessEqual ||
		p.cur.Kind == token.RightAngle || p.cur.Kind == token.GreaterEqual {
		op := p.cur.Kind
		p.advance()
		right := p.parseTerm()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.cur.Kind == token.Plus || p.cur.Kind == token.Minus {
		op := p.cur.Kind
		p.advance()
		right := p.parseFactor()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.cur.Kind == token.Star || p.cur.Kind == token.Slash {
		op := p.cur.Kind
		p.advance()
		right := p.parseUnary()
		left = &ast.Binary{SpanValue: left.Span().Union(right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	if p.cur.Kind == token.Bang || p.cur.Kind == token.Minus {
		op := p.cur.Kind
		start := p.cur.Span
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{SpanValue: start.Union(operand.Span()), Op: op, Expr: operand}
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.LeftParen:
			expr = p.finishCall(expr)
		case token.LeftSquare:
			expr = p.finishIndex(expr)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	p.advance() // (
	var args []ast.Expr
	for p.cur.Kind != token.RightParen {
		args = append(args, p.parseExpr())
		if p.cur.Kind != token.RightParen {
			p.expect(token.Comma, ExpectedClosingBracket, ",")
		}
	}
	end := p.cur.Span
	p.advance() // )
	return &ast.Call{SpanValue: callee.Span().Union(end), Callee: callee, Args: args}
}

func (p *parser) finishIndex(expr ast.Expr) ast.Expr {
	p.advance() // [
	index := p.parseExpr()
	p.expect(token.RightSquare, ExpectedClosingSquare, "]")

	if op, ok := assignOpFor(p.cur.Kind); ok && ast.IsAssignable(expr) {
		p.advance()
		value := p.parseAssignment()
		return &ast.IndexAssignment{
			SpanValue: expr.Span().Union(value.Span()),
			Expr:      expr,
			Index:     index,
			Value:     value,
			Op:        op,
		}
	}

	return &ast.Index{SpanValue: expr.Span().Union(index.Span()), Expr: expr, Index: index}
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.Number:
		p.advance()
		return &ast.Literal{SpanValue: tok.Span, Kind: token.Number, Value: parseNumber(p.text(tok))}
	case token.String:
		p.advance()
		return &ast.Literal{SpanValue: tok.Span, Kind: token.String, Value: stringValue(p.text(tok))}
	case token.True:
		p.advance()
		return &ast.Literal{SpanValue: tok.Span, Kind: token.True, Value: true}
	case token.False:
		p.advance()
		return &ast.Literal{SpanValue: tok.Span, Kind: token.False, Value: false}
	case token.Null:
		p.advance()
		return &ast.Literal{SpanValue: tok.Span, Kind: token.Null, Value: nil}
	case token.Identifier:
		if p.peek().Kind == token.ColonColon {
			p.advance() // identifier
			p.advance() // ::
			item := p.expectIdentifier()
			return &ast.ModuleAccess{SpanValue: tok.Span.Union(item.Span), Module: p.text(tok), Item: p.text(item)}
		}
		p.advance()
		return &ast.Variable{SpanValue: tok.Span, Name: p.text(tok)}
	case token.LeftParen:
		return p.parseGroupOrFunction()
	case token.LeftSquare:
		return p.parseList()
	case token.LeftBrace:
		return p.parseDictionary()
	case token.FormatStringStart:
		return p.parseFormatString()
	default:
		p.fail(ExpectedExpression, "expected expression, found "+tok.Kind.String())
		panic("unreachable")
	}
}

func (p *parser) parseList() ast.Expr {
	start := p.cur.Span
	p.advance() // [
	var items []ast.Expr
	for p.cur.Kind != token.RightSquare {
		items = append(items, p.parseExpr())
		if p.cur.Kind != token.RightSquare {
			p.expect(token.Comma, ExpectedClosingSquare, ",")
		}
	}
	end := p.cur.Span
	p.advance()
	return &ast.List{SpanValue: start.Union(end), Items: items}
}

func (p *parser) parseDictionary() ast.Expr {
	start := p.cur.Span
	p.advance() // {
	var items []ast.DictItem
	for p.cur.Kind != token.RightBrace {
		key := p.parseExpr()
		p.expect(token.Colon, ExpectedColon, ":")
		value := p.parseExpr()
		items = append(items, ast.DictItem{Key: key, Value: value})
		if p.cur.Kind != token.RightBrace {
			p.expect(token.Comma, ExpectedClosingBrace, ",")
		}
	}
	end := p.cur.Span
	p.advance()
	return &ast.Dictionary{SpanValue: start.Union(end), Items: items}
}

func (p *parser) parseFormatString() ast.Expr {
	start := p.cur.Span
	strs := []string{formatSegment(p.text(p.cur))}
	p.advance() // FormatStringStart
	var exprs []ast.Expr

	for {
		exprs = append(exprs, p.parseExpr())
		switch p.cur.Kind {
		case token.FormatStringPart:
			strs = append(strs, formatSegment(p.text(p.cur)))
			p.advance()
		case token.FormatStringEnd:
			end := p.cur.Span
			strs = append(strs, formatSegment(p.text(p.cur)))
			p.advance()
			return &ast.FormatString{SpanValue: start.Union(end), Strings: strs, Expressions: exprs}
		default:
			p.fail(ExpectedExpression, "unterminated format string")
		}
	}
}

// formatSegment strips the delimiters from a format-string scanner segment:
// the opening quote and trailing "${" for Start, the surrounding "}" and
// "${" for Part, the leading "}" and closing quote for End.
func formatSegment(raw string) string {
	if len(raw) == 0 {
		return raw
	}
	s := raw
	switch s[0] {
	case '"', '\'', '`':
		s = s[1:]
	case '}':
		s = s[1:]
	}
	if len(s) >= 2 && s[len(s)-2:] == "${" {
		s = s[:len(s)-2]
	} else if len(s) >= 1 {
		switch s[len(s)-1] {
		case '"', '\'', '`':
			s = s[:len(s)-1]
		}
	}
	return s
}

func (p *parser) parseGroupOrFunction() ast.Expr {
	if p.isFunctionParens() {
		return p.parseFunction()
	}

	start := p.cur.Span
	p.advance() // (
	inner := p.parseExpr()
	end := p.expect(token.RightParen, ExpectedClosingBracket, ")")
	return &ast.Group{SpanValue: start.Union(end.Span), Expr: inner}
}

func (p *parser) parseFunction() ast.Expr {
	start := p.cur.Span
	p.advance() // (

	var params []ast.Param
	sawCatchAll := false
	for p.cur.Kind != token.RightParen {
		catchAll := false
		if p.cur.Kind == token.DotDot {
			if sawCatchAll {
				p.fail(InvalidCatchAllParameter, "only one catch-all parameter is allowed")
			}
			p.advance()
			catchAll = true
		}
		name := p.text(p.expectIdentifier())
		if p.cur.Kind == token.Colon {
			p.advance()
			p.expectIdentifier() // parameter type annotation, discarded
		}
		params = append(params, ast.Param{Name: name})
		if catchAll {
			sawCatchAll = true
			if p.cur.Kind != token.RightParen {
				p.fail(InvalidCatchAllParameter, "catch-all parameter must be the last parameter")
			}
		}
		if p.cur.Kind != token.RightParen {
			p.expect(token.Comma, ExpectedClosingBracket, ",")
		}
	}
	p.advance() // )

	var returnType string
	var body ast.Stmt
	switch p.cur.Kind {
	case token.FatArrow:
		p.advance()
		expr := p.parseExpr()
		body = &ast.Return{SpanValue: expr.Span(), Value: expr}
	case token.Arrow:
		p.advance()
		if p.cur.Kind == token.Identifier {
			returnType = p.text(p.cur)
			p.advance()
		}
		body = p.parseBlock(p.depth)
	default:
		p.fail(ExpectedFunctionArrow, "expected '->' or '=>'")
	}

	return &ast.Function{
		SpanValue:  start.Union(body.Span()),
		Params:     params,
		CatchAll:   sawCatchAll,
		Body:       body,
		ReturnType: returnType,
	}
}
