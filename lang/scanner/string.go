package scanner

import "github.com/mna/bang/lang/token"

// formatFrame tracks one active `${`-interpolation: the quote byte of the
// string literal it belongs to, and how many un-matched '{' have been seen
// since entering the interpolation (so that a dict/block literal inside the
// interpolated expression doesn't get mistaken for the closing '}' of the
// interpolation itself).
type formatFrame struct {
	quote byte
	depth int
}

// stringLiteral scans a quoted string literal starting just after the
// opening quote byte was consumed. If it encounters `${` before the closing
// quote, it emits FormatStringStart (spanning from the opening quote through
// the `${`) and pushes a formatFrame; the rest of the literal is scanned as
// ordinary tokens until the matching '}' is found by Next.
func (s *Scanner) stringLiteral(start int, quote byte) token.Token {
	for {
		if s.atEnd() {
			// unterminated: the token text does not end with the opening quote;
			// the parser's stringValue accepts it without reporting an error.
			return s.make(token.String, start)
		}
		if s.peek() == quote {
			s.advance()
			return s.make(token.String, start)
		}
		if s.peek() == '$' && s.peekAt(1) == '{' {
			s.advance()
			s.advance()
			tok := s.make(token.FormatStringStart, start)
			s.quotes = append(s.quotes, formatFrame{quote: quote})
			return tok
		}
		s.advance()
	}
}

// continueFormatString is called by Next when it sees a '}' while a format
// string frame is active and that frame's brace depth is zero: this '}'
// closes the interpolation. It scans forward like stringLiteral, emitting
// FormatStringPart if another `${` is found before the closing quote, or
// FormatStringEnd (and popping the frame) if the closing quote is found.
func (s *Scanner) continueFormatString(start int) token.Token {
	frame := s.quotes[len(s.quotes)-1]
	s.advance() // consume '}'

	for {
		if s.atEnd() {
			s.quotes = s.quotes[:len(s.quotes)-1]
			return s.make(token.FormatStringEnd, start)
		}
		if s.peek() == frame.quote {
			s.advance()
			s.quotes = s.quotes[:len(s.quotes)-1]
			return s.make(token.FormatStringEnd, start)
		}
		if s.peek() == '$' && s.peekAt(1) == '{' {
			s.advance()
			s.advance()
			return s.make(token.FormatStringPart, start)
		}
		s.advance()
	}
}

// formatStringBrace is called by Next for '{'/'}' tokens when a format
// string frame is active, to track nested brace-delimited constructs (dict
// literals, blocks) inside an interpolated expression so they are not
// confused with the interpolation's own closing brace. handled is false when the
// byte should be handled as an ordinary brace token.
func (s *Scanner) formatStringBrace(c byte) (tok token.Token, handled bool) {
	if len(s.quotes) == 0 {
		return token.Token{}, false
	}
	top := &s.quotes[len(s.quotes)-1]
	start := s.pos
	switch c {
	case '{':
		top.depth++
		return token.Token{}, false
	case '}':
		if top.depth > 0 {
			top.depth--
			return token.Token{}, false
		}
		return s.continueFormatString(start), true
	}
	return token.Token{}, false
}
