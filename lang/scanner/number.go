package scanner

import "github.com/mna/bang/lang/token"

// number scans a numeric literal: digits, underscores (ignored for value,
// just visual separators), and an optional fractional part `.digit+`
// (spec.md §4.1).
func (s *Scanner) number(start int) token.Token {
	for isDigit(s.peek()) || s.peek() == '_' {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // '.'
		for isDigit(s.peek()) || s.peek() == '_' {
			s.advance()
		}
	}
	return s.make(token.Number, start)
}
