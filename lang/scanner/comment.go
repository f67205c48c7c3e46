package scanner

import "github.com/mna/bang/lang/token"

// comment scans a `//` line comment, up to but excluding the terminating
// newline. Comments are not trivia: the parser attaches them to the
// preceding expression or statement (spec.md §4.2), so the scanner reports
// them as ordinary tokens.
func (s *Scanner) comment(start int) token.Token {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
	return s.make(token.Comment, start)
}
