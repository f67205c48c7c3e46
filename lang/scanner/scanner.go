// Package scanner implements the Bang tokeniser: a stateful, forward-only
// iterator over source bytes that produces one token per call to Next.
package scanner

import "github.com/mna/bang/lang/token"

// Scanner tokenises a Bang source string. It borrows from source for the
// duration of scanning; it makes no copies of identifiers, literals, or
// comments.
type Scanner struct {
	src  string
	pos  int
	line int

	// quotes is the stack of active format-string interpolations, pushed on
	// FormatStringStart and popped on FormatStringEnd, allowing format
	// strings to nest arbitrarily (spec.md §4.1).
	quotes []formatFrame
}

// New returns a Scanner over source, positioned at the first token.
func New(source string) *Scanner {
	return &Scanner{src: source, pos: 0, line: 1}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	return c
}

// advanceIf advances and returns true if the current byte equals want.
func (s *Scanner) advanceIf(want byte) bool {
	if s.peek() == want {
		s.pos++
		return true
	}
	return false
}

func (s *Scanner) make(kind token.Kind, start int) token.Token {
	return token.Token{Kind: kind, Span: token.Span{Start: start, End: s.pos}, Line: s.line}
}

// twoCharTokens lists the two-character operators, checked before their
// one-character siblings (spec.md §4.1).
var twoCharTokens = map[string]token.Kind{
	"!=": token.BangEqual,
	"==": token.EqualEqual,
	"<=": token.LessEqual,
	">=": token.GreaterEqual,
	"+=": token.PlusEqual,
	"-=": token.MinusEqual,
	"*=": token.StarEqual,
	"/=": token.SlashEqual,
	"->": token.Arrow,
	"=>": token.FatArrow,
	"&&": token.And,
	"||": token.Or,
	"??": token.QuestionQuestion,
	">>": token.Pipeline,
	"..": token.DotDot,
	"::": token.ColonColon,
}

// Next scans and returns the next token in the source, skipping interior
// whitespace but preserving EndOfLine and Comment tokens.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()

	start := s.pos
	if s.atEnd() {
		return s.make(token.EOF, start)
	}

	c := s.peek()
	if c == '{' || c == '}' {
		if tok, handled := s.formatStringBrace(c); handled {
			return tok
		}
	}

	switch {
	case c == '\n':
		s.advance()
		tok := s.make(token.EndOfLine, start)
		s.line++
		return tok
	case isLetter(c):
		return s.identifier(start)
	case isDigit(c) || (c == '.' && isDigit(s.peekAt(1))):
		return s.number(start)
	case c == '"' || c == '\'' || c == '`':
		return s.stringLiteral(start, s.advance())
	case c == '/' && s.peekAt(1) == '/':
		return s.comment(start)
	}

	// two-character tokens, checked before their one-character siblings
	if s.pos+1 < len(s.src) {
		if kind, ok := twoCharTokens[s.src[s.pos:s.pos+2]]; ok {
			s.pos += 2
			return s.make(kind, start)
		}
	}

	s.advance()
	switch c {
	case '(':
		return s.make(token.LeftParen, start)
	case ')':
		return s.make(token.RightParen, start)
	case '{':
		return s.make(token.LeftBrace, start)
	case '}':
		return s.make(token.RightBrace, start)
	case '[':
		return s.make(token.LeftSquare, start)
	case ']':
		return s.make(token.RightSquare, start)
	case '<':
		return s.make(token.LeftAngle, start)
	case '>':
		return s.make(token.RightAngle, start)
	case ',':
		return s.make(token.Comma, start)
	case ':':
		return s.make(token.Colon, start)
	case '.':
		return s.make(token.Dot, start)
	case '=':
		return s.make(token.Equal, start)
	case '+':
		return s.make(token.Plus, start)
	case '-':
		return s.make(token.Minus, start)
	case '*':
		return s.make(token.Star, start)
	case '/':
		return s.make(token.Slash, start)
	case '!':
		return s.make(token.Bang, start)
	}

	return s.make(token.Unknown, start)
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		default:
			return
		}
	}
}

func (s *Scanner) identifier(start int) token.Token {
	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	text := s.src[start:s.pos]
	if kind, ok := token.Keywords[text]; ok {
		return s.make(kind, start)
	}
	return s.make(token.Identifier, start)
}

func isLetter(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
