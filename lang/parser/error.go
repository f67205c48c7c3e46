package parser

import "fmt"

// Kind identifies one of the parser's diagnostic categories (spec.md §4.2).
// Lexical/parse errors are reported once, at the offending token, and
// parsing halts immediately.
type Kind int

const (
	ExpectedOpeningBracket Kind = iota
	ExpectedClosingBracket
	ExpectedClosingBrace
	ExpectedClosingSquare
	ExpectedClosingAngle
	ExpectedColon
	ExpectedExpression
	ExpectedFunctionArrow
	ExpectedNewLine
	ExpectedIdentifier
	InvalidAssignmentTarget
	UnexpectedCharacter
	UnterminatedString
	ExpectedImportKeyword
	ExpectedType
	ExpectedModuleItem
	InvalidCatchAllParameter
)

var kindNames = [...]string{
	ExpectedOpeningBracket:   "expected opening bracket",
	ExpectedClosingBracket:   "expected closing bracket",
	ExpectedClosingBrace:     "expected closing brace",
	ExpectedClosingSquare:    "expected closing square bracket",
	ExpectedClosingAngle:     "expected closing angle bracket",
	ExpectedColon:            "expected colon",
	ExpectedExpression:       "expected expression",
	ExpectedFunctionArrow:    "expected function arrow",
	ExpectedNewLine:          "expected new line",
	ExpectedIdentifier:       "expected identifier",
	InvalidAssignmentTarget:  "invalid assignment target",
	UnexpectedCharacter:      "unexpected character",
	UnterminatedString:       "unterminated string",
	ExpectedImportKeyword:    "expected import keyword",
	ExpectedType:             "expected type",
	ExpectedModuleItem:       "expected module item",
	InvalidCatchAllParameter: "invalid catch-all parameter",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown parser error"
}

// Error is a single parse diagnostic (spec.md §7: one diagnostic, parsing
// halts on the first one encountered).
type Error struct {
	Kind    Kind
	Line    int
	Start   int
	End     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s: %s", e.Line, e.Kind, e.Message)
}
