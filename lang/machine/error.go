package machine

import (
	"fmt"
	"strings"
)

// RuntimeError is a domain-4 diagnostic (spec.md §4.6.5, §7): the operand
// stack is cleared and a line trace captured, innermost call first, before
// it is returned. The VM never resumes after one.
type RuntimeError struct {
	Message string
	Lines   []int
}

func (e *RuntimeError) Error() string {
	parts := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		parts[i] = fmt.Sprintf("%d", l)
	}
	return fmt.Sprintf("runtime error: %s (line %s)", e.Message, strings.Join(parts, " -> "))
}
