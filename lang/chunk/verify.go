package chunk

import "fmt"

// VerifyError reports a single structural defect found by Verify.
type VerifyError struct {
	Pos     int
	Message string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("bytecode offset %d: %s", e.Pos, e.Message)
}

// InnerChunkHolder is implemented by constant-pool Objects that wrap their
// own Chunk (lang/machine's Function and Closure) so Verify can recurse into
// it without lang/chunk importing lang/machine (spec.md §4.5: "Functions'
// inner chunks are verified recursively").
type InnerChunkHolder interface {
	InnerChunk() *Chunk
}

// Verify walks c.Code end to end and checks that every opcode is known,
// every operand stays in range of the table it indexes, and every jump
// target lands inside the code array; any constant whose Object holds its
// own Chunk (a compiled function) is verified recursively. It does not
// check stack balance or reachability (an accepted limitation, spec.md
// §9's Open Question: a bytecode verifier is only as strong as what it
// checks, and this one checks exactly the structural properties a
// malformed or hand-assembled chunk could otherwise crash the VM on).
func (c *Chunk) Verify() error {
	for _, v := range c.Constants {
		if !v.IsObject() {
			continue
		}
		holder, ok := v.Object().(InnerChunkHolder)
		if !ok {
			continue
		}
		if err := holder.InnerChunk().Verify(); err != nil {
			return err
		}
	}

	for pos := 0; pos < len(c.Code); {
		op := Op(c.Code[pos])
		if int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
			return &VerifyError{Pos: pos, Message: "unknown opcode"}
		}
		width := op.OperandWidth()
		if pos+1+width > len(c.Code) {
			return &VerifyError{Pos: pos, Message: "truncated operand"}
		}

		switch op {
		case OpConstant:
			if int(c.Code[pos+1]) >= len(c.Constants) {
				return &VerifyError{Pos: pos, Message: "constant index out of range"}
			}
		case OpConstantLong:
			if int(c.ReadU16(pos+1)) >= len(c.Constants) {
				return &VerifyError{Pos: pos, Message: "constant index out of range"}
			}
		case OpDefineGlobal, OpGetGlobal, OpSetGlobal:
			if int(c.ReadU16(pos+1)) >= len(c.Strings) {
				return &VerifyError{Pos: pos, Message: "string index out of range"}
			}
		case OpJump, OpJumpIfFalse, OpJumpIfNull:
			target := pos + 1 + width + int(c.ReadU16(pos+1))
			if target < 0 || target > len(c.Code) {
				return &VerifyError{Pos: pos, Message: "jump target out of range"}
			}
		case OpLoop:
			target := pos + 1 + width - int(c.ReadU16(pos+1))
			if target < 0 || target > len(c.Code) {
				return &VerifyError{Pos: pos, Message: "loop target out of range"}
			}
		}

		pos += 1 + width
	}
	return nil
}
