package machine

import "github.com/mna/bang/lang/chunk"

// CallFrame records one call in progress (spec.md §4.6: "frames:
// Vec<CallFrame{ip, offset}>"). fn is the chunk currently being dispatched;
// upvalues is nil unless fn was invoked through a Closure. offset is the
// stack index of the frame's first local (argument 0, or the function's own
// slot 0 if it takes none): GetLocal/SetLocal/GetAllocated/SetAllocated
// address their operand relative to it.
type CallFrame struct {
	fn       *Function
	upvalues []*Cell
	ip       int
	offset   int
}

func (f *CallFrame) chunk() *chunk.Chunk { return f.fn.Chunk }

// callSiteLine reports the source line of the Call instruction that pushed
// this frame's successor, used to build a runtime error's line trace. By
// the time a call happens f.ip has already advanced past the 2-byte Call
// instruction (1 opcode + 1 u8 argc), so the call site sits 2 bytes back.
func (f *CallFrame) callSiteLine() int {
	pos := f.ip - 2
	if pos < 0 {
		pos = 0
	}
	return f.chunk().LineAt(pos)
}
