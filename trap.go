package sbct11

import "fmt"

// Trap vectors. Each names a pair of words: new PC at the vector, new PSW
// in the word after it.
const (
	VecReserved  = 0004 // reserved instruction, register mode JMP/JSR
	VecIllegal   = 0010 // illegal and unimplemented opcodes
	VecBPT       = 0014 // BPT and T bit trace
	VecIOT       = 0020
	VecPowerfail = 0024
	VecEMT       = 0030
	VecTRAP      = 0034
)

// CPU request bits, one per asynchronous condition. Priority rises with
// the bit position. The service pass runs lowest bit first, so when
// several requests pend at once the highest priority vector is taken
// last and its frame ends up on top of the stack.
const (
	reqInstruction = 1 << iota
	reqExternal
	reqPowerfail
	reqTrace
	reqHalt
)

// StopCode tells the caller of Run why the interpreter came back.
type StopCode int

const (
	StopNone StopCode = iota
	StopFinished
	StopHalt
	StopBreakpoint
	StopBreak
	StopEndlessLoop
	StopIllegalOpcode
	StopIllegalIO
)

func (s StopCode) String() string {
	switch s {
	case StopNone:
		return "NONE"
	case StopFinished:
		return "FINISHED"
	case StopHalt:
		return "HALT"
	case StopBreakpoint:
		return "BREAKPOINT"
	case StopBreak:
		return "BREAK"
	case StopEndlessLoop:
		return "ENDLESS_LOOP"
	case StopIllegalOpcode:
		return "ILLEGAL_OPCODE"
	case StopIllegalIO:
		return "ILLEGAL_IO"
	}
	return fmt.Sprintf("StopCode(%d)", int(s))
}
