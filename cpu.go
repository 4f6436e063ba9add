package sbct11

import (
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// PSW bits. Only the low byte exists; the upper byte reads as zero.
const (
	FlagC = 1 << 0
	FlagV = 1 << 1
	FlagZ = 1 << 2
	FlagN = 1 << 3
	FlagT = 1 << 4
)

// Mode register fields, sampled once at power up.
const (
	modeStartMask = 0160000 // bits <15:13> select the start address
	modeLMC       = 0004000 // bit 11 selects the long, 4 clock, microcycle
)

// startAddrs maps mode register bits <15:13> to the power up start
// address. The restart address, used by the HALT trap, is start + 4.
var startAddrs = [8]uint16{
	0140000, 0100000, 0040000, 0020000, 0010000, 0000000, 0173000, 0172000,
}

// DCT11 is the processor. R6 is the stack pointer and R7 the program
// counter. The req bitmap collects trap and interrupt requests during an
// instruction; they are serviced together at the instruction boundary.
type DCT11 struct {
	R   [8]uint16
	psw uint16

	bus *Bus
	eq  *EventQueue
	ic  *InterruptController

	mode  uint16 // mode register as sampled
	start uint16 // start address decoded from it
	cycNS uint64 // nanoseconds per microcycle

	req      int    // pending request bits
	instVec  uint16 // vector latched with reqInstruction
	extLine  int    // controller line latched with reqExternal
	lastPC   uint16 // address of the instruction being executed
	rttDefer bool   // RTT executed: do not trace the next instruction

	pendingStop StopCode
	stop        atomic.Bool // set by the console thread

	// Debug stops armed by the front end. When set, the matching
	// condition returns to the caller instead of trapping the guest.
	BreakIllegalOpcode bool
	BreakIllegalIO     bool
}

func NewDCT11(bus *Bus, eq *EventQueue, ic *InterruptController) *DCT11 {
	return &DCT11{bus: bus, eq: eq, ic: ic}
}

// PowerUp samples the mode register and performs the power on sequence:
// registers cleared, PC at the selected start address, priority 7.
func (t *DCT11) PowerUp(mode uint16, clockHz uint64) {
	t.mode = mode
	t.start = startAddrs[mode>>13&7]
	clocks := uint64(3)
	if mode&modeLMC != 0 {
		clocks = 4
	}
	t.cycNS = clocks * (uint64(time.Second) / clockHz)
	for i := range t.R {
		t.R[i] = 0
	}
	t.psw = 0340
	t.R[7] = t.start
	t.lastPC = t.start
	t.req = 0
	t.instVec = 0
	t.extLine = 0
	t.rttDefer = false
	t.pendingStop = StopNone
	t.stop.Store(false)
	log.WithFields(log.Fields{
		"mode":  fmt.Sprintf("%06o", mode),
		"start": fmt.Sprintf("%06o", t.start),
	}).Debug("cpu power up")
}

// Start returns the start address decoded from the mode register.
func (t *DCT11) Start() uint16 { return t.start }

// Restart returns the address loaded into PC by the HALT trap.
func (t *DCT11) Restart() uint16 { return t.start + 4 }

// PSW returns the status word. The upper byte is always zero.
func (t *DCT11) PSW() uint16 { return t.psw }

// SetPSW stores a status word; only the low byte is writable.
func (t *DCT11) SetPSW(w uint16) { t.psw = w & 0377 }

func (t *DCT11) writePSW(w uint16) { t.psw = w & 0377 }

func (t *DCT11) n() bool { return t.psw&FlagN != 0 }
func (t *DCT11) z() bool { return t.psw&FlagZ != 0 }
func (t *DCT11) v() bool { return t.psw&FlagV != 0 }
func (t *DCT11) c() bool { return t.psw&FlagC != 0 }

// RequestHalt posts an external HALT request. The bus raises it on an NXM
// fault; a front panel halt switch would land here too.
func (t *DCT11) RequestHalt() { t.req |= reqHalt }

// RequestPowerfail posts a POWERFAIL trap request.
func (t *DCT11) RequestPowerfail() { t.req |= reqPowerfail }

// RequestStop asks a running interpreter to return to its caller. It is
// the one entry point that is safe to call from another goroutine.
func (t *DCT11) RequestStop() { t.stop.Store(true) }

// trapInstruction latches an instruction trap for the service pass.
func (t *DCT11) trapInstruction(vec uint16) {
	t.req |= reqInstruction
	t.instVec = vec
}

// illegal handles an opcode the chip does not implement.
func (t *DCT11) illegal(instr uint16) uint64 {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"pc":    fmt.Sprintf("%06o", t.lastPC),
			"instr": fmt.Sprintf("%06o", instr),
		}).Debug("illegal instruction")
	}
	if t.BreakIllegalOpcode {
		t.pendingStop = StopIllegalOpcode
		return 3
	}
	t.trapInstruction(VecIllegal)
	return 16
}

// illegalIO is called by the bus when an access hits an I/O page address
// no device claims.
func (t *DCT11) illegalIO(a uint16) {
	if t.BreakIllegalIO {
		t.pendingStop = StopIllegalIO
	}
}

func (t *DCT11) fetch16() uint16 {
	w := t.bus.ReadWord(t.R[7])
	t.R[7] += 2
	return w
}

func (t *DCT11) push(w uint16) {
	t.R[6] -= 2
	t.bus.WriteWord(t.R[6], w)
}

func (t *DCT11) pop() uint16 {
	w := t.bus.ReadWord(t.R[6])
	t.R[6] += 2
	return w
}

// trapTo stacks PSW then PC and loads the new pair from the vector. A new
// PSW with T clear withdraws a live TRACE request.
func (t *DCT11) trapTo(vec uint16) {
	t.push(t.psw)
	t.push(t.R[7])
	t.R[7] = t.bus.ReadWord(vec)
	t.writePSW(t.bus.ReadWord(vec + 2))
	if t.psw&FlagT == 0 {
		t.req &^= reqTrace
	}
}

// haltTo is the HALT flavor of trapTo: the new pair is the restart
// address and priority 7 rather than a vector, and the interpreter
// returns to its caller so the front end can see the halt.
func (t *DCT11) haltTo() {
	t.push(t.psw)
	t.push(t.R[7])
	t.R[7] = t.start + 4
	t.writePSW(0340)
	t.req &^= reqTrace
	t.pendingStop = StopHalt
}

// service dispatches every pending request, lowest priority first, so the
// highest priority vector is taken last and its frame sits on top of the
// stack. The pass works on a snapshot: requests raised by one dispatch
// wait for the next instruction boundary. A traced EMT therefore stacks
// two frames, the EMT's and then the trace's.
func (t *DCT11) service() {
	pending := t.req
	t.req = 0
	if pending&reqInstruction != 0 {
		t.trapTo(t.instVec)
	}
	if pending&reqExternal != 0 {
		line := t.extLine
		t.ic.Acknowledge(line)
		t.trapTo(t.ic.Vector(line))
	}
	if pending&reqPowerfail != 0 {
		t.trapTo(VecPowerfail)
	}
	if pending&reqTrace != 0 {
		t.trapTo(VecBPT)
	}
	if pending&reqHalt != 0 {
		t.haltTo()
	}
}

func (t *DCT11) takeStop() StopCode {
	s := t.pendingStop
	t.pendingStop = StopNone
	return s
}

// Step executes one instruction plus its request service pass. A
// breakpoint at the current PC does not fire; stepping onto one would
// otherwise never get past it.
func (t *DCT11) Step() StopCode { return t.step(true) }

// Run executes until something stops the machine. A non-zero limit bounds
// the number of instructions and returns StopFinished when it runs out.
// The breakpoint at the initial PC, if any, is skipped so a stopped
// machine can be continued.
func (t *DCT11) Run(limit uint64) StopCode {
	first := true
	for {
		if s := t.step(first); s != StopNone {
			return s
		}
		first = false
		if limit > 0 {
			limit--
			if limit == 0 {
				return StopFinished
			}
		}
	}
}

func (t *DCT11) step(first bool) StopCode {
	if t.stop.CompareAndSwap(true, false) {
		return StopBreak
	}
	t.eq.Drain()
	if s := t.takeStop(); s != StopNone {
		return s
	}
	if t.psw&FlagT != 0 && !t.rttDefer {
		t.req |= reqTrace
	}
	t.rttDefer = false
	if !first && t.bus.TestBreak(t.R[7]) {
		return StopBreakpoint
	}
	t.lastPC = t.R[7]
	if log.IsLevelEnabled(log.TraceLevel) {
		t.trace()
	}
	instr := t.fetch16()
	t.eq.Elapse(t.execute(instr) * t.cycNS)
	if line, ok := t.ic.FindRequest(t.psw); ok {
		t.req |= reqExternal
		t.extLine = line
	}
	if t.req != 0 {
		t.service()
	}
	return t.takeStop()
}

func (t *DCT11) trace() {
	text, _ := Disasm(t.bus.UIReadWord, t.lastPC)
	log.WithFields(log.Fields{
		"pc":  fmt.Sprintf("%06o", t.lastPC),
		"psw": fmt.Sprintf("%03o", t.psw),
	}).Trace(text)
}

// State renders the register file the way the firmware monitor prints it.
func (t *DCT11) State() string {
	return fmt.Sprintf(
		"R0=%06o R1=%06o R2=%06o R3=%06o R4=%06o R5=%06o SP=%06o PC=%06o PSW=%03o",
		t.R[0], t.R[1], t.R[2], t.R[3], t.R[4], t.R[5], t.R[6], t.R[7], t.psw)
}
