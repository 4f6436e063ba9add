package sbct11

// Trigger mode for an interrupt line.
const (
	IntEdge  = iota // latched by assert, cleared only by acknowledge
	IntLevel        // follows the wire
)

// NumIntLines is the number of request lines, numbered 1..017 the way the
// schematic labels them. Lower number means higher priority.
const NumIntLines = 15

// intTable maps a line to its vector and bus request level. The level is
// kept in PSW form (priority in bits <7:5>) so it compares directly
// against the processor priority. Lines not listed are reserved; they can
// be raised but never win arbitration.
var intTable = [NumIntLines + 1]struct {
	vector uint16
	level  uint16
}{
	1:   {0070, 0200},
	2:   {0064, 0200},
	3:   {0060, 0200},
	4:   {0134, 0240},
	5:   {0130, 0240},
	6:   {0124, 0240},
	7:   {0120, 0240},
	011: {0100, 0300},
}

type intLine struct {
	mode  int
	owner string
	req   bool
}

// InterruptController models the external priority encoder feeding the
// processor's coded interrupt inputs.
type InterruptController struct {
	lines [NumIntLines + 1]intLine
}

func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Channel registers a device on a line and hands back the handle it
// raises and clears through. Registering sets the trigger mode.
func (ic *InterruptController) Channel(line int, mode int, owner string) *IntChannel {
	if line < 1 || line > NumIntLines {
		panic("interrupt line out of range")
	}
	ic.lines[line].mode = mode
	ic.lines[line].owner = owner
	return &IntChannel{ic: ic, line: line}
}

// Raise asserts or deasserts a line. An EDGE line latches on assert and
// ignores deassert; a LEVEL line tracks the argument.
func (ic *InterruptController) Raise(line int, assert bool) {
	if line < 1 || line > NumIntLines {
		return
	}
	l := &ic.lines[line]
	switch l.mode {
	case IntEdge:
		if assert {
			l.req = true
		}
	case IntLevel:
		l.req = assert
	}
}

// Acknowledge clears an EDGE latch. LEVEL lines stay asserted until the
// device drops them.
func (ic *InterruptController) Acknowledge(line int) {
	if line < 1 || line > NumIntLines {
		return
	}
	if ic.lines[line].mode == IntEdge {
		ic.lines[line].req = false
	}
}

// Requested reports the raw request state of a line.
func (ic *InterruptController) Requested(line int) bool {
	if line < 1 || line > NumIntLines {
		return false
	}
	return ic.lines[line].req
}

// FindRequest returns the numerically lowest requesting line whose bus
// request level beats the priority field of psw. It never mutates.
func (ic *InterruptController) FindRequest(psw uint16) (int, bool) {
	cur := psw >> 5 & 7
	for line := 1; line <= NumIntLines; line++ {
		if !ic.lines[line].req {
			continue
		}
		if intTable[line].level>>5&7 > cur {
			return line, true
		}
	}
	return 0, false
}

// Vector returns the trap vector for a line.
func (ic *InterruptController) Vector(line int) uint16 {
	if line < 1 || line > NumIntLines {
		return 0
	}
	return intTable[line].vector
}

// ClearAll drops every request without touching modes or owners. Bus
// clear lands here.
func (ic *InterruptController) ClearAll() {
	for i := range ic.lines {
		ic.lines[i].req = false
	}
}

// IntChannel is a device's handle on one controller line. A nil channel
// is safe to use and does nothing, so devices run fine without a
// controller wired in.
type IntChannel struct {
	ic   *InterruptController
	line int
}

// Set asserts or deasserts the line.
func (ch *IntChannel) Set(assert bool) {
	if ch == nil || ch.ic == nil {
		return
	}
	ch.ic.Raise(ch.line, assert)
}

// Line returns the controller line number.
func (ch *IntChannel) Line() int {
	if ch == nil {
		return 0
	}
	return ch.line
}
