package sbct11

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Standard register windows for the two on-board serial lines.
const (
	SLU0Base = 0177560 // console terminal
	SLU1Base = 0176500 // TU58 tape drive
)

// SLU register bits.
const (
	sluDone  = 0200 // receiver done / transmitter ready, read only
	sluIE    = 0100 // interrupt enable
	sluBreak = 0001 // transmit a break condition while set
)

// Event tokens.
const (
	evSluRxPoll = 1
	evSluTxDone = 2
	evSluBreak  = 3
)

// Wire is the far end of a serial line: a terminal, a file, or the tape
// drive.
type Wire interface {
	WireByte(b byte)
	WireBreak()
}

// SLU is one DC319 DLART serial line: four registers, RCSR, RBUF, XCSR,
// XBUF, at base, base+2, base+4, base+6. Bytes from the host side arrive
// through a buffered channel so a console goroutine can feed it; the
// receiver picks them up at line rate on a polling event, which also
// guarantees the event queue always has a deadline for WAIT to coast to.
type SLU struct {
	name string
	base uint16
	eq   *EventQueue

	rxInt *IntChannel
	txInt *IntChannel

	charNS uint64 // one 10 bit character frame at the line rate
	input  chan byte
	wire   Wire

	rxDone  bool
	rxIE    bool
	rbuf    byte
	txReady bool
	txIE    bool
	txBreak bool
	txByte  byte
}

func NewSLU(name string, base uint16, rate uint64, eq *EventQueue) *SLU {
	return &SLU{
		name:    name,
		base:    base,
		eq:      eq,
		charNS:  10 * uint64(time.Second) / rate,
		input:   make(chan byte, 256),
		txReady: true,
	}
}

// SetWire connects the transmit side to a peer.
func (s *SLU) SetWire(w Wire) { s.wire = w }

// SetInterrupts attaches the receive and transmit interrupt channels.
// Either may be nil.
func (s *SLU) SetInterrupts(rx, tx *IntChannel) {
	s.rxInt = rx
	s.txInt = tx
}

func (s *SLU) Name() string   { return s.name }
func (s *SLU) Base() uint16   { return s.base }
func (s *SLU) Registers() int { return 4 }

// QueueInput hands the receiver one byte from the host side. It never
// blocks; a full queue drops the byte and reports false.
func (s *SLU) QueueInput(b byte) bool {
	select {
	case s.input <- b:
		return true
	default:
		return false
	}
}

// Reset returns the registers to their power up state and restarts the
// receive poll. Queued host input survives, like type-ahead would.
func (s *SLU) Reset() {
	s.rxDone = false
	s.rxIE = false
	s.txReady = true
	s.txIE = false
	s.txBreak = false
	s.eq.Cancel(s, evSluTxDone)
	s.eq.Cancel(s, evSluBreak)
	s.eq.Schedule(s, evSluRxPoll, s.charNS)
	s.updateInts()
}

func (s *SLU) updateInts() {
	s.rxInt.Set(s.rxDone && s.rxIE)
	s.txInt.Set(s.txReady && s.txIE)
}

func (s *SLU) DevRead(off uint16) uint16 {
	switch off {
	case 0: // RCSR
		var w uint16
		if s.rxDone {
			w |= sluDone
		}
		if s.rxIE {
			w |= sluIE
		}
		return w
	case 2: // RBUF, reading clears done
		s.rxDone = false
		s.updateInts()
		return uint16(s.rbuf)
	case 4: // XCSR
		var w uint16
		if s.txReady {
			w |= sluDone
		}
		if s.txIE {
			w |= sluIE
		}
		if s.txBreak {
			w |= sluBreak
		}
		return w
	default: // XBUF is write only
		return 0
	}
}

func (s *SLU) DevWrite(off uint16, w uint16) {
	switch off {
	case 0: // RCSR, only the interrupt enable is writable
		s.rxIE = w&sluIE != 0
		s.updateInts()
	case 2: // RBUF is read only
	case 4: // XCSR
		s.txIE = w&sluIE != 0
		brk := w&sluBreak != 0
		if brk && !s.txBreak {
			log.WithField("slu", s.name).Debug("break asserted")
			s.eq.Schedule(s, evSluBreak, s.charNS)
		}
		if !brk {
			s.eq.Cancel(s, evSluBreak)
		}
		s.txBreak = brk
		s.updateInts()
	default: // XBUF
		s.txByte = byte(w)
		s.txReady = false
		s.eq.Schedule(s, evSluTxDone, s.charNS)
		s.updateInts()
	}
}

func (s *SLU) OnEvent(token int) {
	switch token {
	case evSluRxPoll:
		if !s.rxDone {
			select {
			case b := <-s.input:
				s.rbuf = b
				s.rxDone = true
				s.updateInts()
			default:
			}
		}
		s.eq.Schedule(s, evSluRxPoll, s.charNS)
	case evSluTxDone:
		s.txReady = true
		s.updateInts()
		if s.wire != nil {
			s.wire.WireByte(s.txByte)
		}
	case evSluBreak:
		// The break condition is continuous; the far end sees one
		// framing error per character time while it is held.
		if s.txBreak {
			if s.wire != nil {
				s.wire.WireBreak()
			}
			s.eq.Schedule(s, evSluBreak, s.charNS)
		}
	}
}
