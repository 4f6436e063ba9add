package sbct11

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Tape geometry. A cartridge holds at most 512 blocks of 512 bytes.
const (
	TapeBlockSize = 512
	TapeMaxBlocks = 512
)

// RSP packet flags. INIT, BOOTSTRAP, CONTINUE and XOFF are complete one
// byte packets; DATA and CONTROL carry a length, payload and checksum.
const (
	rspData      = 1
	rspControl   = 2
	rspInit      = 4
	rspBootstrap = 8
	rspContinue  = 16
	rspXoff      = 19
)

// RSP command opcodes, first byte of a CONTROL payload.
const (
	cmdNop       = 0
	cmdInit      = 1
	cmdRead      = 2
	cmdWrite     = 3
	cmdPosition  = 5
	cmdDiagnose  = 7
	cmdGetStatus = 8
	cmdSetStatus = 9
	cmdEnd       = 64
)

// Success codes carried in the modifier byte of an END packet.
const (
	endSuccess   = 0
	endRetries   = 1
	endSelfTest  = 255
	endPartial   = 254 // end of tape, possibly after a partial transfer
	endBadUnit   = 248
	endNoTape    = 247
	endWriteLock = 245
	endChecksum  = 239
	endSeekErr   = 224
	endJammed    = 223
	endBadOpcode = 208
	endBadBlock  = 201
)

// Protocol machine states. The receive path is byte at a time, so every
// position inside a packet is its own state.
const (
	tsPowerup = iota
	tsIdle
	tsBreak1
	tsInit2
	tsBootUnit
	tsCmdCount
	tsCmdBody
	tsCmdCheck1
	tsCmdCheck2
	tsDataFlag
	tsDataCount
	tsDataBody
	tsDataCheck1
	tsDataCheck2
	tsError
)

// Event tokens.
const (
	evTapePump  = 1
	evTapeInit  = 2
	evTapePower = 3
)

// tapePowerNS is the simulated self test time before the drive announces
// itself.
const tapePowerNS = uint64(time.Millisecond)

// TapeUnit is one drive's cartridge image, held in memory.
type TapeUnit struct {
	path     string
	data     []byte
	capacity int // blocks
	readOnly bool
	dirty    bool
}

// TU58 is the dual unit tape drive on the second serial line. It speaks
// RSP, the half duplex packet protocol, over the Wire interface: bytes
// transmitted by the SLU arrive at WireByte, replies are queued back into
// the SLU receiver at line rate by the pump event. The drive is not an
// I/O page device and does not reset with the bus; only power or the
// break handshake restart the protocol machine.
type TU58 struct {
	eq  *EventQueue
	slu *SLU

	units [2]*TapeUnit

	state int
	xoff  bool
	outQ  []byte

	cmd     [128]byte
	cmdLen  int
	cmdGot  int
	data    [128]byte
	dataLen int
	dataGot int
	sum     uint16
	rxsum   uint16

	sector  [512]byte
	secFill int

	op      byte
	unit    byte
	seq     uint16
	count   uint16
	actual  uint16
	wrBlock uint16
	block   uint16 // current tape position, in blocks
}

func NewTU58(eq *EventQueue, slu *SLU) *TU58 {
	return &TU58{eq: eq, slu: slu}
}

// Attach mounts an image file on a unit. Short images are padded to a
// whole block.
func (tu *TU58) Attach(unit int, path string, readOnly bool) error {
	if unit < 0 || unit >= len(tu.units) {
		return fmt.Errorf("attach %s: no unit %d", path, unit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("attach tape: %w", err)
	}
	if err := tu.AttachImage(unit, data, readOnly); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	tu.units[unit].path = path
	log.WithFields(log.Fields{
		"unit":   unit,
		"image":  path,
		"blocks": tu.units[unit].capacity,
		"ro":     readOnly,
	}).Debug("tape attached")
	return nil
}

// AttachImage mounts an in-memory image, for tests and scratch tapes.
func (tu *TU58) AttachImage(unit int, data []byte, readOnly bool) error {
	if unit < 0 || unit >= len(tu.units) {
		return fmt.Errorf("attach image: no unit %d", unit)
	}
	if n := len(data) % TapeBlockSize; n != 0 {
		data = append(data, make([]byte, TapeBlockSize-n)...)
	}
	if len(data) > TapeMaxBlocks*TapeBlockSize {
		return fmt.Errorf("attach image: larger than %d blocks", TapeMaxBlocks)
	}
	tu.units[unit] = &TapeUnit{
		data:     data,
		capacity: len(data) / TapeBlockSize,
		readOnly: readOnly,
	}
	return nil
}

// Flush writes a modified image back to the file it came from.
func (tu *TU58) Flush(unit int) error {
	if unit < 0 || unit >= len(tu.units) {
		return fmt.Errorf("flush: no unit %d", unit)
	}
	u := tu.units[unit]
	if u == nil || !u.dirty || u.readOnly || u.path == "" {
		return nil
	}
	if err := os.WriteFile(u.path, u.data, 0644); err != nil {
		return fmt.Errorf("flush tape: %w", err)
	}
	u.dirty = false
	return nil
}

// Detach flushes and unloads a unit.
func (tu *TU58) Detach(unit int) error {
	if err := tu.Flush(unit); err != nil {
		return err
	}
	tu.units[unit] = nil
	return nil
}

// CurrentBlock reports the tape position in blocks.
func (tu *TU58) CurrentBlock() uint16 { return tu.block }

// PowerClear is the power on reset: the drive runs its self test and then
// announces itself with a CONTINUE.
func (tu *TU58) PowerClear() {
	tu.state = tsPowerup
	tu.outQ = nil
	tu.xoff = false
	tu.block = 0
	tu.eq.Cancel(tu, evTapePump)
	tu.eq.Cancel(tu, evTapeInit)
	tu.eq.Schedule(tu, evTapePower, tapePowerNS)
}

// WireByte receives one byte from the serial line.
func (tu *TU58) WireByte(b byte) {
	// a byte after a single break means the break was noise, not the
	// start of the handshake
	if tu.state == tsBreak1 {
		tu.state = tsIdle
	}
	tu.rx(b)
}

// WireBreak receives a break condition. Two in a row are the protocol
// restart handshake, honoured from any state including ERROR.
func (tu *TU58) WireBreak() {
	if tu.state == tsBreak1 {
		log.Debug("tu58: break handshake, protocol restart")
		tu.eq.Cancel(tu, evTapeInit)
		tu.eq.Cancel(tu, evTapePump)
		tu.outQ = nil
		tu.xoff = false
		tu.slu.QueueInput(rspContinue)
		tu.state = tsInit2
		return
	}
	tu.state = tsBreak1
}

func (tu *TU58) rx(b byte) {
	switch tu.state {
	case tsPowerup:
		// still in self test, deaf to the line
	case tsIdle:
		tu.rxFlag(b)
	case tsInit2:
		if b == rspInit {
			return
		}
		tu.state = tsIdle
		tu.rxFlag(b)
	case tsBootUnit:
		tu.bootstrap(b)
	case tsCmdCount:
		tu.cmdLen = int(b)
		tu.cmdGot = 0
		tu.sum = uint16(b)
		if tu.cmdLen == 0 || tu.cmdLen > len(tu.cmd) {
			tu.protocolError("command length", int(b))
			return
		}
		tu.state = tsCmdBody
	case tsCmdBody:
		tu.cmd[tu.cmdGot] = b
		tu.cmdGot++
		tu.sum += uint16(b)
		if tu.cmdGot == tu.cmdLen {
			tu.state = tsCmdCheck1
		}
	case tsCmdCheck1:
		tu.rxsum = uint16(b)
		tu.state = tsCmdCheck2
	case tsCmdCheck2:
		tu.rxsum |= uint16(b) << 8
		if tu.rxsum != tu.sum {
			tu.protocolError("command checksum", int(tu.rxsum))
			return
		}
		tu.dispatch()
	case tsDataFlag:
		switch b {
		case rspData:
			tu.state = tsDataCount
		case rspXoff:
			tu.xoff = true
		case rspContinue:
			tu.resume()
		default:
			tu.protocolError("flag during write", int(b))
		}
	case tsDataCount:
		tu.dataLen = int(b)
		tu.dataGot = 0
		tu.sum = uint16(b)
		if tu.dataLen == 0 || tu.dataLen > len(tu.data) {
			tu.protocolError("data length", int(b))
			return
		}
		tu.state = tsDataBody
	case tsDataBody:
		tu.data[tu.dataGot] = b
		tu.dataGot++
		tu.sum += uint16(b)
		if tu.dataGot == tu.dataLen {
			tu.state = tsDataCheck1
		}
	case tsDataCheck1:
		tu.rxsum = uint16(b)
		tu.state = tsDataCheck2
	case tsDataCheck2:
		tu.rxsum |= uint16(b) << 8
		if tu.rxsum != tu.sum {
			tu.protocolError("data checksum", int(tu.rxsum))
			return
		}
		tu.sink()
	case tsError:
		// the INIT beacon runs until the break handshake
	}
}

// rxFlag starts a new packet from the idle state.
func (tu *TU58) rxFlag(b byte) {
	switch b {
	case rspControl:
		tu.state = tsCmdCount
	case rspBootstrap:
		tu.state = tsBootUnit
	case rspInit:
		tu.slu.QueueInput(rspContinue)
	case rspContinue:
		tu.resume()
	case rspXoff:
		tu.xoff = true
	case rspData:
		// a stray data packet means we lost a command; force the
		// host to resynchronise
		tu.protocolError("data packet while idle", int(b))
	default:
		log.WithField("byte", fmt.Sprintf("%#o", b)).Debug("tu58: ignoring stray byte")
	}
}

// protocolError enters the ERROR state, which streams INIT flags at the
// host until it performs the break handshake.
func (tu *TU58) protocolError(what string, got int) {
	log.WithFields(log.Fields{
		"what": what,
		"got":  fmt.Sprintf("%#o", got),
	}).Debug("tu58: protocol error")
	tu.state = tsError
	tu.outQ = nil
	tu.eq.Cancel(tu, evTapePump)
	tu.eq.Schedule(tu, evTapeInit, tu.slu.charNS)
}

// dispatch runs a verified command packet.
func (tu *TU58) dispatch() {
	tu.state = tsIdle
	if tu.cmdLen < 10 {
		tu.endPacket(endBadOpcode, 0)
		return
	}
	op := tu.cmd[0]
	unit := tu.cmd[2]
	seq := uint16(tu.cmd[4]) | uint16(tu.cmd[5])<<8
	count := uint16(tu.cmd[6]) | uint16(tu.cmd[7])<<8
	block := uint16(tu.cmd[8]) | uint16(tu.cmd[9])<<8
	tu.op, tu.unit, tu.seq = op, unit, seq
	log.WithFields(log.Fields{
		"op":    op,
		"unit":  unit,
		"count": count,
		"block": block,
	}).Debug("tu58: command")

	switch op {
	case cmdNop, cmdDiagnose, cmdGetStatus, cmdSetStatus:
		tu.endPacket(endSuccess, 0)
	case cmdInit:
		tu.block = 0
		tu.endPacket(endSuccess, 0)
	case cmdPosition:
		tu.position(unit, block)
	case cmdRead:
		tu.read(unit, count, block)
	case cmdWrite:
		tu.write(unit, count, block)
	default:
		tu.endPacket(endBadOpcode, 0)
	}
}

// checkUnit validates the unit field; zero means usable.
func (tu *TU58) checkUnit(unit byte) byte {
	if int(unit) >= len(tu.units) {
		return endBadUnit
	}
	if tu.units[unit] == nil || len(tu.units[unit].data) == 0 {
		return endNoTape
	}
	return 0
}

func (tu *TU58) position(unit byte, block uint16) {
	if code := tu.checkUnit(unit); code != 0 {
		tu.endPacket(code, 0)
		return
	}
	if block >= TapeMaxBlocks {
		tu.endPacket(endBadBlock, 0)
		return
	}
	if int(block) >= tu.units[unit].capacity {
		tu.endPacket(endSeekErr, 0)
		return
	}
	tu.block = block
	tu.endPacket(endSuccess, 0)
}

func (tu *TU58) read(unit byte, count, block uint16) {
	if code := tu.checkUnit(unit); code != 0 {
		tu.endPacket(code, 0)
		return
	}
	if block >= TapeMaxBlocks {
		tu.endPacket(endBadBlock, 0)
		return
	}
	u := tu.units[unit]
	pos := int(block) * TapeBlockSize
	end := u.capacity * TapeBlockSize
	var sent uint16
	for sent < count {
		if pos >= end {
			tu.block = block + blocksOf(sent)
			tu.endPacket(endPartial, sent)
			return
		}
		n := int(count - sent)
		if n > 128 {
			n = 128
		}
		if rem := end - pos; n > rem {
			n = rem
		}
		tu.emitPacket(rspData, u.data[pos:pos+n])
		pos += n
		sent += uint16(n)
	}
	tu.block = block + blocksOf(count)
	tu.endPacket(endSuccess, sent)
}

func (tu *TU58) write(unit byte, count, block uint16) {
	if code := tu.checkUnit(unit); code != 0 {
		tu.endPacket(code, 0)
		return
	}
	if block >= TapeMaxBlocks {
		tu.endPacket(endBadBlock, 0)
		return
	}
	if tu.units[unit].readOnly {
		tu.endPacket(endWriteLock, 0)
		return
	}
	if count == 0 {
		tu.endPacket(endSuccess, 0)
		return
	}
	tu.count = count
	tu.actual = 0
	tu.secFill = 0
	tu.wrBlock = block
	tu.state = tsDataFlag
	tu.emitByte(rspContinue)
}

// sink consumes one verified DATA packet of a write in progress.
func (tu *TU58) sink() {
	tu.state = tsDataFlag
	for i := 0; i < tu.dataGot && tu.actual < tu.count; i++ {
		tu.sector[tu.secFill] = tu.data[i]
		tu.secFill++
		tu.actual++
		if tu.secFill == TapeBlockSize {
			if !tu.commit() {
				return
			}
		}
	}
	if tu.actual >= tu.count {
		if tu.secFill > 0 {
			// the tail of the last block is zero filled
			for i := tu.secFill; i < TapeBlockSize; i++ {
				tu.sector[i] = 0
			}
			if !tu.commit() {
				return
			}
		}
		tu.block = tu.wrBlock
		tu.state = tsIdle
		tu.endPacket(endSuccess, tu.actual)
		return
	}
	// ready for the next packet
	tu.emitByte(rspContinue)
}

// commit writes the sector buffer to the image. Running off the end of
// the tape aborts the transfer with a partial count.
func (tu *TU58) commit() bool {
	u := tu.units[tu.unit]
	if int(tu.wrBlock) >= u.capacity {
		committed := tu.actual - uint16(tu.secFill)
		tu.block = tu.wrBlock
		tu.state = tsIdle
		tu.endPacket(endPartial, committed)
		return false
	}
	copy(u.data[int(tu.wrBlock)*TapeBlockSize:], tu.sector[:])
	u.dirty = true
	tu.wrBlock++
	tu.secFill = 0
	return true
}

// bootstrap streams block 0 of a unit raw: no framing, no END.
func (tu *TU58) bootstrap(b byte) {
	tu.state = tsIdle
	if code := tu.checkUnit(b); code != 0 {
		// nothing on the wire can carry the error; the host times out
		log.WithField("unit", b).Debug("tu58: bootstrap of empty unit")
		return
	}
	tu.outQ = append(tu.outQ, tu.units[b].data[:TapeBlockSize]...)
	tu.kick()
}

// resume clears a host XOFF.
func (tu *TU58) resume() {
	if tu.xoff {
		tu.xoff = false
		tu.kick()
	}
}

// emitPacket queues a framed packet: flag, length, payload, checksum.
func (tu *TU58) emitPacket(flag byte, payload []byte) {
	tu.outQ = append(tu.outQ, flag, byte(len(payload)))
	sum := uint16(len(payload))
	for _, b := range payload {
		tu.outQ = append(tu.outQ, b)
		sum += uint16(b)
	}
	tu.outQ = append(tu.outQ, byte(sum), byte(sum>>8))
	tu.kick()
}

func (tu *TU58) emitByte(b byte) {
	tu.outQ = append(tu.outQ, b)
	tu.kick()
}

// endPacket closes a transaction: op, code, unit, zero, the echoed
// sequence number, the actual byte count, and a zero block field.
func (tu *TU58) endPacket(code byte, actual uint16) {
	tu.emitPacket(rspControl, []byte{
		cmdEnd, code, tu.unit, 0,
		byte(tu.seq), byte(tu.seq >> 8),
		byte(actual), byte(actual >> 8),
		0, 0,
	})
}

func (tu *TU58) kick() {
	if len(tu.outQ) > 0 {
		tu.eq.Schedule(tu, evTapePump, tu.slu.charNS)
	}
}

// pump moves queued reply bytes into the SLU receiver. The SLU channel
// applies backpressure; whatever does not fit waits for the next pump.
func (tu *TU58) pump() {
	if tu.xoff {
		return
	}
	for len(tu.outQ) > 0 {
		if !tu.slu.QueueInput(tu.outQ[0]) {
			break
		}
		tu.outQ = tu.outQ[1:]
	}
	if len(tu.outQ) > 0 {
		tu.eq.Schedule(tu, evTapePump, 64*tu.slu.charNS)
	} else {
		tu.outQ = nil
	}
}

func (tu *TU58) OnEvent(token int) {
	switch token {
	case evTapePower:
		tu.state = tsIdle
		tu.slu.QueueInput(rspContinue)
	case evTapePump:
		tu.pump()
	case evTapeInit:
		if tu.state == tsError {
			tu.slu.QueueInput(rspInit)
			tu.eq.Schedule(tu, evTapeInit, tu.slu.charNS)
		}
	}
}

func blocksOf(n uint16) uint16 { return (n + TapeBlockSize - 1) / TapeBlockSize }
