package sbct11

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// modeCycles is the incremental microcycle cost of each addressing mode
// over register mode.
var modeCycles = [8]uint64{0, 2, 2, 4, 3, 5, 5, 7}

// oplen returns the operand length an opcode works on: bit 15 selects the
// byte form of the double and single operand groups.
func oplen(instr uint16) uint16 {
	if instr&0100000 != 0 {
		return 1
	}
	return 2
}

func lmask(l uint16) uint16 {
	if l == 2 {
		return 0xFFFF
	}
	return 0xFF
}

func signbit(l uint16) uint16 {
	if l == 2 {
		return 0x8000
	}
	return 0x80
}

// aget resolves one mode/register field into an operand reference and the
// mode's microcycle cost. A register operand comes back as -(r+1); any
// other mode yields a bus address. Byte instructions step the register by
// 1 in modes 2 and 4, except that R6 and R7 always step by 2; the
// deferred modes 3 and 5 always step by 2. The index word of modes 6 and
// 7 is fetched before the register is added, which matters when the
// register is R7.
func (t *DCT11) aget(v uint16, l uint16) (int, uint64) {
	r := v & 7
	mode := v >> 3 & 7
	cost := modeCycles[mode]
	if r >= 6 || mode == 3 || mode == 5 {
		l = 2
	}
	var a uint16
	switch mode {
	case 0:
		return -int(r) - 1, cost
	case 1:
		a = t.R[r]
	case 2:
		a = t.R[r]
		t.R[r] += l
	case 3:
		a = t.bus.ReadWord(t.R[r])
		t.R[r] += 2
	case 4:
		t.R[r] -= l
		a = t.R[r]
	case 5:
		t.R[r] -= 2
		a = t.bus.ReadWord(t.R[r])
	case 6:
		x := t.fetch16()
		a = t.R[r] + x
	case 7:
		x := t.fetch16()
		a = t.bus.ReadWord(t.R[r] + x)
	default:
		panic(fmt.Sprintf("addressing mode out of range: %d", mode))
	}
	return int(a), cost
}

// memread fetches an operand through a reference from aget.
func (t *DCT11) memread(ref int, l uint16) uint16 {
	if ref < 0 {
		r := -ref - 1
		if l == 2 {
			return t.R[r]
		}
		return t.R[r] & 0xFF
	}
	if l == 2 {
		return t.bus.ReadWord(uint16(ref))
	}
	return uint16(t.bus.ReadByte(uint16(ref)))
}

// memwrite stores an operand through a reference from aget. A byte store
// to a register leaves the upper byte alone.
func (t *DCT11) memwrite(ref int, l, v uint16) {
	if ref < 0 {
		r := -ref - 1
		if l == 2 {
			t.R[r] = v
		} else {
			t.R[r] = t.R[r]&0xFF00 | v&0xFF
		}
		return
	}
	if l == 2 {
		t.bus.WriteWord(uint16(ref), v)
	} else {
		t.bus.WriteByte(uint16(ref), byte(v))
	}
}

// branch applies a signed word displacement to PC. A taken branch back to
// itself at priority 7 can never be interrupted again, so the interpreter
// gives up and reports it.
func (t *DCT11) branch(instr uint16) {
	npc := t.R[7] + uint16(int16(int8(instr)))*2
	if t.psw&0340 == 0340 && npc == t.lastPC {
		log.WithField("pc", fmt.Sprintf("%06o", t.lastPC)).Debug("endless loop")
		t.pendingStop = StopEndlessLoop
	}
	t.R[7] = npc
}
