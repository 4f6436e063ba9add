package sbct11

import (
	"fmt"
	"strings"
)

var rs = [...]string{"R0", "R1", "R2", "R3", "R4", "R5", "SP", "PC"}

const (
	DD = 1 << 1
	S  = 1 << 2
	RR = 1 << 3
	O  = 1 << 4
	N  = 1 << 5
)

type D struct {
	mask uint16
	ins  uint16
	msg  string
	flag uint8
	b    bool
}

// First match wins, so exact opcodes come before the masked groups.
var disamtable = [...]D{
	{0177777, 0000000, "HALT", 0, false},
	{0177777, 0000001, "WAIT", 0, false},
	{0177777, 0000002, "RTI", 0, false},
	{0177777, 0000003, "BPT", 0, false},
	{0177777, 0000004, "IOT", 0, false},
	{0177777, 0000005, "RESET", 0, false},
	{0177777, 0000006, "RTT", 0, false},
	{0177777, 0000007, "MFPT", 0, false},

	{0177777, 0000240, "NOP", 0, false},
	{0177777, 0000241, "CLC", 0, false},
	{0177777, 0000242, "CLV", 0, false},
	{0177777, 0000244, "CLZ", 0, false},
	{0177777, 0000250, "CLN", 0, false},
	{0177777, 0000257, "CCC", 0, false},
	{0177777, 0000261, "SEC", 0, false},
	{0177777, 0000262, "SEV", 0, false},
	{0177777, 0000264, "SEZ", 0, false},
	{0177777, 0000270, "SEN", 0, false},
	{0177777, 0000277, "SCC", 0, false},

	{0177700, 0000100, "JMP", DD, false},
	{0177770, 0000200, "RTS", RR, false},
	{0177700, 0000300, "SWAB", DD, false},
	{0177700, 0006700, "SXT", DD, false},
	{0177700, 0106400, "MTPS", DD, false},
	{0177700, 0106700, "MFPS", DD, false},

	{0177400, 0104000, "EMT", N, false},
	{0177400, 0104400, "TRAP", N, false},
	{0177400, 0100000, "BPL", O, false},
	{0177400, 0100400, "BMI", O, false},
	{0177400, 0101000, "BHI", O, false},
	{0177400, 0101400, "BLOS", O, false},
	{0177400, 0102000, "BVC", O, false},
	{0177400, 0102400, "BVS", O, false},
	{0177400, 0103000, "BCC", O, false},
	{0177400, 0103400, "BCS", O, false},
	{0177400, 0000400, "BR", O, false},
	{0177400, 0001000, "BNE", O, false},
	{0177400, 0001400, "BEQ", O, false},
	{0177400, 0002000, "BGE", O, false},
	{0177400, 0002400, "BLT", O, false},
	{0177400, 0003000, "BGT", O, false},
	{0177400, 0003400, "BLE", O, false},

	{0177000, 0004000, "JSR", RR | DD, false},
	{0177000, 0074000, "XOR", RR | DD, false},
	{0177000, 0077000, "SOB", RR | O, false},
	{0170000, 0060000, "ADD", S | DD, false},
	{0170000, 0160000, "SUB", S | DD, false},

	{0077700, 0005000, "CLR", DD, true},
	{0077700, 0005100, "COM", DD, true},
	{0077700, 0005200, "INC", DD, true},
	{0077700, 0005300, "DEC", DD, true},
	{0077700, 0005400, "NEG", DD, true},
	{0077700, 0005500, "ADC", DD, true},
	{0077700, 0005600, "SBC", DD, true},
	{0077700, 0005700, "TST", DD, true},
	{0077700, 0006000, "ROR", DD, true},
	{0077700, 0006100, "ROL", DD, true},
	{0077700, 0006200, "ASR", DD, true},
	{0077700, 0006300, "ASL", DD, true},

	{0070000, 0010000, "MOV", S | DD, true},
	{0070000, 0020000, "CMP", S | DD, true},
	{0070000, 0030000, "BIT", S | DD, true},
	{0070000, 0040000, "BIC", S | DD, true},
	{0070000, 0050000, "BIS", S | DD, true},
}

type dasm struct {
	read func(uint16) uint16
	a    uint16
	len  int
	sb   strings.Builder
}

// word consumes the next instruction stream word.
func (d *dasm) word() uint16 {
	w := d.read(d.a + uint16(2*d.len))
	d.len++
	return w
}

func (d *dasm) operand(m uint16) {
	if m&7 == 7 {
		switch m {
		case 027:
			fmt.Fprintf(&d.sb, "$%06o", d.word())
			return
		case 037:
			fmt.Fprintf(&d.sb, "*%06o", d.word())
			return
		case 067:
			pos := d.a + uint16(2*d.len)
			fmt.Fprintf(&d.sb, "*%06o", pos+2+d.word())
			return
		case 077:
			pos := d.a + uint16(2*d.len)
			fmt.Fprintf(&d.sb, "**%06o", pos+2+d.word())
			return
		}
	}

	switch m & 070 {
	case 000:
		d.sb.WriteString(rs[m&7])
	case 010:
		fmt.Fprintf(&d.sb, "(%s)", rs[m&7])
	case 020:
		fmt.Fprintf(&d.sb, "(%s)+", rs[m&7])
	case 030:
		fmt.Fprintf(&d.sb, "*(%s)+", rs[m&7])
	case 040:
		fmt.Fprintf(&d.sb, "-(%s)", rs[m&7])
	case 050:
		fmt.Fprintf(&d.sb, "*-(%s)", rs[m&7])
	case 060:
		fmt.Fprintf(&d.sb, "%06o (%s)", d.word(), rs[m&7])
	case 070:
		fmt.Fprintf(&d.sb, "*%06o (%s)", d.word(), rs[m&7])
	}
}

// Disasm decodes the instruction at a, reading the instruction stream
// through read. It returns the assembler text and the number of words the
// instruction occupies.
func Disasm(read func(uint16) uint16, a uint16) (string, int) {
	d := dasm{read: read, a: a}
	ins := d.word()

	var l D
	found := false
	for _, l = range disamtable {
		if ins&l.mask == l.ins {
			found = true
			break
		}
	}
	if !found {
		return fmt.Sprintf(".WORD %06o", ins), 1
	}

	d.sb.WriteString(l.msg)
	if l.b && ins&0100000 != 0 {
		d.sb.WriteString("B")
	}
	s := ins >> 6 & 077
	dst := ins & 077
	o := ins & 0377
	switch l.flag {
	case S | DD:
		d.sb.WriteString(" ")
		d.operand(s)
		d.sb.WriteString(",")
		d.sb.WriteString(" ")
		d.operand(dst)
	case DD:
		d.sb.WriteString(" ")
		d.operand(dst)
	case RR | O:
		fmt.Fprintf(&d.sb, " %s,-%03o", rs[ins>>6&7], 2*(o&077))
	case O:
		if o&0200 != 0 {
			fmt.Fprintf(&d.sb, " -%03o", 2*((0377^o)+1))
		} else {
			fmt.Fprintf(&d.sb, " +%03o", 2*o)
		}
	case RR | DD:
		fmt.Fprintf(&d.sb, " %s, ", rs[ins>>6&7])
		d.operand(dst)
	case RR:
		fmt.Fprintf(&d.sb, " %s", rs[ins&7])
	case N:
		fmt.Fprintf(&d.sb, " %03o", o)
	}
	return d.sb.String(), d.len
}
