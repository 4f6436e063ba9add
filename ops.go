package sbct11

// waitIdle is how far WAIT lets time coast when nothing is scheduled.
const waitIdle = 1000 // ns

// execute dispatches one fetched instruction and returns its microcycle
// count. Trap and halt requests raised here are serviced by the caller at
// the instruction boundary.
func (t *DCT11) execute(instr uint16) uint64 {
	switch instr >> 12 { // xxSSDD, mostly double operand
	case 0: // 00xxxx mixed group
		switch instr >> 8 { // 8 bit opcodes first, branches and JSR
		case 0: // 000xDD zero group
			switch instr >> 6 {
			case 0: // 0000xx
				switch instr {
				case 0: // HALT 000000
					return t.HALT()
				case 1: // WAIT 000001
					return t.WAIT()
				case 2: // RTI 000002
					return t.RTI()
				case 3: // BPT 000003
					t.trapInstruction(VecBPT)
					return 16
				case 4: // IOT 000004
					t.trapInstruction(VecIOT)
					return 16
				case 5: // RESET 000005
					return t.RESET()
				case 6: // RTT 000006
					return t.RTT()
				case 7: // MFPT 000007, processor code 4
					t.R[0] = 4
					return 3
				default:
					return t.illegal(instr)
				}
			case 1: // JMP 0001DD
				return t.JMP(instr)
			case 2: // 00020R single register group
				switch instr >> 3 & 7 {
				case 0: // RTS 00020R
					return t.RTS(instr)
				case 4, 5: // clear condition codes 00024N, NOP is 000240
					t.psw &^= instr & 017
					return 3
				case 6, 7: // set condition codes 00026N
					t.psw |= instr & 017
					return 3
				default: // SPL is not on this chip
					return t.illegal(instr)
				}
			case 3: // SWAB 0003DD
				return t.SWAB(instr)
			default:
				return t.illegal(instr)
			}
		case 1: // BR 0004 offset
			t.branch(instr)
			return 4
		case 2: // BNE 0010 offset
			if !t.z() {
				t.branch(instr)
			}
			return 4
		case 3: // BEQ 0014 offset
			if t.z() {
				t.branch(instr)
			}
			return 4
		case 4: // BGE 0020 offset
			if t.n() == t.v() {
				t.branch(instr)
			}
			return 4
		case 5: // BLT 0024 offset
			if t.n() != t.v() {
				t.branch(instr)
			}
			return 4
		case 6: // BGT 0030 offset
			if t.n() == t.v() && !t.z() {
				t.branch(instr)
			}
			return 4
		case 7: // BLE 0034 offset
			if t.n() != t.v() || t.z() {
				t.branch(instr)
			}
			return 4
		case 010, 011: // JSR 004RDD
			return t.JSR(instr)
		default: // 005xDD, 006xDD single operand group
			switch instr >> 6 {
			case 050: // CLR 0050DD
				return t.CLR(instr)
			case 051: // COM 0051DD
				return t.COM(instr)
			case 052: // INC 0052DD
				return t.INC(instr)
			case 053: // DEC 0053DD
				return t.DEC(instr)
			case 054: // NEG 0054DD
				return t.NEG(instr)
			case 055: // ADC 0055DD
				return t.ADC(instr)
			case 056: // SBC 0056DD
				return t.SBC(instr)
			case 057: // TST 0057DD
				return t.TST(instr)
			case 060: // ROR 0060DD
				return t.ROR(instr)
			case 061: // ROL 0061DD
				return t.ROL(instr)
			case 062: // ASR 0062DD
				return t.ASR(instr)
			case 063: // ASL 0063DD
				return t.ASL(instr)
			case 067: // SXT 0067DD
				return t.SXT(instr)
			default: // MARK, MFPI, MTPI are not on this chip
				return t.illegal(instr)
			}
		}
	case 1: // MOV 01SSDD
		return t.MOV(instr)
	case 2: // CMP 02SSDD
		return t.CMP(instr)
	case 3: // BIT 03SSDD
		return t.BIT(instr)
	case 4: // BIC 04SSDD
		return t.BIC(instr)
	case 5: // BIS 05SSDD
		return t.BIS(instr)
	case 6: // ADD 06SSDD
		return t.ADD(instr)
	case 7: // 07xRDD group
		switch instr >> 9 & 7 {
		case 4: // XOR 074RDD
			return t.XOR(instr)
		case 7: // SOB 077Rnn
			return t.SOB(instr)
		default: // EIS is not on this chip
			return t.illegal(instr)
		}
	case 010: // 10xxxx byte group
		switch instr >> 8 & 017 {
		case 0: // BPL 1000 offset
			if !t.n() {
				t.branch(instr)
			}
			return 4
		case 1: // BMI 1004 offset
			if t.n() {
				t.branch(instr)
			}
			return 4
		case 2: // BHI 1010 offset
			if !t.c() && !t.z() {
				t.branch(instr)
			}
			return 4
		case 3: // BLOS 1014 offset
			if t.c() || t.z() {
				t.branch(instr)
			}
			return 4
		case 4: // BVC 1020 offset
			if !t.v() {
				t.branch(instr)
			}
			return 4
		case 5: // BVS 1024 offset
			if t.v() {
				t.branch(instr)
			}
			return 4
		case 6: // BCC 1030 offset
			if !t.c() {
				t.branch(instr)
			}
			return 4
		case 7: // BCS 1034 offset
			if t.c() {
				t.branch(instr)
			}
			return 4
		case 010: // EMT 104000..104377
			t.trapInstruction(VecEMT)
			return 16
		case 011: // TRAP 104400..104777
			t.trapInstruction(VecTRAP)
			return 16
		default: // 105xDD, 106xDD byte single operand group
			switch instr >> 6 & 077 {
			case 050: // CLRB 1050DD
				return t.CLR(instr)
			case 051: // COMB 1051DD
				return t.COM(instr)
			case 052: // INCB 1052DD
				return t.INC(instr)
			case 053: // DECB 1053DD
				return t.DEC(instr)
			case 054: // NEGB 1054DD
				return t.NEG(instr)
			case 055: // ADCB 1055DD
				return t.ADC(instr)
			case 056: // SBCB 1056DD
				return t.SBC(instr)
			case 057: // TSTB 1057DD
				return t.TST(instr)
			case 060: // RORB 1060DD
				return t.ROR(instr)
			case 061: // ROLB 1061DD
				return t.ROL(instr)
			case 062: // ASRB 1062DD
				return t.ASR(instr)
			case 063: // ASLB 1063DD
				return t.ASL(instr)
			case 064: // MTPS 1064SS
				return t.MTPS(instr)
			case 067: // MFPS 1067DD
				return t.MFPS(instr)
			default: // MFPD and MTPD are not on this chip
				return t.illegal(instr)
			}
		}
	case 011: // MOVB 11SSDD
		return t.MOV(instr)
	case 012: // CMPB 12SSDD
		return t.CMP(instr)
	case 013: // BITB 13SSDD
		return t.BIT(instr)
	case 014: // BICB 14SSDD
		return t.BIC(instr)
	case 015: // BISB 15SSDD
		return t.BIS(instr)
	case 016: // SUB 16SSDD
		return t.SUB(instr)
	default: // 17xxxx floating point is not on this chip
		return t.illegal(instr)
	}
}

// MOV 01SSDD, MOVB 11SSDD. MOVB to a register sign extends.
func (t *DCT11) MOV(instr uint16) uint64 {
	l := oplen(instr)
	sa, scost := t.aget(instr>>6, l)
	da, dcost := t.aget(instr, l)
	v := t.memread(sa, l)
	if l == 1 && da < 0 {
		t.R[-da-1] = uint16(int16(int8(v)))
	} else {
		t.memwrite(da, l, v)
	}
	t.psw &^= FlagN | FlagZ | FlagV
	if v&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if v&lmask(l) == 0 {
		t.psw |= FlagZ
	}
	return 3 + scost + dcost
}

// CMP 02SSDD, CMPB 12SSDD. Computes SRC-DST; only the flags change.
func (t *DCT11) CMP(instr uint16) uint64 {
	l := oplen(instr)
	sa, scost := t.aget(instr>>6, l)
	da, dcost := t.aget(instr, l)
	src := t.memread(sa, l)
	dst := t.memread(da, l)
	res := (src - dst) & lmask(l)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if (src^dst)&signbit(l) != 0 && (res^dst)&signbit(l) == 0 {
		t.psw |= FlagV
	}
	if src < dst {
		t.psw |= FlagC
	}
	return 3 + scost + dcost
}

// BIT 03SSDD, BITB 13SSDD
func (t *DCT11) BIT(instr uint16) uint64 {
	l := oplen(instr)
	sa, scost := t.aget(instr>>6, l)
	da, dcost := t.aget(instr, l)
	res := t.memread(sa, l) & t.memread(da, l)
	t.psw &^= FlagN | FlagZ | FlagV
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + scost + dcost
}

// BIC 04SSDD, BICB 14SSDD
func (t *DCT11) BIC(instr uint16) uint64 {
	l := oplen(instr)
	sa, scost := t.aget(instr>>6, l)
	da, dcost := t.aget(instr, l)
	res := t.memread(da, l) &^ t.memread(sa, l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res&lmask(l) == 0 {
		t.psw |= FlagZ
	}
	return 3 + scost + dcost
}

// BIS 05SSDD, BISB 15SSDD
func (t *DCT11) BIS(instr uint16) uint64 {
	l := oplen(instr)
	sa, scost := t.aget(instr>>6, l)
	da, dcost := t.aget(instr, l)
	res := t.memread(da, l) | t.memread(sa, l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res&lmask(l) == 0 {
		t.psw |= FlagZ
	}
	return 3 + scost + dcost
}

// ADD 06SSDD. C is the carry out of the 17 bit sum.
func (t *DCT11) ADD(instr uint16) uint64 {
	sa, scost := t.aget(instr>>6, 2)
	da, dcost := t.aget(instr, 2)
	src := t.memread(sa, 2)
	dst := t.memread(da, 2)
	sum := uint32(src) + uint32(dst)
	res := uint16(sum)
	t.memwrite(da, 2, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if res&0x8000 != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if (src^dst)&0x8000 == 0 && (res^src)&0x8000 != 0 {
		t.psw |= FlagV
	}
	if sum > 0xFFFF {
		t.psw |= FlagC
	}
	return 3 + scost + dcost
}

// SUB 16SSDD. Computes DST-SRC; C is the borrow.
func (t *DCT11) SUB(instr uint16) uint64 {
	sa, scost := t.aget(instr>>6, 2)
	da, dcost := t.aget(instr, 2)
	src := t.memread(sa, 2)
	dst := t.memread(da, 2)
	res := dst - src
	t.memwrite(da, 2, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if res&0x8000 != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if (src^dst)&0x8000 != 0 && (res^src)&0x8000 == 0 {
		t.psw |= FlagV
	}
	if src > dst {
		t.psw |= FlagC
	}
	return 3 + scost + dcost
}

// XOR 074RDD. Word only; the source is always a register.
func (t *DCT11) XOR(instr uint16) uint64 {
	src := t.R[instr>>6&7]
	da, dcost := t.aget(instr, 2)
	res := t.memread(da, 2) ^ src
	t.memwrite(da, 2, res)
	t.psw &^= FlagN | FlagZ | FlagV
	if res&0x8000 != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// SOB 077Rnn. Decrement and branch backward; no flags.
func (t *DCT11) SOB(instr uint16) uint64 {
	r := instr >> 6 & 7
	t.R[r]--
	if t.R[r] != 0 {
		t.R[7] -= (instr & 077) * 2
	}
	return 5
}

// CLR 0050DD, CLRB 1050DD. The destination is read first even though the
// value is unused, so read side effects in the I/O page still happen.
func (t *DCT11) CLR(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	t.memread(da, l)
	t.memwrite(da, l, 0)
	t.psw &^= FlagN | FlagV | FlagC
	t.psw |= FlagZ
	return 3 + dcost
}

// COM 0051DD, COMB 1051DD. C is always set.
func (t *DCT11) COM(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	res := ^t.memread(da, l) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV
	t.psw |= FlagC
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// INC 0052DD, INCB 1052DD. C is untouched.
func (t *DCT11) INC(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	res := (t.memread(da, l) + 1) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV
	if res == signbit(l) {
		t.psw |= FlagV
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// DEC 0053DD, DECB 1053DD. C is untouched.
func (t *DCT11) DEC(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	res := (dst - 1) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV
	if dst == signbit(l) {
		t.psw |= FlagV
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// NEG 0054DD, NEGB 1054DD. V only for the minimum negative value; C set
// whenever the result is non-zero.
func (t *DCT11) NEG(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	res := -t.memread(da, l) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if res == signbit(l) {
		t.psw |= FlagV
	}
	if res != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// ADC 0055DD, ADCB 1055DD. V and C fire only on the boundary values and
// only when C was set going in.
func (t *DCT11) ADC(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	var cin uint16
	if t.c() {
		cin = 1
	}
	res := (dst + cin) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst == signbit(l)-1 && cin != 0 {
		t.psw |= FlagV
	}
	if dst == lmask(l) && cin != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// SBC 0056DD, SBCB 1056DD
func (t *DCT11) SBC(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	var cin uint16
	if t.c() {
		cin = 1
	}
	res := (dst - cin) & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst == signbit(l) && cin != 0 {
		t.psw |= FlagV
	}
	if dst == 0 && cin != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// TST 0057DD, TSTB 1057DD. Reads the destination, sets flags, writes
// nothing back.
func (t *DCT11) TST(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if dst == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// ROR 0060DD, RORB 1060DD. C takes the bit shifted out; V is N xor C
// after the shift.
func (t *DCT11) ROR(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	res := dst >> 1
	if t.c() {
		res |= signbit(l)
	}
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst&1 != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if t.n() != t.c() {
		t.psw |= FlagV
	}
	return 3 + dcost
}

// ROL 0061DD, ROLB 1061DD
func (t *DCT11) ROL(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	res := dst << 1 & lmask(l)
	if t.c() {
		res |= 1
	}
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst&signbit(l) != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if t.n() != t.c() {
		t.psw |= FlagV
	}
	return 3 + dcost
}

// ASR 0062DD, ASRB 1062DD. The sign bit is replicated.
func (t *DCT11) ASR(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	res := dst>>1 | dst&signbit(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst&1 != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if t.n() != t.c() {
		t.psw |= FlagV
	}
	return 3 + dcost
}

// ASL 0063DD, ASLB 1063DD
func (t *DCT11) ASL(instr uint16) uint64 {
	l := oplen(instr)
	da, dcost := t.aget(instr, l)
	dst := t.memread(da, l)
	res := dst << 1 & lmask(l)
	t.memwrite(da, l, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if dst&signbit(l) != 0 {
		t.psw |= FlagC
	}
	if res&signbit(l) != 0 {
		t.psw |= FlagN
	}
	if res == 0 {
		t.psw |= FlagZ
	}
	if t.n() != t.c() {
		t.psw |= FlagV
	}
	return 3 + dcost
}

// SWAB 0003DD. N and Z follow the low byte of the result.
func (t *DCT11) SWAB(instr uint16) uint64 {
	da, dcost := t.aget(instr, 2)
	dst := t.memread(da, 2)
	res := dst<<8 | dst>>8
	t.memwrite(da, 2, res)
	t.psw &^= FlagN | FlagZ | FlagV | FlagC
	if res&0x80 != 0 {
		t.psw |= FlagN
	}
	if res&0xFF == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// SXT 0067DD. Spreads N through the destination; the destination is read
// first like CLR.
func (t *DCT11) SXT(instr uint16) uint64 {
	da, dcost := t.aget(instr, 2)
	t.memread(da, 2)
	var res uint16
	if t.n() {
		res = 0xFFFF
	}
	t.memwrite(da, 2, res)
	t.psw &^= FlagZ | FlagV
	if !t.n() {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// MTPS 1064SS. Loads the PSW from a byte operand; T is not writable this
// way.
func (t *DCT11) MTPS(instr uint16) uint64 {
	sa, scost := t.aget(instr, 1)
	b := t.memread(sa, 1)
	t.psw = b&0xFF&^FlagT | t.psw&FlagT
	return 6 + scost
}

// MFPS 1067DD. Stores the PSW byte; a register destination sign extends
// and the destination is read first like CLR.
func (t *DCT11) MFPS(instr uint16) uint64 {
	da, dcost := t.aget(instr, 1)
	t.memread(da, 1)
	b := t.psw & 0xFF
	if da < 0 {
		t.R[-da-1] = uint16(int16(int8(b)))
	} else {
		t.memwrite(da, 1, b)
	}
	t.psw &^= FlagN | FlagZ | FlagV
	if b&0x80 != 0 {
		t.psw |= FlagN
	}
	if b == 0 {
		t.psw |= FlagZ
	}
	return 3 + dcost
}

// JMP 0001DD. A register destination has no address and takes the
// reserved instruction trap.
func (t *DCT11) JMP(instr uint16) uint64 {
	da, dcost := t.aget(instr, 2)
	if da < 0 {
		t.trapInstruction(VecReserved)
		return 3
	}
	t.R[7] = uint16(da)
	return 3 + dcost
}

// JSR 004RDD
func (t *DCT11) JSR(instr uint16) uint64 {
	da, dcost := t.aget(instr, 2)
	if da < 0 {
		t.trapInstruction(VecReserved)
		return 3
	}
	r := instr >> 6 & 7
	t.push(t.R[r])
	t.R[r] = t.R[7]
	t.R[7] = uint16(da)
	return 6 + dcost
}

// RTS 00020R
func (t *DCT11) RTS(instr uint16) uint64 {
	r := instr & 7
	t.R[7] = t.R[r]
	t.R[r] = t.pop()
	return 5
}

// RTI 000002. Restoring a PSW with T clear withdraws a pending trace.
func (t *DCT11) RTI() uint64 {
	t.R[7] = t.pop()
	t.writePSW(t.pop())
	if t.psw&FlagT == 0 {
		t.req &^= reqTrace
	}
	return 8
}

// RTT 000006. Like RTI but the next instruction is not traced even when
// the restored PSW has T set.
func (t *DCT11) RTT() uint64 {
	t.R[7] = t.pop()
	t.writePSW(t.pop())
	if t.psw&FlagT == 0 {
		t.req &^= reqTrace
	}
	t.rttDefer = true
	return 8
}

// HALT 000000. The T-11 cannot stop; HALT posts a request and the
// dispatcher restarts the firmware. PC backs up first so the stacked PC
// names the HALT itself.
func (t *DCT11) HALT() uint64 {
	t.R[7] -= 2
	t.req |= reqHalt
	return 5
}

// WAIT 000001. Coasts simulated time from deadline to deadline until a
// request shows up or the console asks for a stop. The instruction itself
// costs nothing; the clock moves through the queue.
func (t *DCT11) WAIT() uint64 {
	for {
		t.eq.Drain()
		if t.req != 0 {
			return 0
		}
		if line, ok := t.ic.FindRequest(t.psw); ok {
			t.req |= reqExternal
			t.extLine = line
			return 0
		}
		if t.stop.Load() {
			return 0
		}
		if next, ok := t.eq.NextDeadline(); ok {
			t.eq.AdvanceTo(next)
		} else {
			t.eq.Elapse(waitIdle)
		}
	}
}

// RESET 000005. Clears the bus and the interrupt controller; CPU state is
// untouched.
func (t *DCT11) RESET() uint64 {
	t.ic.ClearAll()
	t.bus.BusClear()
	return 37
}
