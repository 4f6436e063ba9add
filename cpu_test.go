package sbct11

import (
	"testing"

	"github.com/matryer/is"
)

func testMachine(t testing.TB) *SBCT11 {
	t.Helper()
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.PowerUp()
	return m
}

func TestADD(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	for s := 0; s < 16; s++ {
		for d := 0; d < 16; d++ {
			src, dst := uint16(1)<<s, uint16(1)<<d
			cpu.R[0] = src
			cpu.R[1] = dst
			cpu.ADD(0060001) // ADD R0, R1
			expect(cpu.R[1], src+dst)
			expect(cpu.n(), (src+dst)&0x8000 > 0)
			expect(cpu.z(), src+dst == 0)
			expect(cpu.v(), (src^dst)&0x8000 == 0 && (src^(src+dst))&0x8000 > 0)
			expect(cpu.c(), uint32(src)+uint32(dst) > 0xffff)
		}
	}
}

func TestSUB(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	for s := 0; s < 16; s++ {
		for d := 0; d < 16; d++ {
			src, dst := uint16(1)<<s, uint16(1)<<d
			cpu.R[0] = src
			cpu.R[1] = dst
			cpu.SUB(0160001) // SUB R0, R1
			expect(cpu.R[1], dst-src)
			expect(cpu.n(), (dst-src)&0x8000 > 0)
			expect(cpu.z(), dst-src == 0)
			expect(cpu.v(), (src^dst)&0x8000 > 0 && ((dst-src)^src)&0x8000 == 0)
			expect(cpu.c(), src > dst)
		}
	}
}

// CMP computes SRC-DST, the opposite direction from SUB.
func TestCMPDirection(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	for s := 0; s < 16; s++ {
		for d := 0; d < 16; d++ {
			src, dst := uint16(1)<<s, uint16(1)<<d
			cpu.R[0] = src
			cpu.R[1] = dst
			cpu.CMP(0020001) // CMP R0, R1
			expect(cpu.R[1], dst) // flags only
			expect(cpu.z(), src == dst)
			expect(cpu.n(), (src-dst)&0x8000 > 0)
			expect(cpu.c(), src < dst)
			expect(cpu.v(), (src^dst)&0x8000 > 0 && ((src-dst)^dst)&0x8000 == 0)
		}
	}
}

// MOVB to a register destination sign extends; every other byte op with a
// register destination leaves the upper byte alone.
func TestByteRegisterDestination(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)

	m.Load(001000,
		0112700, 0000377, // MOVB #377, R0
	)
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[0], uint16(0xFFFF)) // MOVB sign extends into a register
	is.True(m.CPU.n())

	m.Load(001000,
		0152701, 0000377, // BISB #377, R1
	)
	m.CPU.R[1] = 0x1234
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[1], uint16(0x12FF)) // BISB writes only the low byte
}

// Both effective addresses are computed before the source operand is
// read, so MOV R0, (R0)+ stores the incremented R0.
func TestEABeforeSource(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)

	m.Load(001000, 0010020) // MOV R0, (R0)+
	m.CPU.R[0] = 001100
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[0], uint16(001102))
	is.Equal(m.RAM.UIReadWord(001100), uint16(001102))
}

// Byte opcodes step R0..R5 by one in modes 2 and 4, but R6 and R7 always
// step by two.
func TestByteAutoIncrement(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)

	m.Load(001000, 0105220) // INCB (R0)+
	m.CPU.R[0] = 001100
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[0], uint16(001101))

	m.Load(001000, 0105226) // INCB (SP)+
	m.CPU.R[6] = 001100
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[6], uint16(001102))

	m.Load(001000, 0105727, 0000000) // TSTB (PC)+
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(001004))
}

// Register writes stay inside 16 bits whatever the source pattern.
func TestRegisterWidth(t *testing.T) {
	var cpu DCT11
	for i := 0; i < 8; i++ {
		cpu.R[i] = 0xFFFF
		if cpu.R[i] != 0xFFFF {
			t.Fatalf("R%d read back %06o", i, cpu.R[i])
		}
	}
}

// MTPS loads the whole byte except T; MFPS to a register sign extends.
func TestMTPSMFPS(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)

	m.CPU.psw = FlagT
	m.Load(001000, 0106427, 0000017) // MTPS #17
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(m.CPU.psw&0357, uint16(017)) // CC bits loaded
	is.True(m.CPU.psw&FlagT != 0)         // T preserved

	m.CPU.psw = 0340 | FlagN
	m.Load(001000, 0106700) // MFPS R0
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(m.CPU.R[0], uint16(0xFFE8)) // 0350 sign extended
}

func TestADCBoundary(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	cpu.psw = FlagC
	cpu.R[0] = 0077777
	cpu.ADC(0005500) // ADC R0
	expect(cpu.R[0], uint16(0100000))
	expect(cpu.v(), true)
	expect(cpu.c(), false)

	cpu.psw = FlagC
	cpu.R[0] = 0177777
	cpu.ADC(0005500)
	expect(cpu.R[0], uint16(0))
	expect(cpu.v(), false)
	expect(cpu.c(), true)

	// without carry in, the boundary values do nothing special
	cpu.psw = 0
	cpu.R[0] = 0077777
	cpu.ADC(0005500)
	expect(cpu.R[0], uint16(0077777))
	expect(cpu.v(), false)
	expect(cpu.c(), false)
}

func TestSBCBoundary(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	cpu.psw = FlagC
	cpu.R[0] = 0100000
	cpu.SBC(0005600) // SBC R0
	expect(cpu.R[0], uint16(0077777))
	expect(cpu.v(), true)
	expect(cpu.c(), false)

	cpu.psw = FlagC
	cpu.R[0] = 0
	cpu.SBC(0005600)
	expect(cpu.R[0], uint16(0177777))
	expect(cpu.c(), true)
}

func TestNEG(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	cpu.R[0] = 0100000
	cpu.NEG(0005400) // NEG R0
	expect(cpu.R[0], uint16(0100000))
	expect(cpu.v(), true)
	expect(cpu.c(), true)

	cpu.R[0] = 0
	cpu.NEG(0005400)
	expect(cpu.R[0], uint16(0))
	expect(cpu.c(), false)
	expect(cpu.z(), true)
}

// The rotates copy the shifted-out bit to C and compute V as N xor C
// after the shift.
func TestRotateFlags(t *testing.T) {
	expect := func(got, want interface{}) {
		if got != want {
			t.Helper()
			t.Fatal("got:", got, "want:", want)
		}
	}

	var cpu DCT11
	cpu.psw = 0
	cpu.R[0] = 1
	cpu.ROR(0006000) // ROR R0
	expect(cpu.R[0], uint16(0))
	expect(cpu.c(), true)
	expect(cpu.z(), true)
	expect(cpu.v(), true) // N=0 xor C=1

	cpu.psw = FlagC
	cpu.R[0] = 0
	cpu.ROR(0006000)
	expect(cpu.R[0], uint16(0100000))
	expect(cpu.n(), true)
	expect(cpu.c(), false)
	expect(cpu.v(), true) // N=1 xor C=0

	cpu.psw = 0
	cpu.R[0] = 0100000
	cpu.ROL(0006100) // ROL R0
	expect(cpu.R[0], uint16(0))
	expect(cpu.c(), true)
	expect(cpu.v(), true)
}

func TestCOMAlwaysSetsC(t *testing.T) {
	var cpu DCT11
	cpu.R[0] = 0x0F0F
	cpu.COM(0005100)
	if cpu.R[0] != 0xF0F0 || !cpu.c() {
		t.Fatalf("COM: R0=%06o C=%v", cpu.R[0], cpu.c())
	}
}

// probeDev counts register accesses so the read-before-write behavior of
// CLR, SXT, TST and MFPS is observable.
type probeDev struct {
	reads, writes int
	val           uint16
}

func (p *probeDev) Name() string   { return "probe" }
func (p *probeDev) Base() uint16   { return 0176400 }
func (p *probeDev) Registers() int { return 1 }
func (p *probeDev) DevRead(off uint16) uint16 {
	p.reads++
	return p.val
}
func (p *probeDev) DevWrite(off uint16, w uint16) {
	p.writes++
	p.val = w
}
func (p *probeDev) Reset()            {}
func (p *probeDev) OnEvent(token int) {}

func TestCLRReadsDestination(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	probe := &probeDev{val: 0123456}
	is.NoErr(m.IO.Install(probe))
	m.CPU.SetPSW(0)

	m.Load(001000, 0005037, 0176400) // CLR @#176400
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(probe.reads, 1) // destination read fires the side effect
	is.Equal(probe.writes, 1)
	is.Equal(probe.val, uint16(0))

	probe.reads, probe.writes = 0, 0
	probe.val = 0123456
	m.Load(001000, 0005737, 0176400) // TST @#176400
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(probe.reads, 1)
	is.Equal(probe.writes, 0) // TST never writes back
	is.Equal(probe.val, uint16(0123456))
}

func TestJMPRegisterModeTraps(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.CPU.R[6] = 001000
	m.Load(VecReserved, 002000, 0000)

	m.Load(001000, 0000100) // JMP R0
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(002000)) // via vector 4
	is.Equal(m.RAM.UIReadWord(000774), uint16(001002))
}

func TestSOB(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)

	m.Load(001000, 0077201) // SOB R2, .-2
	m.CPU.R[2] = 3
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(m.CPU.R[2], uint16(2))
	is.Equal(m.CPU.R[7], uint16(001000)) // taken

	m.CPU.R[2] = 1
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(m.CPU.R[2], uint16(0))
	is.Equal(m.CPU.R[7], uint16(001002)) // fell through
}

func TestMFPT(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.Load(001000, 0000007) // MFPT
	m.CPU.R[7] = 001000
	m.Step()
	is.Equal(m.CPU.R[0], uint16(4)) // T-11 processor code
}

// An EMT stepped with the T bit set services both the EMT and the trace,
// leaving two nested frames on the stack.
func TestTraceEMTNestedFrames(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.psw = FlagT
	m.CPU.R[6] = 000500
	m.Load(VecEMT, 002000, 0000) // EMT handler, T clear
	m.Load(VecBPT, 003000, 0340) // trace handler
	m.Load(001000, 0104000)      // EMT 0
	m.CPU.R[7] = 001000

	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(003000)) // ended in the trace handler
	is.Equal(m.CPU.PSW(), uint16(0340))
	is.Equal(m.CPU.R[6], uint16(000470)) // two frames
	// inner frame: the trace pushed the EMT handler context
	is.Equal(m.RAM.UIReadWord(000470), uint16(002000))
	is.Equal(m.RAM.UIReadWord(000472), uint16(0000))
	// outer frame: the EMT pushed the traced instruction context
	is.Equal(m.RAM.UIReadWord(000474), uint16(001002))
	is.Equal(m.RAM.UIReadWord(000476), uint16(FlagT))
}

// RTI to a PSW with T clear withdraws a pending trace request.
func TestRTICancelsTrace(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.psw = FlagT
	m.CPU.R[6] = 000500
	m.Load(VecBPT, 003000, 0340)
	m.Load(000500, 002000, 0000) // stacked PC, PSW with T clear
	m.Load(001000, 0000002)      // RTI
	m.CPU.R[7] = 001000

	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(002000)) // no trace trap happened
	is.Equal(m.CPU.PSW(), uint16(0))
}

// RTT suppresses the trace trap for the instruction after it, but only
// that one.
func TestRTTDefersTrace(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.R[6] = 000500
	m.Load(VecBPT, 003000, 0340)
	m.Load(000500, 001000, uint16(FlagT)) // stacked PC, PSW with T set
	m.Load(000700, 0000006)               // RTT
	m.Load(001000, 0000240, 0000240)      // NOP; NOP
	m.CPU.R[7] = 000700

	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(001000))
	is.Equal(m.Step(), StopNone) // first NOP runs untraced
	is.Equal(m.CPU.R[7], uint16(001002))
	is.Equal(m.Step(), StopNone) // second NOP traps
	is.Equal(m.CPU.R[7], uint16(003000))
}

func TestConditionCodeOps(t *testing.T) {
	var cpu DCT11
	cpu.execute(0000277) // SCC
	if cpu.psw&017 != 017 {
		t.Fatalf("SCC: psw=%03o", cpu.psw)
	}
	cpu.execute(0000242) // CLV
	if cpu.v() {
		t.Fatal("CLV left V set")
	}
	cpu.execute(0000257) // CCC
	if cpu.psw&017 != 0 {
		t.Fatalf("CCC: psw=%03o", cpu.psw)
	}
}

func TestWAITBreaksOnInterrupt(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.Load(0100, 002000, 0340) // line 11 vector
	m.Load(001000, 0000001)    // WAIT
	m.CPU.R[7] = 001000

	m.Ints.Channel(011, IntEdge, "test")
	raise := eventFunc(func(token int) { m.Ints.Raise(011, true) })
	m.EQ.Schedule(raise, 1, 50000)

	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(002000))   // took the interrupt
	is.True(m.EQ.Now() >= 50000)           // time coasted to the event
	is.Equal(m.Ints.Requested(011), false) // edge acknowledged
}

func TestWAITAtPriority7BreaksOnPowerfail(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0340)
	m.CPU.R[6] = 000500
	m.Load(VecPowerfail, 002000, 0340)
	m.Load(001000, 0000001) // WAIT
	m.CPU.R[7] = 001000

	fail := eventFunc(func(token int) { m.CPU.RequestPowerfail() })
	m.EQ.Schedule(fail, 1, 70000)

	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(002000))
}

// eventFunc adapts a closure to the event queue.
type eventFunc func(int)

func (f eventFunc) OnEvent(token int) { f(token) }

func TestStopFlag(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.Load(001000, 0000240) // NOP
	m.CPU.R[7] = 001000
	m.CPU.RequestStop()
	is.Equal(m.Run(0), StopBreak)
	is.Equal(m.CPU.R[7], uint16(001000)) // nothing executed
}

func TestBreakpoint(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.Load(001000, 0000240, 0000240) // NOP; NOP
	m.Bus.SetBreak(001002)
	m.CPU.R[7] = 001000
	is.Equal(m.Run(0), StopBreakpoint)
	is.Equal(m.CPU.R[7], uint16(001002))
	// continuing skips the breakpoint under the current PC
	is.Equal(m.Run(1), StopFinished)
	is.Equal(m.CPU.R[7], uint16(001004))
}

func TestIllegalOpcodeStop(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.CPU.BreakIllegalOpcode = true
	m.Load(001000, 0000010) // unused code in the zero group
	m.CPU.R[7] = 001000
	is.Equal(m.Run(0), StopIllegalOpcode)
}

func TestIllegalOpcodeTrap(t *testing.T) {
	is := is.New(t)
	m := testMachine(t)
	m.CPU.SetPSW(0)
	m.CPU.R[6] = 000500
	m.Load(VecIllegal, 002000, 0000)
	m.Load(001000, 0170000) // FPP opcode, not on this chip
	m.CPU.R[7] = 001000
	is.Equal(m.Step(), StopNone)
	is.Equal(m.CPU.R[7], uint16(002000))
}

func BenchmarkADD(b *testing.B) {
	m := testMachine(b)
	m.CPU.SetPSW(0)
	m.Load(001000,
		0060001, // ADD R0, R1
	)
	for i := 0; i < b.N; i++ {
		m.CPU.R[0] = uint16(i)
		m.CPU.R[1] = uint16(i)
		m.CPU.R[7] = 001000
		m.CPU.step(true)
	}
}
