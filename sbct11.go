package sbct11

import "fmt"

// Interrupt line assignments. The console SLU sits at the standard DL
// addresses and vectors; the tape SLU uses the alternate block. Lower
// numbered lines win arbitration, so receivers outrank transmitters and
// the console outranks the tape.
const (
	IntConsoleTx = 2 // vector 064
	IntConsoleRx = 3 // vector 060
	IntTapeTx    = 6 // vector 0124
	IntTapeRx    = 7 // vector 0120
)

// Config carries the board straps: the mode register sampled at power up,
// the processor crystal, and the two serial line rates.
type Config struct {
	Mode        uint16
	ClockHz     uint64
	ConsoleRate uint64
	TapeRate    uint64
}

// DefaultConfig is the board as shipped: start at 0172000 in ROM, a
// 7.3728 MHz crystal, the console at 9600 baud and the tape at 38400.
func DefaultConfig() Config {
	return Config{
		Mode:        0160000,
		ClockHz:     7372800,
		ConsoleRate: 9600,
		TapeRate:    38400,
	}
}

// SBCT11 is the assembled board: CPU, memory map, both serial lines and
// the tape drive, all sharing one event queue.
type SBCT11 struct {
	EQ   *EventQueue
	RAM  *Memory
	ROM  *Memory
	IO   *DeviceMap
	MC   *MemCtl
	Bus  *Bus
	Ints *InterruptController
	CPU  *DCT11
	SLU0 *SLU
	SLU1 *SLU
	Tape *TU58

	cfg Config
}

// New wires the board. The RAM bank under the I/O page is write only so
// unmapped I/O reads float ones; ROM ignores writes. The console wire is
// left unconnected for the front end to claim.
func New(cfg Config) (*SBCT11, error) {
	m := &SBCT11{
		EQ:   &EventQueue{},
		IO:   NewDeviceMap(),
		MC:   NewMemCtl(),
		Ints: NewInterruptController(),
		cfg:  cfg,
	}
	m.RAM = NewMemory("ram", MemRead|MemWrite)
	m.RAM.SetFlags(IOBase, 0177777, MemWrite|MemIO)
	m.ROM = NewMemory("rom", MemRead)
	m.ROM.Fill(0, 0177777, 0377) // erased EPROM reads ones
	m.Bus = NewBus(m.RAM, m.ROM, m.IO, m.MC)
	m.CPU = NewDCT11(m.Bus, m.EQ, m.Ints)
	m.Bus.SetCPU(m.CPU)

	m.SLU0 = NewSLU("slu0", SLU0Base, cfg.ConsoleRate, m.EQ)
	m.SLU0.SetInterrupts(
		m.Ints.Channel(IntConsoleRx, IntLevel, "slu0 rx"),
		m.Ints.Channel(IntConsoleTx, IntLevel, "slu0 tx"),
	)
	m.SLU1 = NewSLU("slu1", SLU1Base, cfg.TapeRate, m.EQ)
	m.SLU1.SetInterrupts(
		m.Ints.Channel(IntTapeRx, IntLevel, "slu1 rx"),
		m.Ints.Channel(IntTapeTx, IntLevel, "slu1 tx"),
	)
	m.Tape = NewTU58(m.EQ, m.SLU1)
	m.SLU1.SetWire(m.Tape)

	for _, d := range []Device{m.MC, m.SLU0, m.SLU1} {
		if err := m.IO.Install(d); err != nil {
			return nil, fmt.Errorf("sbct11: %w", err)
		}
	}
	return m, nil
}

// PowerUp runs the power on sequence: the memory map and NXM logic come
// up clear, every device resets, the tape drive starts its self test, and
// the processor samples the mode register.
func (m *SBCT11) PowerUp() {
	m.MC.PowerClear()
	m.Ints.ClearAll()
	m.IO.BusClear()
	m.Tape.PowerClear()
	m.CPU.PowerUp(m.cfg.Mode, m.cfg.ClockHz)
}

// Run executes until a stop condition, or until limit instructions have
// retired if limit is nonzero.
func (m *SBCT11) Run(limit uint64) StopCode { return m.CPU.Run(limit) }

// Step executes one instruction, ignoring a breakpoint at the current PC.
func (m *SBCT11) Step() StopCode { return m.CPU.Step() }

// Load stores words at consecutive addresses, bypassing the memory map
// protections.
func (m *SBCT11) Load(a uint16, words ...uint16) {
	for i, w := range words {
		m.Bus.UIWriteWord(a+uint16(2*i), w)
	}
}
