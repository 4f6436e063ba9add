package sbct11

// Memory access flags. Every byte of a bank carries its own set, so a bank
// can expose odd shaped windows (the I/O page carve outs, write only RAM
// under the break flag) without help from the address decoder.
const (
	MemRead  = 1 << 0 // CPU reads return stored data
	MemWrite = 1 << 1 // CPU writes stick
	MemIO    = 1 << 2 // address decodes to the I/O page
	MemBreak = 1 << 3 // debugger breakpoint
)

// MemorySize is the full 16 bit address space in bytes.
const MemorySize = 1 << 16

// Memory is one bank of the SBCT11 address space. The board carries two,
// a 64K RAM and a 64K EPROM, and the chip select logic decides which one
// answers a given address. Reads from a byte without MemRead float the
// bus, all ones. Writes to a byte without MemWrite are dropped.
type Memory struct {
	name  string
	data  []byte
	flags []byte
}

// NewMemory returns a bank with every byte carrying the given flags.
func NewMemory(name string, flags byte) *Memory {
	m := &Memory{
		name:  name,
		data:  make([]byte, MemorySize),
		flags: make([]byte, MemorySize),
	}
	for i := range m.flags {
		m.flags[i] = flags
	}
	return m
}

func (m *Memory) Name() string { return m.name }

// ReadByte performs a CPU read honoring the access flags.
func (m *Memory) ReadByte(a uint16) byte {
	if m.flags[a]&MemRead == 0 {
		return 0377
	}
	return m.data[a]
}

// WriteByte performs a CPU write honoring the access flags.
func (m *Memory) WriteByte(a uint16, b byte) {
	if m.flags[a]&MemWrite != 0 {
		m.data[a] = b
	}
}

// ReadWord reads a little endian word. Odd addresses round down; the T-11
// has no odd address trap.
func (m *Memory) ReadWord(a uint16) uint16 {
	a &^= 1
	return uint16(m.ReadByte(a)) | uint16(m.ReadByte(a+1))<<8
}

// WriteWord writes a little endian word, rounding odd addresses down.
func (m *Memory) WriteWord(a uint16, w uint16) {
	a &^= 1
	m.WriteByte(a, byte(w))
	m.WriteByte(a+1, byte(w>>8))
}

// UIReadByte reads stored data regardless of flags. Console and loader use
// the UI entry points so they can examine ROM shadowed RAM and the like.
func (m *Memory) UIReadByte(a uint16) byte { return m.data[a] }

// UIWriteByte stores regardless of flags.
func (m *Memory) UIWriteByte(a uint16, b byte) { m.data[a] = b }

// UIReadWord reads a little endian word regardless of flags.
func (m *Memory) UIReadWord(a uint16) uint16 {
	a &^= 1
	return uint16(m.data[a]) | uint16(m.data[a+1])<<8
}

// UIWriteWord stores a little endian word regardless of flags.
func (m *Memory) UIWriteWord(a uint16, w uint16) {
	a &^= 1
	m.data[a] = byte(w)
	m.data[a+1] = byte(w >> 8)
}

// Flags returns the access flags for one byte.
func (m *Memory) Flags(a uint16) byte { return m.flags[a] }

// SetFlags replaces the flags on the inclusive range [lo, hi].
func (m *Memory) SetFlags(lo, hi uint16, f byte) {
	for a := uint32(lo); a <= uint32(hi); a++ {
		m.flags[a] = f
	}
}

// SetBreak arms a breakpoint without disturbing the access bits.
func (m *Memory) SetBreak(a uint16) { m.flags[a] |= MemBreak }

// ClearBreak disarms a breakpoint.
func (m *Memory) ClearBreak(a uint16) { m.flags[a] &^= MemBreak }

// TestBreak reports whether a breakpoint is armed at a.
func (m *Memory) TestBreak(a uint16) bool { return m.flags[a]&MemBreak != 0 }

// ClearAllBreaks disarms every breakpoint in the bank.
func (m *Memory) ClearAllBreaks() {
	for i := range m.flags {
		m.flags[i] &^= MemBreak
	}
}

// FindNextBreak returns the first armed breakpoint at or above from.
func (m *Memory) FindNextBreak(from uint16) (uint16, bool) {
	for a := uint32(from); a < MemorySize; a++ {
		if m.flags[a]&MemBreak != 0 {
			return uint16(a), true
		}
	}
	return 0, false
}

// LoadRaw copies data into the bank at a, wrapping at the top of the
// address space, flags ignored.
func (m *Memory) LoadRaw(a uint16, data []byte) {
	for _, b := range data {
		m.data[a] = b
		a++
	}
}

// SaveRaw copies n bytes out of the bank starting at a, wrapping.
func (m *Memory) SaveRaw(a uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.data[a]
		a++
	}
	return out
}

// Fill stores b over the inclusive range [lo, hi], leaving flags alone.
func (m *Memory) Fill(lo, hi uint16, b byte) {
	for a := uint32(lo); a <= uint32(hi); a++ {
		m.data[a] = b
	}
}
