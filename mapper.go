package sbct11

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Select is the chip select outcome for one address.
type Select int

const (
	SelRAM Select = iota
	SelROM
	SelNXM
	SelIO
)

func (s Select) String() string {
	switch s {
	case SelRAM:
		return "RAM"
	case SelROM:
		return "ROM"
	case SelNXM:
		return "NXM"
	case SelIO:
		return "IO"
	}
	return fmt.Sprintf("Select(%d)", int(s))
}

// IOBase is the bottom of the I/O page.
const IOBase = 0176400

// ChipSelect reproduces the board's address decoding GAL. The scratchpad
// RAM at the bottom and the I/O page at the top are fixed; the big middle
// window flips between EPROM and RAM under the RAM mode bit. The window
// at 0170000 covers the EPROM copy of the restart firmware; in RAM mode
// with NXM testing enabled it is deliberately empty so the firmware can
// probe it.
func ChipSelect(a uint16, ram, nxe bool) Select {
	switch {
	case a < 0002000:
		return SelRAM
	case a < 0170000:
		if ram {
			return SelRAM
		}
		return SelROM
	case a < 0170400:
		if ram && nxe {
			return SelNXM
		}
		return SelROM
	case a < 0176000:
		return SelROM
	case a < IOBase:
		return SelRAM
	default:
		return SelIO
	}
}

// MemCtlBase is the address of the memory control register pair.
const MemCtlBase = 0177572

// MemCtl is the memory mapping control device: the RAM mode bit at offset
// 0 and the NXE enable plus sticky NXM latch at offset 2. The mode bits
// survive a bus clear; only a power cycle resets them, which lets the
// firmware RESET the I/O devices without losing its memory map.
type MemCtl struct {
	ram bool
	nxe bool
	nxm bool
}

func NewMemCtl() *MemCtl { return &MemCtl{} }

func (mc *MemCtl) Name() string   { return "memctl" }
func (mc *MemCtl) Base() uint16   { return MemCtlBase }
func (mc *MemCtl) Registers() int { return 2 }

func (mc *MemCtl) DevRead(off uint16) uint16 {
	switch off {
	case 0:
		r := uint16(0xFFFF) &^ 0100
		if mc.ram {
			r |= 0100
		}
		return r
	case 2:
		r := uint16(0xFFFF) &^ (0100 | 0200)
		if mc.nxe {
			r |= 0100
		}
		if mc.nxm {
			r |= 0200
		}
		return r
	}
	return 0xFFFF
}

func (mc *MemCtl) DevWrite(off uint16, w uint16) {
	switch off {
	case 0:
		mc.ram = w&0100 != 0
	case 2:
		mc.nxe = w&0100 != 0
		if !mc.nxe {
			mc.nxm = false
		}
	}
}

// Reset is a no-op: the map must not change under the RESET instruction.
func (mc *MemCtl) Reset() {}

func (mc *MemCtl) OnEvent(token int) {}

// PowerClear returns the controller to the power on state: ROM mode, NXM
// testing off, latch clear.
func (mc *MemCtl) PowerClear() {
	mc.ram = false
	mc.nxe = false
	mc.nxm = false
}

func (mc *MemCtl) RAMMode() bool { return mc.ram }
func (mc *MemCtl) NXE() bool     { return mc.nxe }
func (mc *MemCtl) NXM() bool     { return mc.nxm }

// trapNXM latches the sticky NXM bit. It reports true only on the first
// fault after the latch was clear, so the CPU sees one halt request per
// probe.
func (mc *MemCtl) trapNXM() bool {
	if !mc.nxe || mc.nxm {
		return false
	}
	mc.nxm = true
	return true
}

// Bus glues the CPU to the two memory banks and the I/O page. It owns the
// chip select decision on every access and applies the NXM policy. The
// cpu field is a one way back reference, set once at wiring time, used
// only to request HALT and to flag illegal I/O stops.
type Bus struct {
	ram *Memory
	rom *Memory
	io  *DeviceMap
	mc  *MemCtl
	cpu *DCT11
}

func NewBus(ram, rom *Memory, io *DeviceMap, mc *MemCtl) *Bus {
	return &Bus{ram: ram, rom: rom, io: io, mc: mc}
}

// SetCPU installs the back reference used for NXM halt requests.
func (b *Bus) SetCPU(cpu *DCT11) { b.cpu = cpu }

// Select resolves the chip select for one address under the current map.
func (b *Bus) Select(a uint16) Select {
	return ChipSelect(a, b.mc.ram, b.mc.nxe)
}

// ReadByte is the CPU byte read path.
func (b *Bus) ReadByte(a uint16) byte {
	switch b.Select(a) {
	case SelRAM:
		return b.ram.ReadByte(a)
	case SelROM:
		return b.rom.ReadByte(a)
	case SelNXM:
		b.nxmFault(a)
		return 0377
	default:
		w := b.readIO(a &^ 1)
		if a&1 != 0 {
			return byte(w >> 8)
		}
		return byte(w)
	}
}

// WriteByte is the CPU byte write path. Byte writes into the I/O page
// widen to a read modify write of the containing register.
func (b *Bus) WriteByte(a uint16, v byte) {
	switch b.Select(a) {
	case SelRAM:
		b.ram.WriteByte(a, v)
	case SelROM:
		b.rom.WriteByte(a, v)
	case SelNXM:
		b.nxmFault(a)
	default:
		if d, ok := b.io.Find(a); ok {
			off := (a &^ 1) - d.Base()
			w := d.DevRead(off)
			if a&1 != 0 {
				w = w&0x00FF | uint16(v)<<8
			} else {
				w = w&0xFF00 | uint16(v)
			}
			d.DevWrite(off, w)
			return
		}
		b.illegalIO(a, true)
		b.ram.WriteByte(a, v)
	}
}

// ReadWord is the CPU word read path. Odd addresses round down.
func (b *Bus) ReadWord(a uint16) uint16 {
	a &^= 1
	switch b.Select(a) {
	case SelRAM:
		return b.ram.ReadWord(a)
	case SelROM:
		return b.rom.ReadWord(a)
	case SelNXM:
		b.nxmFault(a)
		return 0177777
	default:
		return b.readIO(a)
	}
}

// WriteWord is the CPU word write path. Odd addresses round down.
func (b *Bus) WriteWord(a uint16, w uint16) {
	a &^= 1
	switch b.Select(a) {
	case SelRAM:
		b.ram.WriteWord(a, w)
	case SelROM:
		b.rom.WriteWord(a, w)
	case SelNXM:
		b.nxmFault(a)
	default:
		if d, ok := b.io.Find(a); ok {
			d.DevWrite(a-d.Base(), w)
			return
		}
		b.illegalIO(a, true)
		b.ram.WriteWord(a, w)
	}
}

func (b *Bus) readIO(a uint16) uint16 {
	if d, ok := b.io.Find(a); ok {
		return d.DevRead(a - d.Base())
	}
	b.illegalIO(a, false)
	return b.ram.ReadWord(a)
}

// illegalIO handles an I/O page address no device claims. It behaves as
// non-existent memory, and the access falls through to the RAM chip
// behind the I/O page: reads float because that range carries no read
// flag, writes land in RAM where the console can dig them out.
func (b *Bus) illegalIO(a uint16, write bool) {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"address": fmt.Sprintf("%06o", a),
			"write":   write,
		}).Debug("unmapped i/o access")
	}
	b.nxmFault(a)
	if b.cpu != nil {
		b.cpu.illegalIO(a)
	}
}

func (b *Bus) nxmFault(a uint16) {
	if b.mc.trapNXM() {
		log.WithField("address", fmt.Sprintf("%06o", a)).Debug("nxm latched, requesting halt")
		if b.cpu != nil {
			b.cpu.RequestHalt()
		}
	}
}

// UIReadWord and friends are the console and loader paths: they resolve
// the chip select but skip devices and side effects entirely. I/O page
// and NXM addresses land on the RAM chip underneath.
func (b *Bus) UIReadWord(a uint16) uint16 {
	if b.Select(a) == SelROM {
		return b.rom.UIReadWord(a)
	}
	return b.ram.UIReadWord(a)
}

func (b *Bus) UIWriteWord(a uint16, w uint16) {
	if b.Select(a) == SelROM {
		b.rom.UIWriteWord(a, w)
		return
	}
	b.ram.UIWriteWord(a, w)
}

func (b *Bus) UIReadByte(a uint16) byte {
	if b.Select(a) == SelROM {
		return b.rom.UIReadByte(a)
	}
	return b.ram.UIReadByte(a)
}

func (b *Bus) UIWriteByte(a uint16, v byte) {
	if b.Select(a) == SelROM {
		b.rom.UIWriteByte(a, v)
		return
	}
	b.ram.UIWriteByte(a, v)
}

// SetBreak arms a breakpoint on whichever bank currently serves a.
func (b *Bus) SetBreak(a uint16) {
	if b.Select(a) == SelROM {
		b.rom.SetBreak(a)
		return
	}
	b.ram.SetBreak(a)
}

// ClearBreak disarms a breakpoint on whichever bank currently serves a.
func (b *Bus) ClearBreak(a uint16) {
	if b.Select(a) == SelROM {
		b.rom.ClearBreak(a)
		return
	}
	b.ram.ClearBreak(a)
}

// TestBreak reports whether a breakpoint is armed at a under the current
// map.
func (b *Bus) TestBreak(a uint16) bool {
	switch b.Select(a) {
	case SelROM:
		return b.rom.TestBreak(a)
	case SelRAM:
		return b.ram.TestBreak(a)
	}
	return false
}

// BusClear resets every I/O device. The memory map is left alone.
func (b *Bus) BusClear() { b.io.BusClear() }
