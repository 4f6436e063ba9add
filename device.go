package sbct11

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Device is anything that decodes a window of word registers in the I/O
// page. Offsets handed to DevRead and DevWrite are byte offsets from Base
// and always even; byte sized CPU accesses are widened by the bus.
type Device interface {
	EventHandler
	Name() string
	Base() uint16
	Registers() int
	DevRead(off uint16) uint16
	DevWrite(off uint16, w uint16)
	Reset()
}

// DeviceMap routes I/O page addresses to the devices that own them.
type DeviceMap struct {
	byAddr map[uint16]Device
	devs   []Device
}

func NewDeviceMap() *DeviceMap {
	return &DeviceMap{byAddr: make(map[uint16]Device)}
}

// Install claims the device's register window. Overlapping an already
// installed device is an error.
func (dm *DeviceMap) Install(d Device) error {
	base := d.Base()
	if base&1 != 0 {
		return fmt.Errorf("install %s: odd base address %06o", d.Name(), base)
	}
	for i := 0; i < d.Registers(); i++ {
		a := base + uint16(2*i)
		if other, ok := dm.byAddr[a]; ok {
			return fmt.Errorf("install %s: address %06o already owned by %s", d.Name(), a, other.Name())
		}
	}
	for i := 0; i < d.Registers(); i++ {
		dm.byAddr[base+uint16(2*i)] = d
	}
	dm.devs = append(dm.devs, d)
	log.WithFields(log.Fields{
		"device":    d.Name(),
		"base":      fmt.Sprintf("%06o", base),
		"registers": d.Registers(),
	}).Debug("device installed")
	return nil
}

// Find returns the device owning address a, if any.
func (dm *DeviceMap) Find(a uint16) (Device, bool) {
	d, ok := dm.byAddr[a&^1]
	return d, ok
}

// BusClear resets every installed device. The RESET instruction and the
// power up sequence both land here.
func (dm *DeviceMap) BusClear() {
	for _, d := range dm.devs {
		d.Reset()
	}
}

// Devices returns the installed devices in installation order.
func (dm *DeviceMap) Devices() []Device { return dm.devs }
