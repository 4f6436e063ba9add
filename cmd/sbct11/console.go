package main

import (
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/SpareTimeGizmos/sbct11"
)

// stopKey is control-E, the key that stops a run and returns to the host.
const stopKey = 0x05

// console couples the board's first serial line to the controlling
// terminal: keystrokes feed the SLU receive queue, transmitted bytes go to
// stdout. It is the one piece of the simulator that runs off the
// simulation goroutine.
type console struct {
	m     *sbct11.SBCT11
	raw   *rawTerminal
	close sync.Once
}

func newConsole(m *sbct11.SBCT11) (*console, error) {
	c := &console{m: m}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := makeRaw(os.Stdin.Fd())
		if err != nil {
			return nil, err
		}
		c.raw = raw
	}
	m.SLU0.SetWire(c)
	return c, nil
}

// Start begins forwarding keystrokes. The reader goroutine blocks in the
// stdin read; it touches only the SLU byte queue and the stop flag, so it
// needs no synchronisation with the simulation.
func (c *console) Start() {
	go func() {
		var buf [1]byte
		for {
			n, err := os.Stdin.Read(buf[:])
			if err != nil {
				return
			}
			if n == 1 {
				if buf[0] == stopKey {
					c.m.CPU.RequestStop()
					continue
				}
				c.m.SLU0.QueueInput(buf[0])
			}
		}
	}()
}

// WireByte receives one transmitted byte from the SLU.
func (c *console) WireByte(b byte) {
	os.Stdout.Write([]byte{b})
}

// WireBreak receives a transmitted break condition; a terminal has nothing
// useful to do with it.
func (c *console) WireBreak() {}

// Close restores the terminal. Safe to call more than once.
func (c *console) Close() {
	c.close.Do(func() {
		if c.raw != nil {
			c.raw.Restore()
		}
	})
}
