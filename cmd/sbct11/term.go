package main

import (
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// rawTerminal remembers the terminal settings that were in force before
// the console took over, so they can be put back on exit.
type rawTerminal struct {
	fd    uintptr
	saved unix.Termios
}

// makeRaw switches the terminal into raw mode so single keystrokes reach
// the simulated SLU without line editing. Output post-processing is kept
// on; the firmware emits bare newlines.
func makeRaw(fd uintptr) (*rawTerminal, error) {
	t := &rawTerminal{fd: fd}
	if err := termios.Tcgetattr(fd, &t.saved); err != nil {
		return nil, err
	}
	raw := t.saved
	termios.Cfmakeraw(&raw)
	raw.Oflag |= unix.OPOST | unix.ONLCR
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		return nil, err
	}
	return t, nil
}

// Restore puts the saved settings back.
func (t *rawTerminal) Restore() error {
	return termios.Tcsetattr(t.fd, termios.TCSANOW, &t.saved)
}
