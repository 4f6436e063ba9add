// sbct11 simulates the Spare Time Gizmos SBCT11 single board computer.
package main

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/SpareTimeGizmos/sbct11"
)

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"1" help:"power up the board and run"`
	}

	ctx := kong.Parse(&cli)
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type runCmd struct {
	ROM       string `name:"rom" type:"existingfile" help:"EPROM image: intel hex, absolute loader or raw binary"`
	RAM       string `name:"ram" type:"existingfile" help:"RAM image loaded before the run"`
	Base      string `name:"base" default:"0" help:"load address for raw RAM images (octal)"`
	Tape      string `name:"tape" type:"existingfile" help:"TU58 cartridge image for unit 0"`
	WriteLock bool   `name:"writelock" help:"mount the tape write locked"`
	Mode      string `name:"mode" default:"0160000" help:"mode register straps (octal)"`
	Clock     uint64 `name:"clock" default:"7372800" help:"crystal frequency in Hz"`
	Limit     uint64 `name:"limit" help:"stop after this many instructions"`
	Log       string `name:"log" default:"warn" enum:"trace,debug,info,warn,error" help:"log level"`
	Profile   bool   `name:"profile" help:"write a cpu profile to the current directory"`
}

func (r *runCmd) Run(ctx *kong.Context) error {
	level, err := log.ParseLevel(r.Log)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if r.Profile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	mode, err := strconv.ParseUint(r.Mode, 8, 16)
	if err != nil {
		return fmt.Errorf("bad mode register %q: %w", r.Mode, err)
	}
	base, err := strconv.ParseUint(r.Base, 8, 16)
	if err != nil {
		return fmt.Errorf("bad base address %q: %w", r.Base, err)
	}

	cfg := sbct11.DefaultConfig()
	cfg.Mode = uint16(mode)
	cfg.ClockHz = r.Clock
	m, err := sbct11.New(cfg)
	if err != nil {
		return err
	}
	if r.ROM != "" {
		if _, err := sbct11.LoadFile(m.ROM, r.ROM, 0); err != nil {
			return err
		}
	}
	if r.RAM != "" {
		if _, err := sbct11.LoadFile(m.RAM, r.RAM, uint16(base)); err != nil {
			return err
		}
	}
	if r.Tape != "" {
		if err := m.Tape.Attach(0, r.Tape, r.WriteLock); err != nil {
			return err
		}
		defer func() {
			if err := m.Tape.Detach(0); err != nil {
				log.WithError(err).Error("tape detach")
			}
		}()
	}

	m.PowerUp()
	con, err := newConsole(m)
	if err != nil {
		return err
	}
	defer con.Close()
	con.Start()

	stop := m.Run(r.Limit)
	con.Close()
	fmt.Printf("\n%s\n%s\n", stop, m.CPU.State())
	return nil
}
