// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package term is the interactive monitor terminal. Typed bytes go straight
// to the board; monitor echoes are drained every 100 ms and appended to the
// screen. A tilde at the start of a line opens a local command (cu-style):
// upload, registers, jumps, memory dump, dialect switch, quit.
package term

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matishsiao/goInfo"
	"github.com/spf13/afero"

	"github.com/wdctools/sxbmon/sxbmon/internal/console"
	"github.com/wdctools/sxbmon/sxbmon/internal/monitor"
	"github.com/wdctools/sxbmon/sxbmon/internal/port"
	"github.com/wdctools/sxbmon/sxbmon/internal/upload"
	"github.com/wdctools/sxbmon/sxbmon/internal/util"
)

const Descr = "interactive terminal connected to the board monitor"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  term [OPTIONS]\nOptions:\n")
		fs.PrintDefaults()
	}
	dev := fs.String(
		"port", "/dev/ttyUSB0",
		"serial `device` connected to the board",
	)
	mode := fs.String(
		"mode", "265",
		"board `monitor` dialect: 265 or 134",
	)
	hw := fs.Bool(
		"rtscts", false,
		"request RTS/CTS hardware flow control",
	)
	fs.Parse(args[1:])

	m, err := parseMode(*mode)
	if err != nil {
		util.Fatal("%v", err)
	}

	if gi, err := goInfo.GetInfo(); err == nil {
		fmt.Printf("sxbmon on %s %s\n", gi.GoOS, gi.Core)
	}

	p, err := port.Open(*dev, *hw)
	util.FatalErr("open port", err)
	defer p.Close()

	con, err := console.New()
	util.FatalErr("console", err)
	defer con.Close()

	con.Append("\n>> Connected to SXB at 9600 baud.\n\n")
	con.Append(">> Type ~? at the start of a line for local commands.\n")

	sess := &monitor.Session{Ch: p, Mode: m}
	run(con, p, sess)
	con.Append("\n>> Connection Closed.\n")
}

func parseMode(s string) (monitor.Mode, error) {
	switch s {
	case "265":
		return monitor.Mode265, nil
	case "134":
		return monitor.Mode134, nil
	}
	return 0, fmt.Errorf("unknown mode %q, want 265 or 134", s)
}

func run(con *console.Console, p *port.Port, sess *monitor.Session) {
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	echo := make([]byte, 4096)
	var cmdline []byte
	inCmd := false
	atBOL := true
	for {
		select {
		case k, ok := <-con.Keys():
			if !ok {
				return
			}
			switch {
			case inCmd:
				switch k {
				case '\r', '\n':
					con.Append("\n")
					if !command(con, p, sess, string(cmdline)) {
						return
					}
					inCmd, cmdline = false, cmdline[:0]
					atBOL = true
				case 0x08, 0x7F:
					if len(cmdline) > 0 {
						cmdline = cmdline[:len(cmdline)-1]
						con.Append("\b \b")
					}
				default:
					cmdline = append(cmdline, k)
					con.Append(string(k))
				}
			case k == '~' && atBOL:
				inCmd = true
				con.Append("~")
			default:
				if err := p.WriteAll([]byte{k}); err != nil {
					con.Append("\n>> " + err.Error() + "\n")
					return
				}
				atBOL = k == '\r' || k == '\n'
			}
		case <-tick.C:
			if n := p.DrainEcho(echo); n > 0 {
				con.Append(string(echo[:n]))
			}
		}
	}
}

// command executes one tilde command line. It returns false when the
// session should end.
func command(con *console.Console, p *port.Port, sess *monitor.Session, line string) bool {
	f := strings.Fields(line)
	if len(f) == 0 {
		return true
	}
	switch f[0] {
	case "q":
		return false
	case "?":
		con.Append(helpText)
	case "u":
		if len(f) != 2 {
			con.Append(">> usage: ~u FILE\n")
			break
		}
		if err := upload.Run(afero.NewOsFs(), f[1], p, con); err != nil {
			con.Append(">> " + err.Error() + "\n")
		}
	case "r":
		regs, err := sess.Regs()
		if err != nil {
			con.Append(">> " + err.Error() + "\n")
			break
		}
		con.Append(regs + "\n")
	case "g", "j":
		addr, ok := cmdAddr(con, f)
		if !ok {
			break
		}
		var err error
		if f[0] == "g" {
			err = sess.JumpLong(addr)
		} else {
			err = sess.CallSub(addr)
		}
		if err != nil {
			con.Append(">> " + err.Error() + "\n")
		}
	case "d":
		addr, ok := cmdAddr(con, f)
		if !ok {
			break
		}
		head, err := sess.Dump(addr)
		if err != nil {
			con.Append(">> " + err.Error() + "\n")
			break
		}
		con.Append(head)
	case "m":
		m, err := parseMode(strings.Join(f[1:], ""))
		if err != nil {
			con.Append(">> usage: ~m 265|134\n")
			break
		}
		sess.Mode = m
	default:
		con.Append(">> unknown command, ~? for help\n")
	}
	return true
}

// cmdAddr parses the hex address argument, falling back to the last
// reported upload start address when the argument is omitted.
func cmdAddr(con *console.Console, f []string) (int, bool) {
	if len(f) < 2 {
		if a, ok := con.StartAddress(); ok {
			return int(a), true
		}
		con.Append(">> usage: ~" + f[0] + " HEXADDR\n")
		return 0, false
	}
	v, err := strconv.ParseUint(f[1], 16, 24)
	if err != nil {
		con.Append(">> bad address " + f[1] + "\n")
		return 0, false
	}
	return int(v), true
}

const helpText = ">> ~u FILE  upload program (.hex/.srec), ESC cancels\n" +
	">> ~r       show registers\n" +
	">> ~g ADDR  long jump to address\n" +
	">> ~j ADDR  call address as subroutine\n" +
	">> ~d ADDR  dump 256 bytes of memory\n" +
	">> ~m MODE  monitor dialect, 265 or 134\n" +
	">> ~q       quit\n"
