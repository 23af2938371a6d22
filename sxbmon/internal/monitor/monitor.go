// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor formats commands for the SXB board monitors and reads
// their replies. Two dialects exist: the W65C265SXB menu monitor addresses
// registers with |-prefixed commands and takes 24-bit addresses, the
// W65C134SXB monitor uses fixed-column A commands and 16-bit addresses.
package monitor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Mode selects the board dialect.
type Mode int

const (
	Mode265 Mode = iota // W65C265SXB, 16/24-bit
	Mode134             // W65C134SXB, 8-bit
)

func (m Mode) String() string {
	if m == Mode134 {
		return "134"
	}
	return "265"
}

// Reg names a CPU register of the target board.
type Reg int

const (
	RegPC Reg = iota
	RegA
	RegX
	RegY
	RegSP
	RegDP // 265 only
	RegSR
	RegDB // 265 only
)

// Channel is the serial link slice a Session needs.
type Channel interface {
	WriteAll(b []byte) error
	DrainEcho(buf []byte) int
}

// Session issues monitor commands over one serial channel.
type Session struct {
	Ch   Channel
	Mode Mode

	echo [4096]byte
}

func (s *Session) send(str string) error {
	return s.Ch.WriteAll([]byte(str))
}

// SetReg writes one register and asks the monitor to redisplay the register
// set (the trailing R command).
func (s *Session) SetReg(r Reg, v int) error {
	if v < 0 {
		v = 0
	}
	var cmd string
	if s.Mode == Mode265 {
		switch r {
		case RegPC:
			cmd = fmt.Sprintf("|P%02X:%04X", v>>16, v&0xFFFF)
		case RegA:
			cmd = fmt.Sprintf("|A%04X", v)
		case RegX:
			cmd = fmt.Sprintf("|X%04X", v)
		case RegY:
			cmd = fmt.Sprintf("|Y%04X", v)
		case RegSP:
			cmd = fmt.Sprintf("|S%04X", v)
		case RegDP:
			cmd = fmt.Sprintf("|D%04X", v)
		case RegSR:
			cmd = fmt.Sprintf("|F%02X", v)
		case RegDB:
			cmd = fmt.Sprintf("|B%02X", v)
		}
	} else {
		// The 134 monitor edits registers positionally: one A command with
		// the value in the register's display column.
		switch r {
		case RegPC:
			cmd = fmt.Sprintf("A%04X     ", v&0xFFFF)
		case RegSR:
			cmd = fmt.Sprintf("A %02X    ", v&0xFF)
		case RegA:
			cmd = fmt.Sprintf("A  %02X   ", v)
		case RegX:
			cmd = fmt.Sprintf("A   %02X  ", v)
		case RegY:
			cmd = fmt.Sprintf("A    %02X ", v)
		case RegSP:
			cmd = fmt.Sprintf("A     %02X", v)
		}
	}
	if cmd == "" {
		return errors.Errorf("register not available on the %s", s.Mode)
	}
	if err := s.send(cmd); err != nil {
		return err
	}
	return s.send("R")
}

// Regs asks the monitor for its register display and returns the reply
// filtered to the characters a register line consists of.
func (s *Session) Regs() (string, error) {
	cmd := "| "
	if s.Mode == Mode134 {
		cmd = "R"
	}
	if err := s.send(cmd); err != nil {
		return "", err
	}
	n := s.Ch.DrainEcho(s.echo[:])
	return filterResult(s.echo[:n]), nil
}

// JumpLong jumps to addr without return (monitor G command).
func (s *Session) JumpLong(addr int) error {
	return s.jump("G", addr)
}

// CallSub calls addr as a subroutine (monitor J command).
func (s *Session) CallSub(addr int) error {
	return s.jump("J", addr)
}

func (s *Session) jump(cmd string, addr int) error {
	if addr < 0 {
		addr = 0
	}
	if err := s.send(cmd); err != nil {
		return err
	}
	if s.Mode == Mode265 {
		return s.send(fmt.Sprintf("%02X%04X", addr>>16, addr&0xFFFF))
	}
	return s.send(fmt.Sprintf("%04X", addr&0xFFFF))
}

// Dump asks the monitor for a 256 byte memory dump starting at addr and
// returns a header line for the local console. The dump text itself arrives
// through the regular echo drain.
func (s *Session) Dump(addr int) (string, error) {
	if addr < 0 {
		addr = 0
	}
	to := addr + 0xFF
	head := fmt.Sprintf("\nMemory dump from %02X:%04X - %02X:%04X\n",
		addr>>16, addr&0xFFFF, to>>16, to&0xFFFF)
	if err := s.send("D"); err != nil {
		return "", err
	}
	if s.Mode == Mode265 {
		if err := s.send(fmt.Sprintf("%02X%04X", addr>>16, addr&0xFFFF)); err != nil {
			return "", err
		}
		if err := s.send(fmt.Sprintf("%02X%04X\n", to>>16, to&0xFFFF)); err != nil {
			return "", err
		}
	} else {
		if err := s.send(fmt.Sprintf("%04X%04X", addr&0xFFFF, to&0xFFFF)); err != nil {
			return "", err
		}
	}
	return head, nil
}

// filterResult keeps digits, upper-case letters and spaces, the alphabet of
// a monitor register line.
func filterResult(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c == ' ' {
			out = append(out, c)
		}
	}
	return string(out)
}
