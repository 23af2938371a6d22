// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package console implements the interactive terminal surface: raw-mode
// stdin, appended output and the cooperative cancel flag the uploader polls
// between records.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// Console is a raw-mode terminal. Typed bytes arrive on Keys; Esc is never
// forwarded, it sets the cancel flag instead.
type Console struct {
	out      io.Writer
	keys     chan byte
	cancel   atomic.Bool
	start    atomic.Int64 // last reported program start address, -1 = none
	oldState *term.State
}

// New switches stdin into raw mode and starts the key reader.
func New() (*Console, error) {
	st, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	c := &Console{out: os.Stdout, keys: make(chan byte, 64), oldState: st}
	c.start.Store(-1)
	go c.readKeys()
	return c, nil
}

// Close restores the terminal state.
func (c *Console) Close() {
	term.Restore(int(os.Stdin.Fd()), c.oldState)
}

func (c *Console) readKeys() {
	var b [1]byte
	for {
		n, err := os.Stdin.Read(b[:])
		if err != nil {
			close(c.keys)
			return
		}
		if n == 0 {
			continue
		}
		if b[0] == 0x1B {
			c.cancel.Store(true)
			continue
		}
		c.keys <- b[0]
	}
}

// Keys delivers typed bytes, Esc excluded. The channel closes when stdin
// does.
func (c *Console) Keys() <-chan byte {
	return c.keys
}

// Append writes s to the terminal, expanding newlines for raw mode.
func (c *Console) Append(s string) {
	io.WriteString(c.out, strings.ReplaceAll(s, "\n", "\r\n"))
}

func (c *Console) Cancelled() bool {
	return c.cancel.Load()
}

func (c *Console) ClearCancelled() {
	c.cancel.Store(false)
}

// SetStartAddress records and reports the uploaded program's first address.
func (c *Console) SetStartAddress(addr uint32) {
	c.start.Store(int64(addr))
	c.Append(fmt.Sprintf("\n>> Program start address %02X:%04X\n", addr>>16, addr&0xFFFF))
}

// StartAddress returns the last reported program start address; jumps
// default to it when no address argument is given.
func (c *Console) StartAddress() (uint32, bool) {
	v := c.start.Load()
	if v < 0 {
		return 0, false
	}
	return uint32(v), true
}

// Plain is the console surface for non-interactive commands: output goes to
// W verbatim and cancellation never fires.
type Plain struct {
	W     io.Writer
	Start uint32
	Have  bool
}

func (p *Plain) Append(s string) {
	io.WriteString(p.W, s)
}

func (p *Plain) Cancelled() bool { return false }

func (p *Plain) ClearCancelled() {}

func (p *Plain) SetStartAddress(addr uint32) {
	p.Start, p.Have = addr, true
}
