// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package port drives the RS-232 link to the board monitor. The monitors on
// both SXB boards talk at 9600-8-N-1 and echo every byte they accept, so all
// reads here are echo drains paced to the monitor's response time.
package port

import (
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

const (
	chunkSize  = 256  // bytes per drain read
	drainLimit = 2048 // stop draining once this many bytes accumulated
)

// pace returns the settle time after n bytes crossed the wire.
func pace(n int) time.Duration {
	return time.Duration(20+n) * time.Millisecond
}

// Port is an open serial connection to the board.
type Port struct {
	p      serial.Port
	open   bool
	hwFlow bool
}

// Open opens the named device at 9600-8-N-1. The read timeout doubles as the
// idle detector for DrainEcho.
//
// TODO: honor hwFlow once go.bug.st/serial exposes RTS/CTS flow control;
// until then the request is recorded and the line runs without handshake.
func Open(name string, hwFlow bool) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	if err := p.SetReadTimeout(pace(0)); err != nil {
		p.Close()
		return nil, errors.Wrap(err, "read timeout")
	}
	return &Port{p: p, open: true, hwFlow: hwFlow}, nil
}

// IsOpen reports whether the port is usable.
func (p *Port) IsOpen() bool {
	return p != nil && p.open
}

// Close shuts the connection down. Closing a closed port is a no-op.
func (p *Port) Close() error {
	if !p.IsOpen() {
		return nil
	}
	p.open = false
	return p.p.Close()
}

// WriteAll writes b completely, then paces for roughly 20+len(b) ms so the
// monitor keeps up before the next read attempt.
func (p *Port) WriteAll(b []byte) error {
	total := len(b)
	for len(b) > 0 {
		n, err := p.p.Write(b)
		if err != nil {
			return errors.Wrap(err, "serial write")
		}
		b = b[n:]
	}
	time.Sleep(pace(total))
	return nil
}

// DrainEcho reads whatever the monitor has echoed into buf, in chunks of up
// to 256 bytes, stopping on an idle read or once more than 2048 bytes have
// accumulated. Carriage returns are normalized to newlines. It returns the
// number of bytes read.
func (p *Port) DrainEcho(buf []byte) int {
	pos := 0
	for pos < len(buf) {
		c := len(buf) - pos
		if c > chunkSize {
			c = chunkSize
		}
		n, err := p.p.Read(buf[pos : pos+c])
		if n > 0 {
			time.Sleep(pace(n))
		}
		if err != nil || n == 0 {
			break
		}
		pos += n
		if pos > drainLimit {
			break
		}
	}
	NormalizeCR(buf[:pos])
	return pos
}

// NormalizeCR rewrites carriage returns to newlines in place, so monitor
// output renders the same way everywhere downstream.
func NormalizeCR(b []byte) {
	for i, c := range b {
		if c == 13 {
			b[i] = '\n'
		}
	}
}
