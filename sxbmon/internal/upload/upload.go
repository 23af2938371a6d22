// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package upload streams a program image to the board monitor as S2 records.
//
// The driver runs the parser, the S2 encoder and the serial channel in a
// strict per-record sequence: write the encoded line, pace, drain the
// monitor's echo, forward it to the console. The cancel flag is polled
// between records only, so a started record always reaches the wire
// completely, and the S8 terminator is emitted on every exit path that
// touched the channel so the monitor ends up waiting for a command again.
package upload

import (
	"github.com/spf13/afero"

	"github.com/wdctools/sxbmon/sxbmon/internal/record"
)

// Console is the slice of the user interface the uploader needs.
type Console interface {
	Append(s string)
	Cancelled() bool
	ClearCancelled()
	SetStartAddress(addr uint32)
}

// Channel is the slice of the serial link the uploader needs.
type Channel interface {
	IsOpen() bool
	WriteAll(b []byte) error
	DrainEcho(buf []byte) int
}

// Kind classifies upload failures.
type Kind int

const (
	NotConnected Kind = iota + 1
	UnsupportedFormat
	OpenFailed
	ParseError
	IoError
)

func (k Kind) String() string {
	switch k {
	case NotConnected:
		return "not connected"
	case UnsupportedFormat:
		return "unsupported format"
	case OpenFailed:
		return "open failed"
	case ParseError:
		return "parse error"
	case IoError:
		return "i/o error"
	}
	return "unknown error"
}

// Error is the single failure variant returned by Run.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// echoCap bounds the per-record echo buffer.
const echoCap = 4096

// Run uploads the program image at path over ch, forwarding monitor echoes
// to ui. The input format is chosen by file extension (.hex or .srec). On
// return the monitor has seen the S8 terminator unless the failure happened
// before any channel I/O (NotConnected, UnsupportedFormat, OpenFailed).
// The first data record's address is reported through ui.SetStartAddress.
func Run(fsys afero.Fs, path string, ch Channel, ui Console) error {
	if !ch.IsOpen() {
		return &Error{Kind: NotConnected}
	}
	format, err := record.FormatForPath(path)
	if err != nil {
		return &Error{Kind: UnsupportedFormat, Err: err}
	}
	f, err := fsys.Open(path)
	if err != nil {
		return &Error{Kind: OpenFailed, Err: err}
	}
	defer f.Close()

	ui.Append("\n>> Uploading Program, ESC to cancel.\n")

	sc := record.NewScanner(f, format)
	echo := make([]byte, echoCap)
	var res *Error
	for {
		if ui.Cancelled() {
			ui.ClearCancelled()
			break
		}
		ev, err := sc.Next()
		if err != nil {
			res = &Error{Kind: ParseError, Err: err}
			break
		}
		if ev.Kind == record.EndOfFile {
			break
		}
		if ev.Kind != record.DataBlock {
			continue
		}
		line := record.EncodeS2(ev.Addr, ev.Payload)
		if err := ch.WriteAll([]byte(line)); err != nil {
			res = &Error{Kind: IoError, Err: err}
			break
		}
		n := ch.DrainEcho(echo)
		ui.Append(string(echo[:n]))
	}

	// Best effort, even after cancel or a failed write: the terminator is
	// what resynchronizes a monitor stuck expecting S-records.
	if err := ch.WriteAll([]byte(record.Terminator)); err != nil && res == nil {
		res = &Error{Kind: IoError, Err: err}
	}
	if start, ok := sc.Start(); ok {
		ui.SetStartAddress(start)
	}
	if res != nil {
		return res
	}
	return nil
}
