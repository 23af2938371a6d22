// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package record parses Intel HEX and Motorola S-Record program images into
// a stream of upload events and re-encodes data blocks in the S-Record
// dialect accepted by the SXB board monitors (S2 data records, S8
// terminator).
package record

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format selects the input dialect.
type Format int

const (
	IntelHex Format = iota
	SRecord
)

// ErrUnknownFormat is returned by FormatForPath for file extensions other
// than .hex and .srec.
var ErrUnknownFormat = errors.New("unsupported file format")

// ErrMalformed wraps every parse failure: truncated records, bad hex digits,
// EOF in the middle of a field.
var ErrMalformed = errors.New("malformed record")

// FormatForPath selects the input format from the file extension,
// case-insensitively.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".hex":
		return IntelHex, nil
	case ".srec":
		return SRecord, nil
	}
	return 0, errors.Wrapf(ErrUnknownFormat, "%q", ext)
}

// Kind discriminates upload events.
type Kind int

const (
	// SetSegment announces new upper 16 address bits (Intel HEX type 04).
	SetSegment Kind = iota
	// DataBlock carries payload bytes at a 24-bit address.
	DataBlock
	// EndOfFile ends the event stream.
	EndOfFile
)

// Event is one normalized upload event. DataBlock events never carry an
// empty payload.
type Event struct {
	Kind    Kind
	Segment uint16 // SetSegment
	Addr    uint32 // DataBlock, 24-bit
	Payload []byte // DataBlock, 1..255 bytes
}

// Scanner reads one program image and produces upload events in file order.
type Scanner struct {
	r         *bufio.Reader
	format    Format
	segment   uint16
	start     uint32
	haveStart bool
	done      bool
}

func NewScanner(r io.Reader, format Format) *Scanner {
	return &Scanner{r: bufio.NewReader(r), format: format}
}

// Start reports the address of the first data block seen. It is latched once
// and meant to be read after the event stream ends.
func (s *Scanner) Start() (uint32, bool) {
	return s.start, s.haveStart
}

// Next returns the next upload event. After an EndOfFile event or an error
// every further call returns EndOfFile again.
func (s *Scanner) Next() (Event, error) {
	if s.done {
		return Event{Kind: EndOfFile}, nil
	}
	var ev Event
	var err error
	if s.format == IntelHex {
		ev, err = s.nextHex()
	} else {
		ev, err = s.nextSrec()
	}
	if err != nil || ev.Kind == EndOfFile {
		s.done = true
	}
	return ev, err
}

func (s *Scanner) latchStart(addr uint32) {
	if !s.haveStart {
		s.start = addr
		s.haveStart = true
	}
}

// hexField reads the given number of ASCII hex digits as one big-endian
// value.
func (s *Scanner) hexField(digits int) (uint32, error) {
	var v uint32
	for i := 0; i < digits; i++ {
		c, err := s.r.ReadByte()
		if err != nil {
			return 0, errors.Wrap(ErrMalformed, "truncated record")
		}
		d, ok := unhex(c)
		if !ok {
			return 0, errors.Wrapf(ErrMalformed, "bad hex digit %q", c)
		}
		v = v<<4 | uint32(d)
	}
	return v, nil
}

func (s *Scanner) payload(n int) ([]byte, error) {
	p := make([]byte, n)
	for i := range p {
		v, err := s.hexField(2)
		if err != nil {
			return nil, err
		}
		p[i] = byte(v)
	}
	return p, nil
}

// skipLine discards input up to and including the next newline, giving up
// after 256 bytes.
func (s *Scanner) skipLine() {
	for i := 0; i < 256; i++ {
		c, err := s.r.ReadByte()
		if err != nil || c == '\n' {
			return
		}
	}
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
