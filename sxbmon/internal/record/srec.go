// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

// nextSrec reads the next S-Record line. Only S1 and S2 carry data for the
// uploader; S0 headers are skipped and any other type ends the file, which
// is how S7/S8/S9 termination records take effect. The raw count is reduced
// by the address and checksum width so it names the payload length alone; a
// reduced count of zero or less also ends the file.
func (s *Scanner) nextSrec() (Event, error) {
	for {
		c0, err := s.r.ReadByte()
		if err != nil {
			return Event{Kind: EndOfFile}, nil
		}
		if c0 == '\r' || c0 == '\n' {
			continue
		}
		c1, err := s.r.ReadByte()
		if err != nil {
			return Event{Kind: EndOfFile}, nil
		}
		code := int(c1) - '0'
		if c0 != 'S' || code < 0 || code > 2 {
			return Event{Kind: EndOfFile}, nil
		}
		count, err := s.hexField(2)
		if err != nil {
			return Event{}, err
		}
		n := int(count)
		switch code {
		case 1:
			n -= 3 // 2 address bytes + checksum
		case 2:
			n -= 4 // 3 address bytes + checksum
		}
		if n <= 0 {
			return Event{Kind: EndOfFile}, nil
		}
		if code == 0 {
			s.skipLine()
			continue
		}
		digits := 4
		if code == 2 {
			digits = 6
		}
		addr, err := s.hexField(digits)
		if err != nil {
			return Event{}, err
		}
		p, err := s.payload(n)
		if err != nil {
			return Event{}, err
		}
		s.skipLine() // trailing checksum is discarded
		s.latchStart(addr)
		return Event{Kind: DataBlock, Addr: addr, Payload: p}, nil
	}
}
