// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

// Intel HEX record types honored by the uploader. Any other type is skipped.
const (
	hexData          = 0x00
	hexLinearSegment = 0x04
)

// nextHex scans for the next ':' record. A record with count zero, or plain
// EOF between records, ends the file. The source checksum is never verified;
// it is recomputed when the block is re-encoded for the monitor.
func (s *Scanner) nextHex() (Event, error) {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return Event{Kind: EndOfFile}, nil
		}
		if c != ':' {
			continue
		}
		count, err := s.hexField(2)
		if err != nil {
			return Event{}, err
		}
		if count == 0 {
			return Event{Kind: EndOfFile}, nil
		}
		addr, err := s.hexField(4)
		if err != nil {
			return Event{}, err
		}
		code, err := s.hexField(2)
		if err != nil {
			return Event{}, err
		}
		switch code {
		case hexData:
			p, err := s.payload(int(count))
			if err != nil {
				return Event{}, err
			}
			s.skipLine()
			a := uint32(s.segment)<<16 | addr
			s.latchStart(a)
			return Event{Kind: DataBlock, Addr: a, Payload: p}, nil
		case hexLinearSegment:
			// The two data bytes select the upper 16 address bits for all
			// data records that follow.
			v, err := s.hexField(4)
			if err != nil {
				return Event{}, err
			}
			s.segment = uint16(v)
			s.skipLine()
			return Event{Kind: SetSegment, Segment: s.segment}, nil
		default:
			s.skipLine()
		}
	}
}
