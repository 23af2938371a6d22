// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

// Terminator is the fixed record that ends every transfer and leaves the
// monitor waiting for a command again.
const Terminator = "S804000000FB\n"

// MaxPayload is the longest payload an S2 record can carry once the count
// byte accounts for the three address bytes and the checksum.
const MaxPayload = 0xFF - 4

// EncodeS2 renders one data block as an uppercase S2 line with a trailing
// checksum and newline. The address is truncated to 24 bits. The checksum is
// the ones' complement of the mod-256 sum over the count byte, the three
// address bytes and the payload.
func EncodeS2(addr uint32, payload []byte) string {
	b := make([]byte, 0, 12+2*len(payload))
	b = append(b, 'S', '2')
	sum := 0
	for _, v := range [4]byte{byte(len(payload) + 4), byte(addr >> 16), byte(addr >> 8), byte(addr)} {
		b = appendHex(b, v)
		sum += int(v)
	}
	for _, v := range payload {
		b = appendHex(b, v)
		sum += int(v)
	}
	b = appendHex(b, byte(0xFF-sum&0xFF))
	b = append(b, '\n')
	return string(b)
}

const hexDigits = "0123456789ABCDEF"

func appendHex(b []byte, v byte) []byte {
	return append(b, hexDigits[v>>4], hexDigits[v&0xF])
}
