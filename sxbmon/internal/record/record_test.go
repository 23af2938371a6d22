// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormatForPath(t *testing.T) {
	for _, c := range []struct {
		path   string
		format Format
		ok     bool
	}{
		{"prog.hex", IntelHex, true},
		{"PROG.HEX", IntelHex, true},
		{"a/b/prog.srec", SRecord, true},
		{"prog.SREC", SRecord, true},
		{"prog.bin", 0, false},
		{"prog", 0, false},
	} {
		f, err := FormatForPath(c.path)
		if c.ok && (err != nil || f != c.format) {
			t.Errorf("FormatForPath(%q) = %v, %v", c.path, f, err)
		}
		if !c.ok && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatForPath(%q) err = %v, want ErrUnknownFormat", c.path, err)
		}
	}
}

func collect(t *testing.T, sc *Scanner) []Event {
	t.Helper()
	var evs []Event
	for {
		ev, err := sc.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		evs = append(evs, ev)
		if ev.Kind == EndOfFile {
			return evs
		}
	}
}

func wantData(t *testing.T, ev Event, addr uint32, payload string) {
	t.Helper()
	if ev.Kind != DataBlock {
		t.Fatalf("event kind = %v, want DataBlock", ev.Kind)
	}
	if ev.Addr != addr {
		t.Errorf("addr = %#06x, want %#06x", ev.Addr, addr)
	}
	if !bytes.Equal(ev.Payload, []byte(payload)) {
		t.Errorf("payload = % X, want % X", ev.Payload, payload)
	}
}

func TestHexSingleRecord(t *testing.T) {
	in := ":0400100000AABBCCDD68\n:00000001FF\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	wantData(t, evs[0], 0x000010, "\xAA\xBB\xCC\xDD")
	if start, ok := sc.Start(); !ok || start != 0x000010 {
		t.Errorf("start = %#06x, %v, want 0x000010, true", start, ok)
	}
}

func TestHexLinearSegment(t *testing.T) {
	in := ":020000040001F9\n:04001000AABBCCDD5C\n:00000001FF\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	evs := collect(t, sc)
	if len(evs) != 3 {
		t.Fatalf("got %d events, want 3", len(evs))
	}
	if evs[0].Kind != SetSegment || evs[0].Segment != 0x0001 {
		t.Fatalf("first event = %+v, want SetSegment 0x0001", evs[0])
	}
	wantData(t, evs[1], 0x010010, "\xAA\xBB\xCC\xDD")
	if start, ok := sc.Start(); !ok || start != 0x010010 {
		t.Errorf("start = %#06x, %v, want 0x010010, true", start, ok)
	}
}

func TestHexSegmentPersists(t *testing.T) {
	in := ":020000040002FC\n" +
		":0110000011DE\n" +
		":0120000022BD\n" +
		":00000001FF\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	evs := collect(t, sc)
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	wantData(t, evs[1], 0x021000, "\x11")
	wantData(t, evs[2], 0x022000, "\x22")
}

func TestHexIgnoredRecordType(t *testing.T) {
	in := ":040000050001234568\n:0200100055AA23\n:00000001FF\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	wantData(t, evs[0], 0x000010, "\x55\xAA")
}

func TestHexEOFWithoutTerminatorRecord(t *testing.T) {
	in := ":0200100055AA23\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	evs := collect(t, sc)
	if len(evs) != 2 || evs[1].Kind != EndOfFile {
		t.Fatalf("events = %+v, want data then end", evs)
	}
}

func TestHexTruncatedRecord(t *testing.T) {
	in := ":0200100055AA23\n:04001000AABB"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	ev, err := sc.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	wantData(t, ev, 0x000010, "\x55\xAA")
	if _, err := sc.Next(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Next err = %v, want ErrMalformed", err)
	}
	// The scanner stays finished after the failure.
	if ev, err := sc.Next(); err != nil || ev.Kind != EndOfFile {
		t.Errorf("Next after error = %+v, %v, want EndOfFile", ev, err)
	}
	if start, ok := sc.Start(); !ok || start != 0x000010 {
		t.Errorf("start = %#06x, %v, want first valid record", start, ok)
	}
}

func TestHexBadDigit(t *testing.T) {
	in := ":04001000GGBBCCDD00\n"
	sc := NewScanner(strings.NewReader(in), IntelHex)
	if _, err := sc.Next(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Next err = %v, want ErrMalformed", err)
	}
}

func TestSrecS1(t *testing.T) {
	in := "S1070010AABBCCDDDA\nS9030000FC\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	wantData(t, evs[0], 0x000010, "\xAA\xBB\xCC\xDD")
	if start, ok := sc.Start(); !ok || start != 0x000010 {
		t.Errorf("start = %#06x, %v, want 0x000010, true", start, ok)
	}
}

func TestSrecS2(t *testing.T) {
	in := "S2080A0010AABBCCDDCF\nS804000000FB\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	wantData(t, evs[0], 0x0A0010, "\xAA\xBB\xCC\xDD")
	if start, ok := sc.Start(); !ok || start != 0x0A0010 {
		t.Errorf("start = %#06x, %v, want 0x0A0010, true", start, ok)
	}
}

func TestSrecHeaderSkipped(t *testing.T) {
	in := "S00600004844521B\nS105001055A5F0\nS9030000FC\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	wantData(t, evs[0], 0x000010, "\x55\xA5")
}

func TestSrecCountUnderflowEndsFile(t *testing.T) {
	in := "S1030000FC\nS105001055A5F0\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	evs := collect(t, sc)
	if len(evs) != 1 || evs[0].Kind != EndOfFile {
		t.Fatalf("events = %+v, want immediate end", evs)
	}
}

func TestSrecUnknownTypeEndsFile(t *testing.T) {
	in := "S10400105596\nS5030001FB\nS1040020668F\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	evs := collect(t, sc)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want data then end, got %+v", len(evs), evs)
	}
	wantData(t, evs[0], 0x000010, "\x55")
}

func TestStartAddressLatchedOnce(t *testing.T) {
	in := "S10400205A81\nS10400105596\nS9030000FC\n"
	sc := NewScanner(strings.NewReader(in), SRecord)
	collect(t, sc)
	if start, ok := sc.Start(); !ok || start != 0x000020 {
		t.Errorf("start = %#06x, %v, want first data record address 0x000020", start, ok)
	}
}
