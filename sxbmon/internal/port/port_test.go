// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package port

import (
	"bytes"
	"testing"
	"time"
)

func TestPace(t *testing.T) {
	if d := pace(0); d != 20*time.Millisecond {
		t.Errorf("pace(0) = %v, want 20ms", d)
	}
	if d := pace(21); d != 41*time.Millisecond {
		t.Errorf("pace(21) = %v, want 41ms", d)
	}
}

func TestNormalizeCR(t *testing.T) {
	b := []byte("A=1234\r\nX=0\rdone")
	NormalizeCR(b)
	if want := []byte("A=1234\n\nX=0\ndone"); !bytes.Equal(b, want) {
		t.Errorf("NormalizeCR = %q, want %q", b, want)
	}
}

func TestClosedPort(t *testing.T) {
	var p *Port
	if p.IsOpen() {
		t.Error("nil port reports open")
	}
	q := &Port{}
	if q.IsOpen() {
		t.Error("zero port reports open")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close on closed port: %v", err)
	}
}
