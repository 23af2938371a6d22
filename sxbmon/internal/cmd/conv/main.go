// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conv

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/marcinbor85/gohex"

	"github.com/wdctools/sxbmon/sxbmon/internal/record"
	"github.com/wdctools/sxbmon/sxbmon/internal/util"
)

const Descr = "convert an Intel HEX file to the monitor S-record stream"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  conv [OPTIONS] HEX [SREC]\nOptions:\n")
		fs.PrintDefaults()
	}
	line := fs.Int(
		"line", 32,
		"payload `bytes` per S2 record",
	)
	fs.Parse(args[1:])
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	if *line < 1 || *line > record.MaxPayload {
		util.Fatal("line length must be 1..%d", record.MaxPayload)
	}
	in := fs.Arg(0)
	out := fs.Arg(1)
	if out == "" {
		out = strings.TrimSuffix(in, ".hex") + ".srec"
	}

	f, err := os.Open(in)
	util.FatalErr("", err)
	defer f.Close()
	mem := gohex.NewMemory()
	err = mem.ParseIntelHex(f)
	util.FatalErr("parsehex", err)

	w, err := os.Create(out)
	util.FatalErr("", err)
	defer w.Close()

	segments := mem.GetDataSegments()
	total := 0
	for _, seg := range segments {
		total += len(seg.Data)
	}
	done := 0
	for _, seg := range segments {
		addr, data := seg.Address, seg.Data
		for len(data) > 0 {
			n := *line
			if n > len(data) {
				n = len(data)
			}
			_, err := io.WriteString(w, record.EncodeS2(addr, data[:n]))
			util.FatalErr("write", err)
			addr += uint32(n)
			data = data[n:]
			done += n
			util.Progress("conv", done, total, 1, "B")
		}
	}
	_, err = io.WriteString(w, record.Terminator)
	util.FatalErr("write", err)
}
