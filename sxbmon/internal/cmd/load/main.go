// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/wdctools/sxbmon/sxbmon/internal/console"
	"github.com/wdctools/sxbmon/sxbmon/internal/port"
	"github.com/wdctools/sxbmon/sxbmon/internal/upload"
	"github.com/wdctools/sxbmon/sxbmon/internal/util"
)

const Descr = "upload a program image (.hex or .srec) to the board"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  load [OPTIONS] FILE\nOptions:\n")
		fs.PrintDefaults()
	}
	dev := fs.String(
		"port", "/dev/ttyUSB0",
		"serial `device` connected to the board",
	)
	hw := fs.Bool(
		"rtscts", false,
		"request RTS/CTS hardware flow control",
	)
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	p, err := port.Open(*dev, *hw)
	util.FatalErr("open port", err)
	defer p.Close()

	ui := &console.Plain{W: os.Stdout}
	err = upload.Run(afero.NewOsFs(), fs.Arg(0), p, ui)
	if err != nil {
		util.Warn("upload: %v", err)
		var ue *upload.Error
		if errors.As(err, &ue) {
			os.Exit(int(ue.Kind))
		}
		os.Exit(1)
	}
	if ui.Have {
		fmt.Printf("start address %02X:%04X\n", ui.Start>>16, ui.Start&0xFFFF)
	}
}
