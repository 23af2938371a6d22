// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ports

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/wdctools/sxbmon/sxbmon/internal/util"
)

const Descr = "list the serial ports available on this host"

func Main(args []string) {
	list, err := serial.GetPortsList()
	util.FatalErr("ports", err)
	if len(list) == 0 {
		fmt.Println("no serial ports found")
		return
	}
	for _, p := range list {
		fmt.Println(p)
	}
}
