// Copyright 2026 The SXB Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/wdctools/sxbmon/sxbmon/internal/cmd/conv"
	"github.com/wdctools/sxbmon/sxbmon/internal/cmd/load"
	"github.com/wdctools/sxbmon/sxbmon/internal/cmd/ports"
	"github.com/wdctools/sxbmon/sxbmon/internal/cmd/term"
)

type tool struct {
	descr string
	main  func(args []string)
}

var tools = map[string]tool{
	"term":  {term.Descr, term.Main},
	"load":  {load.Descr, load.Main},
	"conv":  {conv.Descr, conv.Main},
	"ports": {ports.Descr, ports.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  sxbmon COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1:])
}
