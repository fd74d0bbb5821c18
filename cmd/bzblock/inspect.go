// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/blockzip/blockzip/bzip2"
	"github.com/urfave/cli/v2"
)

func inspectFile(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected a single input file")
	}
	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	conf := &bzip2.WriterConfig{MaxCodeLen: c.Int("max-code-len")}
	s, err := bzip2.Inspect(data, conf)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "Input length:\t%d\n", s.RawLen)
	fmt.Fprintf(tw, "Run-length encoded length:\t%d\n", s.BlockLen)
	fmt.Fprintf(tw, "BWT origin pointer:\t%d\n", s.OrigPtr)
	fmt.Fprintf(tw, "Stack size:\t%d\n", s.StackLen)
	fmt.Fprintf(tw, "Symbols:\t%d\n", s.Symbols)
	fmt.Fprintf(tw, "Max code length:\t%d\n", s.MaxLen())
	fmt.Fprintf(tw, "Stream length:\t%d\n", s.StreamLen)
	fmt.Fprintf(tw, "Codes:\n")
	for k, code := range s.Codes {
		fmt.Fprintf(tw, "\t%s\t%v\n", keyName(k, len(s.Codes)), code)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stream, err := bzip2.Compress(data, conf)
	if err != nil {
		return err
	}
	output, err := bzip2.Decompress(stream)
	if err != nil {
		return err
	}
	if !bytes.Equal(output, data) {
		return fmt.Errorf("round trip mismatch")
	}
	fmt.Fprintln(c.App.Writer, "Round trip: ok")
	return nil
}

// keyName names the symbol of key k in an alphabet of n keys.
func keyName(k, n int) string {
	switch k {
	case 0:
		return bzip2.RunASymbol.String()
	case 1:
		return bzip2.RunBSymbol.String()
	case n - 1:
		return "EOB"
	default:
		return bzip2.ValueSymbol(uint8(k - 1)).String()
	}
}
