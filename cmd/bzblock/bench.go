// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blockzip/blockzip/internal/testutil"
	"github.com/blockzip/blockzip/internal/tool/bench"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

const (
	defaultLevels = "6"
	defaultSizes  = "1e4,1e5,1e6"
)

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func benchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "tests", Value: "ratio", Usage: "list of benchmark tests (encRate, decRate, ratio)"},
		&cli.StringFlag{Name: "codecs", Value: strings.Join(bench.CodecNames, ","), Usage: "list of codecs to benchmark"},
		&cli.StringFlag{Name: "paths", Usage: "list of paths to search for input files"},
		&cli.StringFlag{Name: "levels", Value: defaultLevels, Usage: "list of compression levels to benchmark"},
		&cli.StringFlag{Name: "sizes", Value: defaultSizes, Usage: "list of input sizes to benchmark"},
		&cli.StringFlag{Name: "format", Value: "table", Usage: "output format (table, csv)"},
	}
}

var sep = regexp.MustCompile("[,:]")

// parseInts parses a list of numbers, each of which may have an SI or
// binary prefix (e.g., 1e4, 64Ki).
func parseInts(s string) ([]int, error) {
	var ns []int
	for _, v := range sep.Split(s, -1) {
		f, err := unitconv.ParsePrefix(v, unitconv.AutoParse)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %v", v, err)
		}
		ns = append(ns, int(f))
	}
	return ns, nil
}

func runBench(c *cli.Context) error {
	var tests []int
	for _, s := range sep.Split(c.String("tests"), -1) {
		t, ok := testToEnum[s]
		if !ok {
			return fmt.Errorf("invalid test %q", s)
		}
		tests = append(tests, t)
	}
	var codecs []string
	for _, s := range sep.Split(c.String("codecs"), -1) {
		if bench.Encoders[s] == nil || bench.Decoders[s] == nil {
			return fmt.Errorf("unknown codec %q", s)
		}
		codecs = append(codecs, s)
	}
	levels, err := parseInts(c.String("levels"))
	if err != nil {
		return err
	}
	sizes, err := parseInts(c.String("sizes"))
	if err != nil {
		return err
	}
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		for _, in := range testutil.Corpus {
			inputs = append(inputs, in.Name)
		}
	}
	if p := c.String("paths"); p != "" {
		bench.Paths = sep.Split(p, -1)
	}
	format := c.String("format")
	if format != "table" && format != "csv" {
		return fmt.Errorf("invalid format %q", format)
	}

	w := c.App.Writer
	ts := time.Now()
	var recs []bench.Record
	for _, t := range tests {
		var results [][]bench.Result
		var names []string
		var title, suffix string
		switch t {
		case bench.TestEncodeRate:
			title = "MB/s"
			results, names = bench.BenchmarkEncoderSuite(codecs, inputs, levels, sizes, nil)
		case bench.TestDecodeRate:
			title = "MB/s"
			results, names = bench.BenchmarkDecoderSuite(codecs, inputs, levels, sizes, nil)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(codecs, inputs, levels, sizes, nil)
		}
		if format == "csv" {
			recs = append(recs, bench.Records(enumToTest[t], results, names, codecs)...)
			continue
		}
		fmt.Fprintf(w, "BENCHMARK: %s\n", enumToTest[t])
		bench.PrintResults(w, results, names, codecs, title, suffix)
		fmt.Fprintln(w)
	}
	if format == "csv" {
		return bench.WriteCSV(w, recs)
	}
	fmt.Fprintf(w, "RUNTIME: %v\n", time.Since(ts))
	return nil
}
