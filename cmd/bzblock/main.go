// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command bzblock compresses files into single block streams, inspects the
// stages of the block compressor, and compares it against other codecs.
//
// Example usage:
//	$ bzblock compress -max-code-len 17 twain.txt
//	$ bzblock decompress twain.txt.bzb
//	$ bzblock inspect twain.txt
//	$ bzblock bench -sizes 1e4,1e5 -codecs bzb,kp-zstd,xz text digits
package main

import (
	"log"
	"os"

	"github.com/blockzip/blockzip/bzip2"
	"github.com/urfave/cli/v2"
)

// ext is the file extension of compressed files.
const ext = ".bzb"

func newApp() *cli.App {
	maxCodeLen := &cli.IntFlag{
		Name:  "max-code-len",
		Usage: "limit Huffman codes to `N` bits",
		Value: bzip2.MaxCodeLen,
	}
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write to `FILE` instead of deriving the name from the input",
	}
	return &cli.App{
		Name:  "bzblock",
		Usage: "Compress data with a bzip2-style block sorting compressor",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress files, writing FILE" + ext,
				ArgsUsage: "FILE...",
				Flags:     []cli.Flag{maxCodeLen, output},
				Action:    compressFiles,
			},
			{
				Name:      "decompress",
				Usage:     "Decompress FILE" + ext + " files",
				ArgsUsage: "FILE...",
				Flags:     []cli.Flag{output},
				Action:    decompressFiles,
			},
			{
				Name:      "inspect",
				Usage:     "Report the result of every compression stage",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{maxCodeLen},
				Action:    inspectFile,
			},
			{
				Name:      "bench",
				Usage:     "Compare the compressor against other codecs",
				ArgsUsage: "[INPUT...]",
				Flags:     benchFlags(),
				Action:    runBench,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}
