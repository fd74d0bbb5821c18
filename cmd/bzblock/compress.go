// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/blockzip/blockzip/bzip2"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

// job is a single file conversion.
type job struct {
	src, dst       string
	srcLen, dstLen int
	done           bool
}

// outputs pairs every input file with its output file.
func outputs(c *cli.Context, name func(string) string) ([]*job, error) {
	files := c.Args().Slice()
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	out := c.String("output")
	if out != "" && len(files) > 1 {
		return nil, fmt.Errorf("cannot write %d inputs to %s", len(files), out)
	}
	var jobs []*job
	for _, f := range files {
		dst := out
		if dst == "" {
			dst = name(f)
		}
		jobs = append(jobs, &job{src: f, dst: dst})
	}
	return jobs, nil
}

// run converts every file concurrently. All failures are reported together.
func run(c *cli.Context, jobs []*job, convert func([]byte) ([]byte, error)) error {
	var g multierror.Group
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			src, err := os.ReadFile(j.src)
			if err != nil {
				return err
			}
			dst, err := convert(src)
			if err != nil {
				return fmt.Errorf("%s: %w", j.src, err)
			}
			if err := os.WriteFile(j.dst, dst, 0664); err != nil {
				return err
			}
			j.srcLen, j.dstLen, j.done = len(src), len(dst), true
			return nil
		})
	}
	merr := g.Wait()
	for _, j := range jobs {
		if j.done {
			fmt.Fprintf(c.App.Writer, "%s: %d -> %d bytes\n", j.dst, j.srcLen, j.dstLen)
		}
	}
	return merr.ErrorOrNil()
}

func compressFiles(c *cli.Context) error {
	conf := &bzip2.WriterConfig{MaxCodeLen: c.Int("max-code-len")}
	jobs, err := outputs(c, func(f string) string { return f + ext })
	if err != nil {
		return err
	}
	return run(c, jobs, func(b []byte) ([]byte, error) {
		return bzip2.Compress(b, conf)
	})
}

func decompressFiles(c *cli.Context) error {
	jobs, err := outputs(c, func(f string) string {
		if strings.HasSuffix(f, ext) {
			return strings.TrimSuffix(f, ext)
		}
		return f + ".out"
	})
	if err != nil {
		return err
	}
	return run(c, jobs, bzip2.Decompress)
}
