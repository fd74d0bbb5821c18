// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blockzip/blockzip/internal/errors"
	"github.com/blockzip/blockzip/internal/testutil"
)

func TestRunLengthEncoder(t *testing.T) {
	var vectors = []struct {
		input  string
		output string
	}{{
		input:  "",
		output: "",
	}, {
		input:  "abc",
		output: "abc",
	}, {
		input:  "abccc",
		output: "abccc",
	}, {
		input:  "abcccc",
		output: "abcccc\x00",
	}, {
		input:  "aaaabbbbcccc",
		output: "aaaa\x00bbbb\x00cccc\x00",
	}, {
		input:  strings.Repeat("a", 4),
		output: "aaaa\x00",
	}, {
		input:  strings.Repeat("a", 255),
		output: "aaaa\xfb",
	}, {
		input:  strings.Repeat("a", 256),
		output: "aaaa\xfba",
	}, {
		input:  strings.Repeat("a", 259),
		output: "aaaa\xfbaaaa\x00",
	}, {
		input:  strings.Repeat("a", 500),
		output: "aaaa\xfbaaaa\xf1",
	}, {
		input:  "aaabbbcccddddddeeefgghiiijkllmmmmmmmmnnoo",
		output: "aaabbbcccdddd\x02eeefgghiiijkllmmmm\x04nnoo",
	}}

	for i, v := range vectors {
		output := string(encodeRLE1([]byte(v.input)))
		if output != v.output {
			t.Errorf("test %d, output mismatch:\ngot  %q\nwant %q", i, output, v.output)
		}
		if len(output) > maxRLE1Len(len(v.input)) {
			t.Errorf("test %d, output exceeds bound: %d > %d", i, len(output), maxRLE1Len(len(v.input)))
		}
	}
}

func TestRunLengthDecoder(t *testing.T) {
	var vectors = []struct {
		input  string
		output string
	}{{
		input:  "",
		output: "",
	}, {
		input:  "abc",
		output: "abc",
	}, {
		input:  "aaaa",
		output: "aaaa",
	}, {
		input:  "baaaa\x00aaaa",
		output: "baaaaaaaa",
	}, {
		input:  "abcccc\x00",
		output: "abcccc",
	}, {
		input:  "aaaa\x00bbbb\x00ccc",
		output: "aaaabbbbccc",
	}, {
		input:  "aaaa\x00bbbb\x00cccc\x00",
		output: "aaaabbbbcccc",
	}, {
		input:  "aaaa\x00aaaa\x00aaaa\x00",
		output: "aaaaaaaaaaaa",
	}, {
		input:  "aaaa\xffaaaa\xffaaaa\xff",
		output: strings.Repeat("a", 259*3),
	}, {
		input:  "bbbaaaa\xffaaaa\xffaaaa\xff",
		output: "bbb" + strings.Repeat("a", 259*3),
	}, {
		input:  "aaaa\x00",
		output: strings.Repeat("a", 4),
	}, {
		input:  "aaaa\xfb",
		output: strings.Repeat("a", 255),
	}, {
		input:  "aaaa\xfba",
		output: strings.Repeat("a", 256),
	}, {
		input:  "aaaa\xfbaaaa\x00",
		output: strings.Repeat("a", 259),
	}, {
		input:  "aaaa\xfbaaaa\xf1",
		output: strings.Repeat("a", 500),
	}, {
		input:  "aaabbbcccdddd\x02eeefgghiiijkllmmmm\x04nnoo",
		output: "aaabbbcccddddddeeefgghiiijkllmmmmmmmmnnoo",
	}}

	for i, v := range vectors {
		output, err := decodeRLE1([]byte(v.input), -1)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if string(output) != v.output {
			t.Errorf("test %d, output mismatch:\ngot  %q\nwant %q", i, output, v.output)
		}

		// The exact output size is always an acceptable limit.
		if _, err := decodeRLE1([]byte(v.input), len(v.output)); err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
		}
		if len(v.output) > 0 {
			if _, err := decodeRLE1([]byte(v.input), len(v.output)-1); !errors.IsCorrupted(err) {
				t.Errorf("test %d, mismatching error: got %v, want Corrupted", i, err)
			}
		}
	}
}

func TestRunLengthCorpus(t *testing.T) {
	for _, c := range testutil.Corpus {
		input := c.Gen(1 << 16)
		enc := encodeRLE1(input)
		if len(enc) > maxRLE1Len(len(input)) {
			t.Errorf("%s, output exceeds bound: %d > %d", c.Name, len(enc), maxRLE1Len(len(input)))
		}
		output, err := decodeRLE1(enc, len(input))
		if err != nil {
			t.Errorf("%s, unexpected error: %v", c.Name, err)
			continue
		}
		if !bytes.Equal(output, input) {
			t.Errorf("%s, round trip mismatch", c.Name)
		}
	}
}
