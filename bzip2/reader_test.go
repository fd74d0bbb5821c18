// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"bytes"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/blockzip/blockzip/internal/errors"
	"github.com/blockzip/blockzip/internal/testutil"
)

const (
	// bitEmpty is the stream for an empty input.
	bitEmpty = `
		X:425a62 H48:314159265359   # Stream and block magic
		D32:0 D32:0 D32:0           # CRC, length and origin pointer
		D16:0                       # Empty used-byte bitmap
		D5:2 D5:2 0 0 110           # Code lengths: 2, 2, 1
		0                           # EOB
		H48:177245385090 D32:0      # End magic and CRC
	`

	// bitByte is the stream for the input "a".
	bitByte = `
		X:425a62 H48:314159265359   # Stream and block magic
		H32:19939b6b D32:1 D32:0    # CRC, length and origin pointer
		H16:0200 H16:4000           # Used-byte bitmap: 'a'
		D5:2 D5:2 0 0 110           # Code lengths: 2, 2, 1
		10 0                        # RUNA, EOB
		H48:177245385090 H32:19939b6b
		000000                      # Padding
	`
)

func TestReader(t *testing.T) {
	var vectors = []struct {
		desc   string
		input  string // BitGen formatted stream
		output string
		errf   func(error) bool // Expect success if nil
	}{{
		desc:  "empty stream",
		input: bitEmpty,
	}, {
		desc:   "single byte",
		input:  bitByte,
		output: "a",
	}, {
		desc:  "trailing zero padding",
		input: bitEmpty + "X:000000",
	}, {
		desc:   "concatenated streams",
		input:  bitByte + bitEmpty + bitByte,
		output: "aa",
	}, {
		desc:  "trailing garbage",
		input: bitEmpty + "X:01",
		errf:  errors.IsCorrupted,
	}, {
		desc:  "no input",
		input: "",
		errf:  errors.IsCorrupted,
	}, {
		desc:  "invalid stream magic",
		input: strings.Replace(bitEmpty, "X:425a62", "X:425a68", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "invalid block magic",
		input: strings.Replace(bitEmpty, "H48:314159265359", "H48:314159265358", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "truncated header",
		input: "X:425a62 H48:314159265359 D32:0",
		errf:  errors.IsCorrupted,
	}, {
		desc:  "zero maximum code length",
		input: strings.Replace(bitEmpty, "D5:2 D5:2", "D5:0 D5:2", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "maximum code length too large",
		input: strings.Replace(bitEmpty, "D5:2 D5:2", "D5:21 D5:2", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "zero code length",
		input: strings.Replace(bitEmpty, "D5:2 D5:2", "D5:2 D5:0", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "code length exceeds maximum",
		input: strings.Replace(bitEmpty, "D5:2 D5:2", "D5:2 D5:3", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "incomplete code lengths",
		input: strings.Replace(bitEmpty, "D5:2 D5:2 0 0 110", "D5:2 D5:2 0 0 0", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "over-subscribed code lengths",
		input: strings.Replace(bitEmpty, "D5:2 D5:2 0 0 110", "D5:2 D5:1 0 0 0", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "origin pointer out of range",
		input: strings.Replace(bitEmpty, "D32:0 D32:0 D32:0", "D32:0 D32:0 D32:1", 1),
		errf:  errors.IsOutOfRange,
	}, {
		desc:  "mismatching length",
		input: strings.Replace(bitEmpty, "D32:0 D32:0 D32:0", "D32:0 D32:5 D32:0", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "run with empty stack",
		input: strings.Replace(bitEmpty, "0                           # EOB", "10 0 # RUNA, EOB", 1),
		errf:  errors.IsOutOfRange,
	}, {
		desc:  "block exceeds length",
		input: strings.Replace(bitByte, "10 0 ", "10 10 0", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "run longer than block",
		input: strings.Replace(bitByte, "10 0 ", "11 0 ", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "missing end of block",
		input: "X:425a62 H48:314159265359 D32:0 D32:0 D32:0 D16:0 D5:2 D5:2 0 0 110 10*8",
		errf:  errors.IsCorrupted,
	}, {
		desc:  "invalid end magic",
		input: strings.Replace(bitEmpty, "H48:177245385090", "H48:177245385091", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "mismatching stream checksum",
		input: strings.Replace(bitEmpty, "H48:177245385090 D32:0", "H48:177245385090 D32:1", 1),
		errf:  errors.IsCorrupted,
	}, {
		desc:  "mismatching block checksum",
		input: strings.Replace(bitByte, "H16:4000", "H16:2000", 1),
		errf:  errors.IsCorrupted,
	}}

	for i, v := range vectors {
		input := testutil.MustDecodeBitGen(v.input)
		output, err := Decompress(input)
		if v.errf != nil {
			if !v.errf(err) {
				t.Errorf("test %d (%s), mismatching error: got %v", i, v.desc, err)
			}
			if output != nil {
				t.Errorf("test %d (%s), unexpected output: %q", i, v.desc, output)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d (%s), unexpected error: %v", i, v.desc, err)
			continue
		}
		if string(output) != v.output {
			t.Errorf("test %d (%s), output mismatch: got %q, want %q", i, v.desc, output, v.output)
		}
	}
}

func TestReaderStreams(t *testing.T) {
	var vectors = []struct {
		input string
		bits  string // BitGen formatted stream
	}{
		{input: "", bits: bitEmpty},
		{input: "a", bits: bitByte},
	}

	for i, v := range vectors {
		want, err := Compress([]byte(v.input), nil)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if got := testutil.MustDecodeBitGen(v.bits); !bytes.Equal(got, want) {
			t.Errorf("test %d, stream mismatch:\ngot  %x\nwant %x", i, got, want)
		}

		// Streams are byte-aligned, so they can be concatenated.
		output, err := Decompress(testutil.MustDecodeBitGen(v.bits + v.bits + v.bits))
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if got := string(output); got != v.input+v.input+v.input {
			t.Errorf("test %d, output mismatch: got %q", i, got)
		}
	}
}

func TestReaderTruncated(t *testing.T) {
	input := testutil.Text(1 << 10)
	stream, err := Compress(input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for n := 0; n < len(stream); n++ {
		if _, err := Decompress(stream[:n]); !errors.IsCorrupted(err) {
			t.Errorf("length %d, mismatching error: got %v, want Corrupted", n, err)
		}
	}
}

func TestReaderBitFlips(t *testing.T) {
	input := testutil.Text(300)
	stream, err := Compress(input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The bits of the final byte may be padding, so they are left alone.
	buf := make([]byte, len(stream))
	for i := 0; i < 8*(len(stream)-1); i++ {
		copy(buf, stream)
		buf[i/8] ^= 0x80 >> uint(i%8)
		output, err := Decompress(buf)
		switch {
		case err == nil && !bytes.Equal(output, input):
			t.Errorf("bit %d, undetected corruption", i)
		case err != nil && !errors.IsCorrupted(err) && !errors.IsOutOfRange(err):
			t.Errorf("bit %d, unexpected error: %v", i, err)
		}
	}
}

func TestDecompressReader(t *testing.T) {
	input := testutil.Repeats(1 << 14)
	stream, err := Compress(input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rd, err := NewReader(bytes.NewReader(stream), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := make([]byte, 1000)
	var output []byte
	for {
		n, err := rd.Read(buf)
		output = append(output, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !bytes.Equal(output, input) {
		t.Errorf("output data mismatch")
	}
	if rd.InputOffset != int64(len(stream)) {
		t.Errorf("input offset mismatch: got %d, want %d", rd.InputOffset, len(stream))
	}
	if rd.OutputOffset != int64(len(input)) {
		t.Errorf("output offset mismatch: got %d, want %d", rd.OutputOffset, len(input))
	}
	if err := rd.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if _, err := rd.Read(buf); err == nil {
		t.Errorf("unexpected read success after close")
	}

	rd.Reset(bytes.NewReader(stream[:len(stream)/2]))
	if _, err := io.ReadAll(rd); !errors.IsCorrupted(err) {
		t.Errorf("mismatching error: got %v, want Corrupted", err)
	}
	if err := rd.Close(); !errors.IsCorrupted(err) {
		t.Errorf("mismatching close error: got %v, want Corrupted", err)
	}
}

func benchmarkDecode(b *testing.B, gen func(int) []byte, n int) {
	b.StopTimer()
	b.SetBytes(int64(n))
	stream, err := Compress(gen(n), nil)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	runtime.GC()
	b.ReportAllocs()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decompress(stream); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkDecodeDigits1e4(b *testing.B) { benchmarkDecode(b, testutil.Digits, 1e4) }
func BenchmarkDecodeDigits1e5(b *testing.B) { benchmarkDecode(b, testutil.Digits, 1e5) }
func BenchmarkDecodeDigits1e6(b *testing.B) { benchmarkDecode(b, testutil.Digits, 1e6) }
func BenchmarkDecodeText1e4(b *testing.B)   { benchmarkDecode(b, testutil.Text, 1e4) }
func BenchmarkDecodeText1e5(b *testing.B)   { benchmarkDecode(b, testutil.Text, 1e5) }
func BenchmarkDecodeText1e6(b *testing.B)   { benchmarkDecode(b, testutil.Text, 1e6) }
func BenchmarkDecodeZeros1e4(b *testing.B)  { benchmarkDecode(b, testutil.Zeros, 1e4) }
func BenchmarkDecodeZeros1e5(b *testing.B)  { benchmarkDecode(b, testutil.Zeros, 1e5) }
func BenchmarkDecodeZeros1e6(b *testing.B)  { benchmarkDecode(b, testutil.Zeros, 1e6) }
