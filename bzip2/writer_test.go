// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"bytes"
	"io"
	"runtime"
	"testing"

	"github.com/blockzip/blockzip/internal/errors"
	"github.com/blockzip/blockzip/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCompress(t *testing.T) {
	var vectors = []struct {
		input  string
		output string // Hex encoded stream
	}{{
		input: "",
		output: "425a62" + "314159265359" + "00000000" + "00000000" + "00000000" +
			"0000" + "108c" + "177245385090" + "00000000",
	}, {
		input: "a",
		output: "425a62" + "314159265359" + "19939b6b" + "00000001" + "00000000" +
			"0200" + "4000" + "108d05dc914e14240664e6dac0",
	}}

	for i, v := range vectors {
		output, err := Compress([]byte(v.input), nil)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if want := testutil.MustDecodeHex(v.output); !bytes.Equal(output, want) {
			t.Errorf("test %d, output mismatch:\ngot  %x\nwant %x", i, output, want)
		}
	}
}

func TestCompressConfig(t *testing.T) {
	input := testutil.Digits(1 << 12)
	var vectors = []struct {
		conf *WriterConfig
		errf func(error) bool // Expect success if nil
	}{
		{conf: nil},
		{conf: &WriterConfig{}},
		{conf: &WriterConfig{MaxCodeLen: 9}},
		{conf: &WriterConfig{MaxCodeLen: MaxCodeLen}},
		{conf: &WriterConfig{MaxCodeLen: 2}, errf: errors.IsConstraint},
		{conf: &WriterConfig{MaxCodeLen: -1}, errf: errors.IsInvalid},
		{conf: &WriterConfig{MaxCodeLen: MaxCodeLen + 1}, errf: errors.IsInvalid},
	}

	for i, v := range vectors {
		output, err := Compress(input, v.conf)
		if v.errf != nil {
			if !v.errf(err) {
				t.Errorf("test %d, mismatching error: got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		got, err := Decompress(output)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if !bytes.Equal(got, input) {
			t.Errorf("test %d, output data mismatch", i)
		}
	}
}

func TestWriter(t *testing.T) {
	for _, c := range testutil.Corpus {
		input := c.Gen(1 << 15)

		var buf bytes.Buffer
		wr, err := NewWriter(&buf, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cnt, err := io.Copy(wr, bytes.NewReader(input))
		if err != nil {
			t.Errorf("%s, write error: got %v", c.Name, err)
		}
		if cnt != int64(len(input)) {
			t.Errorf("%s, write count mismatch: got %d, want %d", c.Name, cnt, len(input))
		}
		if err := wr.Close(); err != nil {
			t.Errorf("%s, close error: got %v", c.Name, err)
		}
		if err := wr.Close(); err != nil {
			t.Errorf("%s, second close error: got %v", c.Name, err)
		}
		if _, err := wr.Write([]byte("x")); err == nil {
			t.Errorf("%s, unexpected write success after close", c.Name)
		}
		if wr.InputOffset != int64(len(input)) {
			t.Errorf("%s, input offset mismatch: got %d, want %d", c.Name, wr.InputOffset, len(input))
		}
		if wr.OutputOffset != int64(buf.Len()) {
			t.Errorf("%s, output offset mismatch: got %d, want %d", c.Name, wr.OutputOffset, buf.Len())
		}

		want, err := Compress(input, nil)
		if err != nil {
			t.Errorf("%s, unexpected error: %v", c.Name, err)
		}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("%s, stream mismatch with Compress", c.Name)
		}

		// A reset Writer produces a second, independent stream.
		wr.Reset(&buf)
		wr.Write(input)
		if err := wr.Close(); err != nil {
			t.Errorf("%s, close error: got %v", c.Name, err)
		}
		if !bytes.Equal(buf.Bytes(), append(want, want...)) {
			t.Errorf("%s, stream mismatch after reset", c.Name)
		}
	}

	if _, err := NewWriter(io.Discard, &WriterConfig{MaxCodeLen: 99}); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v, want Invalid", err)
	}
}

func TestInspect(t *testing.T) {
	s, err := Inspect([]byte("BANANA"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Stats{
		RawLen:   6,
		BlockLen: 6,
		OrigPtr:  3,
		StackLen: 3,
		Symbols:  5,
	}
	if diff := cmp.Diff(want, s, cmpopts.IgnoreFields(Stats{}, "Codes", "StreamLen")); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(s.Codes) != 5 {
		t.Errorf("code count mismatch: got %d, want 5", len(s.Codes))
	}
	stream, err := Compress([]byte("BANANA"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.StreamLen != len(stream) {
		t.Errorf("stream length mismatch: got %d, want %d", s.StreamLen, len(stream))
	}

	s, err = Inspect(testutil.Zeros(1000), &WriterConfig{MaxCodeLen: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BlockLen >= s.RawLen {
		t.Errorf("run-length encoding did not shrink zeros: %d bytes", s.BlockLen)
	}
	if s.MaxLen() < 1 || s.MaxLen() > 4 {
		t.Errorf("maximum code length %d not in 1..4", s.MaxLen())
	}

	if _, err := Inspect(nil, &WriterConfig{MaxCodeLen: 21}); !errors.IsInvalid(err) {
		t.Errorf("mismatching error: got %v, want Invalid", err)
	}
}

func benchmarkWriter(b *testing.B, gen func(int) []byte, n int) {
	b.StopTimer()
	b.SetBytes(int64(n))
	buf := gen(n)
	runtime.GC()
	b.ReportAllocs()
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(buf, nil); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkEncodeDigits1e4(b *testing.B) { benchmarkWriter(b, testutil.Digits, 1e4) }
func BenchmarkEncodeDigits1e5(b *testing.B) { benchmarkWriter(b, testutil.Digits, 1e5) }
func BenchmarkEncodeDigits1e6(b *testing.B) { benchmarkWriter(b, testutil.Digits, 1e6) }
func BenchmarkEncodeText1e4(b *testing.B)   { benchmarkWriter(b, testutil.Text, 1e4) }
func BenchmarkEncodeText1e5(b *testing.B)   { benchmarkWriter(b, testutil.Text, 1e5) }
func BenchmarkEncodeText1e6(b *testing.B)   { benchmarkWriter(b, testutil.Text, 1e6) }
func BenchmarkEncodeZeros1e4(b *testing.B)  { benchmarkWriter(b, testutil.Zeros, 1e4) }
func BenchmarkEncodeZeros1e5(b *testing.B)  { benchmarkWriter(b, testutil.Zeros, 1e5) }
func BenchmarkEncodeZeros1e6(b *testing.B)  { benchmarkWriter(b, testutil.Zeros, 1e6) }
