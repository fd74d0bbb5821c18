// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package bzip2

import (
	"bytes"
	"io"

	"github.com/blockzip/blockzip/bzip2"
	"github.com/blockzip/blockzip/internal/errors"
	"github.com/blockzip/blockzip/internal/prefix"
)

func Fuzz(data []byte) int {
	data, ok := testDecoders(data)
	for _, maxLen := range []int{9, 12, bzip2.MaxCodeLen} {
		testEncoder(data, maxLen)
	}
	testStages(data)
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoders tests that Decompress and the Reader agree on the input.
// Invalid input is expected, but it must be reported as either a Corrupted
// or an OutOfRange error.
func testDecoders(data []byte) ([]byte, bool) {
	zr, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		panic(err)
	}
	defer zr.Close()

	b1, err1 := bzip2.Decompress(data)
	b2, err2 := io.ReadAll(zr)

	switch {
	case err1 == nil && err2 == nil:
		if !bytes.Equal(b1, b2) {
			panic("mismatching bytes")
		}
		if err := zr.Close(); err != nil {
			panic(err)
		}
		return b1, true
	case err1 != nil && err2 != nil:
		if !errors.IsCorrupted(err1) && !errors.IsOutOfRange(err1) {
			panic(err1)
		}
		if b1 != nil {
			panic("output on error")
		}
		return nil, false
	case err1 != nil:
		panic(err1)
	default:
		panic(err2)
	}
}

// testEncoder compresses the input data with the Writer and then checks that
// it decompresses back to the same data.
func testEncoder(data []byte, maxLen int) {
	bb := new(bytes.Buffer)
	zw, err := bzip2.NewWriter(bb, &bzip2.WriterConfig{MaxCodeLen: maxLen})
	if err != nil {
		panic(err)
	}
	defer zw.Close()
	n, err := zw.Write(data)
	if n != len(data) || err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		if errors.IsConstraint(err) {
			return // Alphabet does not fit in maxLen bits
		}
		panic(err)
	}

	b, ok := testDecoders(bb.Bytes())
	if !ok {
		panic("decoder error")
	}
	if !bytes.Equal(b, data) {
		panic("mismatching bytes")
	}
}

// testStages checks that every block stage is reversible on its own.
func testStages(data []byte) {
	rle := bzip2.ForwardRLE1(data)
	raw, err := bzip2.ReverseRLE1(rle, len(data))
	if err != nil || !bytes.Equal(raw, data) {
		panic("mismatching run-length round trip")
	}

	buf := append([]byte(nil), data...)
	ptr := bzip2.ForwardBWT(buf)
	bzip2.ReverseBWT(buf, ptr)
	if !bytes.Equal(buf, data) {
		panic("mismatching BWT round trip")
	}

	m := bzip2.EncodeMTF(data)
	raw, err = bzip2.DecodeMTF(m)
	if err != nil || !bytes.Equal(raw, data) {
		panic("mismatching move-to-front round trip")
	}

	// The depth-limited tree must agree with lengths computed directly
	// from the counts.
	ft := bzip2.BuildFrequencyTable(m)
	_, ct, err := bzip2.BuildCodeTable(ft, 12)
	if err != nil {
		panic(err)
	}
	codes := make(prefix.PrefixCodes, len(ft))
	for k, cnt := range ft {
		codes[k] = prefix.PrefixCode{Sym: uint32(k), Cnt: cnt}
	}
	codes.SortByCount()
	if err := prefix.GenerateLengths(codes, 12); err != nil {
		panic(err)
	}
	for _, pc := range codes {
		if uint32(ct[pc.Sym].Len) != pc.Len {
			panic("mismatching code lengths")
		}
	}
}
