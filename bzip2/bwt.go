// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"github.com/blockzip/blockzip/bzip2/internal/rotsort"
	"github.com/blockzip/blockzip/internal/errors"
)

// The Burrows-Wheeler Transform implementation used here sorts the cyclic
// rotations of the block directly (see package rotsort), so no sentinel byte
// or doubled input is needed. The output is the last column of the sorted
// rotation matrix and the pointer is the row holding the original block.
//
// The inverse uses the LF-mapping: the i-th occurrence of a byte in the last
// column is the same character as the i-th occurrence of that byte in the
// first column, which lets the block be walked in O(n) time.
//
// References:
//	https://www.hpl.hp.com/techreports/Compaq-DEC/SRC-RR-124.pdf
//	https://github.com/cscott/compressjs/blob/master/lib/BWT.js

// BWT is the result of the Burrows-Wheeler transform of a block.
type BWT struct {
	Data    []byte // Last column of the sorted rotations
	OrigPtr int    // Sorted position of the untransformed block
}

// EncodeBWT computes the Burrows-Wheeler transform of block.
// The input is not modified. The empty block yields an empty result
// with a pointer of 0.
func EncodeBWT(block []byte) BWT {
	buf := append([]byte(nil), block...)
	var bwt burrowsWheelerTransform
	ptr := bwt.Encode(buf)
	return BWT{Data: buf, OrigPtr: ptr}
}

// DecodeBWT inverts the Burrows-Wheeler transform.
// An OrigPtr outside of [0, len(Data)) results in an OutOfRange error;
// for empty data the pointer must be 0.
func DecodeBWT(b BWT) ([]byte, error) {
	if b.OrigPtr < 0 || (b.OrigPtr >= len(b.Data) && !(b.OrigPtr == 0 && len(b.Data) == 0)) {
		return nil, errorf(errors.OutOfRange, "origin pointer %d not in block of %d bytes", b.OrigPtr, len(b.Data))
	}
	buf := append([]byte(nil), b.Data...)
	var bwt burrowsWheelerTransform
	bwt.Decode(buf, b.OrigPtr)
	return buf, nil
}

// burrowsWheelerTransform transforms blocks in place. Its buffers are
// reused across calls.
type burrowsWheelerTransform struct {
	buf  []byte
	sa   []int
	perm []int
}

func (bwt *burrowsWheelerTransform) Encode(buf []byte) (ptr int) {
	if len(buf) == 0 {
		return 0
	}

	if cap(bwt.sa) < len(buf) {
		bwt.sa = make([]int, len(buf))
	}
	if cap(bwt.buf) < len(buf) {
		bwt.buf = make([]byte, len(buf))
	}
	t := bwt.buf[:len(buf)]
	sa := bwt.sa[:len(buf)]
	copy(t, buf)
	rotsort.ComputeRotations(t, sa)

	for i, j := range sa {
		if j == 0 {
			ptr = i
			j = len(t)
		}
		buf[i] = t[j-1]
	}
	return ptr
}

// Decode reverses the transform of buf in place. The ptr must be a valid
// index into buf.
func (bwt *burrowsWheelerTransform) Decode(buf []byte, ptr int) {
	if len(buf) == 0 {
		return
	}

	// Step 1: Compute cumulative frequency table.
	var c [256]int
	for _, v := range buf {
		c[v]++
	}
	var sum int
	for i, v := range c {
		sum += v
		c[i] = sum - v
	}

	// Step 2: Compute the permutation that walks the block forwards.
	if cap(bwt.perm) < len(buf) {
		bwt.perm = make([]int, len(buf))
	}
	tt := bwt.perm[:len(buf)]
	for i, b := range buf {
		tt[c[b]] = i
		c[b]++
	}

	// Step 3: Follow the permutation starting at the origin row.
	if cap(bwt.buf) < len(buf) {
		bwt.buf = make([]byte, len(buf))
	}
	buf2 := bwt.buf[:len(buf)]
	tPos := tt[ptr]
	for i := range tt {
		buf2[i] = buf[tPos]
		tPos = tt[tPos]
	}
	copy(buf, buf2)
}
