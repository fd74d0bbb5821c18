// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bzip2 implements the transform core of a bzip2-style block
// compressor and a compact single-table container around it.
//
// A block passes through three reversible stages: the Burrows-Wheeler
// transform (EncodeBWT), the move-to-front transform with bijective run
// length coding of zero runs (EncodeMTF), and a length-limited canonical
// Huffman code over the resulting symbols (BuildCodeTable). EncodeBlock runs
// all three; DecodeBlock undoes the first two.
//
// Compress and Decompress wrap the stages in a bit-packed stream with a
// header, CRC checks and an end-of-stream marker. The stream layout borrows
// the magic numbers and CRC of bzip2 but is not compatible with it: each
// stream holds a single block coded with a single Huffman table.
package bzip2

import (
	"fmt"
	"hash/crc32"

	"github.com/blockzip/blockzip/internal"
	"github.com/blockzip/blockzip/internal/errors"
	"github.com/dsnet/golib/hashmerge"
)

// There does not exist a formal specification of the BZip2 format. As such,
// much of this work is derived by either reverse engineering the original C
// source code or using secondary sources.
//
// References:
//	http://bzip.org/
//	https://github.com/dsnet/compress/blob/master/doc/bzip2-format.pdf

const (
	hdrMagic = 0x425a62       // Hex of "BZb"
	blkMagic = 0x314159265359 // BCD of PI
	endMagic = 0x177245385090 // BCD of sqrt(PI)

	magicBits = 48

	// MaxCodeLen is the default limit on Huffman code lengths.
	MaxCodeLen = 20

	// maxRunSyms bounds the number of consecutive RunA and RunB symbols.
	// Forty symbols already describe a run of more than 2^40 bytes.
	maxRunSyms = 40
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "bzip2", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

// errorCorrupted converts an unexpected end of input into a Corrupted error.
// Other errors are passed through.
func errorCorrupted(err error) error {
	if _, ok := err.(errors.Error); ok || err == nil {
		return err
	}
	return errorf(errors.Corrupted, "%v", err)
}

// crc computes the CRC-32 used by BZip2.
//
// The CRC-32 computation in bzip2 treats bytes as having bits in big-endian
// order. That is, the MSB is read before the LSB. Thus, we can use the
// standard library version of CRC-32 IEEE with some minor adjustments.
//
// The byte array is used as an intermediate buffer to swap the bits of every
// byte of the input.
type crc struct {
	val uint32
	buf [256]byte
}

// update computes the CRC-32 of appending buf to c.
func (c *crc) update(buf []byte) {
	cval := internal.ReverseUint32(c.val)
	for len(buf) > 0 {
		n := len(buf)
		if n > len(c.buf) {
			n = len(c.buf)
		}
		for i, b := range buf[:n] {
			c.buf[i] = internal.ReverseLUT[b]
		}
		cval = crc32.Update(cval, crc32.IEEETable, c.buf[:n])
		buf = buf[n:]
	}
	c.val = internal.ReverseUint32(cval)
}

// checksum returns the BZip2 CRC-32 of buf.
func checksum(buf []byte) uint32 {
	var c crc
	c.update(buf)
	return c.val
}

// combineCRC combines two CRC-32 checksums together, where len2 is the length
// of the data covered by crc2.
func combineCRC(crc1, crc2 uint32, len2 int64) uint32 {
	crc1 = internal.ReverseUint32(crc1)
	crc2 = internal.ReverseUint32(crc2)
	crc := hashmerge.CombineCRC32(crc32.IEEE, crc1, crc2, len2)
	return internal.ReverseUint32(crc)
}
