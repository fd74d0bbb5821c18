// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"bytes"
	"io"
	"math"

	"github.com/blockzip/blockzip/internal/errors"
	bitmap "github.com/boljen/go-bitmap"
	"github.com/icza/bitio"
)

// WriterConfig configures Compress and the Writer.
// A nil *WriterConfig is equivalent to the zero value.
type WriterConfig struct {
	// MaxCodeLen limits the length of the Huffman codes to 1..MaxCodeLen.
	// If zero, MaxCodeLen is used.
	MaxCodeLen int

	_ struct{} // Blank field to prevent unkeyed struct literals
}

func (c *WriterConfig) maxCodeLen() (int, error) {
	maxLen := MaxCodeLen
	if c != nil && c.MaxCodeLen != 0 {
		maxLen = c.MaxCodeLen
	}
	if maxLen < 1 || maxLen > MaxCodeLen {
		return 0, errorf(errors.Invalid, "maximum code length %d not in 1..%d", maxLen, MaxCodeLen)
	}
	return maxLen, nil
}

// Compress encodes data as a single stream.
//
// The data is run-length encoded, transformed with EncodeBlock and packed
// along with a checksum of the data. Inputs of 4 GiB or more cannot be
// represented and result in an Invalid error.
func Compress(data []byte, conf *WriterConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := compress(&buf, data, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compress(w io.Writer, data []byte, conf *WriterConfig) error {
	maxLen, err := conf.maxCodeLen()
	if err != nil {
		return err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return errorf(errors.Invalid, "input of %d bytes is too large", len(data))
	}
	blk := encodeRLE1(data)
	if uint64(len(blk)) > math.MaxUint32 {
		return errorf(errors.Invalid, "block of %d bytes is too large", len(blk))
	}
	eb, err := EncodeBlock(blk, &BlockConfig{MaxCodeLen: maxLen})
	if err != nil {
		return err
	}
	sum := checksum(data)

	bw := bitio.NewWriter(w)
	bw.TryWriteBits(hdrMagic, 24)
	bw.TryWriteBits(blkMagic, magicBits)
	bw.TryWriteBits(uint64(sum), 32)
	bw.TryWriteBits(uint64(len(data)), 32)
	bw.TryWriteBits(uint64(eb.BWT.OrigPtr), 32)
	writeBitmap(bw, eb.MTF.Stack)
	writeLengths(bw, eb.Codes)
	for _, k := range eb.Keys() {
		c := eb.Codes[k]
		bw.TryWriteBits(uint64(c.Val), c.Len)
	}
	bw.TryWriteBits(endMagic, magicBits)
	bw.TryWriteBits(uint64(sum), 32)
	if bw.TryError != nil {
		return bw.TryError
	}
	return bw.Close()
}

// Stats describes how Compress encodes some data.
type Stats struct {
	RawLen    int       // Size of the input
	BlockLen  int       // Size of the block after run-length encoding
	OrigPtr   int       // Origin pointer of the Burrows-Wheeler transform
	StackLen  int       // Number of distinct bytes in the block
	Symbols   int       // Number of symbols, excluding EOB
	Codes     CodeTable // Prefix codes indexed by key
	StreamLen int       // Size of the compressed stream
}

// Inspect runs the stages of Compress on data and reports their results.
func Inspect(data []byte, conf *WriterConfig) (*Stats, error) {
	maxLen, err := conf.maxCodeLen()
	if err != nil {
		return nil, err
	}
	blk := encodeRLE1(data)
	eb, err := EncodeBlock(blk, &BlockConfig{MaxCodeLen: maxLen})
	if err != nil {
		return nil, err
	}
	cw := &countWriter{w: io.Discard}
	if err := compress(cw, data, conf); err != nil {
		return nil, err
	}
	return &Stats{
		RawLen:    len(data),
		BlockLen:  len(blk),
		OrigPtr:   eb.BWT.OrigPtr,
		StackLen:  len(eb.MTF.Stack),
		Symbols:   len(eb.MTF.Symbols),
		Codes:     eb.Codes,
		StreamLen: int(cw.n),
	}, nil
}

// MaxLen reports the length of the longest code.
func (s *Stats) MaxLen() (n int) {
	for _, c := range s.Codes {
		if n < int(c.Len) {
			n = int(c.Len)
		}
	}
	return n
}

// writeBitmap writes the sparse bitmap of the bytes present in stack.
// A 16-bit mask marks which of the 16 ranges of 16 byte values are in use,
// and a 16-bit map follows for each such range.
func writeBitmap(bw *bitio.Writer, stack []byte) {
	used := bitmap.New(256)
	for _, b := range stack {
		used.Set(int(b), true)
	}
	var maps [16]uint16
	for b := 0; b < 256; b++ {
		if used.Get(b) {
			maps[b>>4] |= 1 << (15 - uint(b&0xf))
		}
	}
	var mask uint16
	for i, m := range maps {
		if m > 0 {
			mask |= 1 << (15 - uint(i))
		}
	}
	bw.TryWriteBits(uint64(mask), 16)
	for _, m := range maps {
		if m > 0 {
			bw.TryWriteBits(uint64(m), 16)
		}
	}
}

// writeLengths writes the longest code length and then the length of every
// code as a delta from the previous one. The first length is written in 5
// bits. Each step is "10" to increment, "11" to decrement, and a single 0
// bit moves on to the next code.
func writeLengths(bw *bitio.Writer, codes CodeTable) {
	var maxLen uint8
	for _, c := range codes {
		if maxLen < c.Len {
			maxLen = c.Len
		}
	}
	bw.TryWriteBits(uint64(maxLen), 5)

	curr := codes[0].Len
	bw.TryWriteBits(uint64(curr), 5)
	for _, c := range codes {
		for ; curr < c.Len; curr++ {
			bw.TryWriteBits(0x2, 2)
		}
		for ; curr > c.Len; curr-- {
			bw.TryWriteBits(0x3, 2)
		}
		bw.TryWriteBool(false)
	}
}

// Writer buffers everything written to it and compresses it as a single
// stream when closed.
type Writer struct {
	InputOffset  int64 // Total number of bytes issued to Write
	OutputOffset int64 // Total number of bytes written to underlying io.Writer

	wr   io.Writer
	conf WriterConfig
	buf  []byte
	err  error
}

// NewWriter returns a Writer that compresses into w.
func NewWriter(w io.Writer, conf *WriterConfig) (*Writer, error) {
	if _, err := conf.maxCodeLen(); err != nil {
		return nil, err
	}
	zw := new(Writer)
	if conf != nil {
		zw.conf = *conf
	}
	zw.Reset(w)
	return zw, nil
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}
	if uint64(len(zw.buf))+uint64(len(buf)) > math.MaxUint32 {
		zw.err = errorf(errors.Invalid, "input is too large")
		return 0, zw.err
	}
	zw.buf = append(zw.buf, buf...)
	zw.InputOffset += int64(len(buf))
	return len(buf), nil
}

// Close compresses the buffered data and writes the stream.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == errClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	cw := &countWriter{w: zw.wr}
	if zw.err = compress(cw, zw.buf, &zw.conf); zw.err != nil {
		return zw.err
	}
	zw.OutputOffset += cw.n
	zw.buf = zw.buf[:0]
	zw.err = errClosed
	return nil
}

// Reset discards the Writer's state and makes it equivalent to the result
// of NewWriter, but writing to w instead.
func (zw *Writer) Reset(w io.Writer) {
	*zw = Writer{wr: w, conf: zw.conf, buf: zw.buf[:0]}
}

var errClosed = errorf(errors.Invalid, "stream is closed")

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(buf []byte) (int, error) {
	n, err := cw.w.Write(buf)
	cw.n += int64(n)
	return n, err
}
