// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"bytes"
	"io"

	"github.com/blockzip/blockzip/internal"
	"github.com/blockzip/blockzip/internal/errors"
	"github.com/icza/bitio"
)

// Decompress decodes one or more concatenated streams produced by Compress.
// Zero bytes may follow the last stream.
//
// Any malformed input results in a Corrupted error and no output.
// An origin pointer outside of its block results in an OutOfRange error.
func Decompress(data []byte) ([]byte, error) {
	out, _, err := DecompressCRC(data)
	return out, err
}

// DecompressCRC is like Decompress, but also returns the checksum of the
// entire output. It is combined from the checksums of the individual
// streams, so the output is not hashed again.
func DecompressCRC(data []byte) ([]byte, uint32, error) {
	out, sum, err := decompress(data)
	if err != nil {
		return nil, 0, err
	}
	return out, sum, nil
}

func decompress(data []byte) (out []byte, sum uint32, err error) {
	defer errors.Recover(&err)

	rd := bytes.NewReader(data)
	for {
		buf, crc := decodeStream(rd)
		sum = combineCRC(sum, crc, int64(len(buf)))
		out = append(out, buf...)
		if isZeros(data[len(data)-rd.Len():]) {
			return out, sum, nil
		}
	}
}

func isZeros(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// bitReader panics with a Corrupted error when the input ends early.
type bitReader struct{ *bitio.Reader }

func (br bitReader) readBits(n uint8) uint64 {
	v, err := br.ReadBits(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		errors.Panic(errorCorrupted(err))
	}
	return v
}

func (br bitReader) readBool() bool {
	return br.readBits(1) == 1
}

// decodeStream decodes a single stream starting at the current position of
// rd. On return, rd is positioned at the byte following the stream.
func decodeStream(rd *bytes.Reader) ([]byte, uint32) {
	br := bitReader{bitio.NewReader(rd)}
	if br.readBits(24) != hdrMagic {
		panicf(errors.Corrupted, "invalid stream magic")
	}
	if br.readBits(magicBits) != blkMagic {
		panicf(errors.Corrupted, "invalid block magic")
	}
	wantCRC := uint32(br.readBits(32))
	rawLen := int(br.readBits(32))
	ptr := int(br.readBits(32))
	stack := br.readBitmap()
	ct, err := decodeLengths(br.readLengths(EOBKey(len(stack)) + 1))
	if err != nil {
		errors.Panic(err)
	}
	pd, err := NewHuffmanDecoder(ct)
	if err != nil {
		errors.Panic(err)
	}

	// Every symbol produces at least one byte of the block.
	limit := maxRLE1Len(rawLen)
	eob := uint32(EOBKey(len(stack)))
	var keys []uint16
	for {
		k, err := pd.Decode(br)
		if err != nil {
			errors.Panic(errorCorrupted(err))
		}
		keys = append(keys, uint16(k))
		if k == eob {
			break
		}
		if len(keys) > limit {
			panicf(errors.Corrupted, "block exceeds %d symbols", limit)
		}
	}
	syms, err := SymbolsFromKeys(keys, len(stack))
	if err != nil {
		errors.Panic(err)
	}
	blk, err := decodeMTF(MTF{Symbols: syms, Stack: stack}, limit)
	if err != nil {
		errors.Panic(err)
	}
	if blk, err = DecodeBWT(BWT{Data: blk, OrigPtr: ptr}); err != nil {
		errors.Panic(err)
	}
	raw, err := decodeRLE1(blk, rawLen)
	if err != nil {
		errors.Panic(err)
	}
	if len(raw) != rawLen {
		panicf(errors.Corrupted, "mismatching block size: got %d, want %d", len(raw), rawLen)
	}
	gotCRC := checksum(raw)
	if gotCRC != wantCRC && !internal.GoFuzz {
		panicf(errors.Corrupted, "mismatching block checksum")
	}

	if br.readBits(magicBits) != endMagic {
		panicf(errors.Corrupted, "invalid end-of-stream magic")
	}
	if uint32(br.readBits(32)) != wantCRC && !internal.GoFuzz {
		panicf(errors.Corrupted, "mismatching stream checksum")
	}
	br.Align()
	return raw, gotCRC
}

// readBitmap reads the set of bytes written by writeBitmap in ascending
// order.
func (br bitReader) readBitmap() []byte {
	var stack []byte
	mask := br.readBits(16)
	for i := 0; i < 16; i++ {
		if mask&(1<<(15-uint(i))) == 0 {
			continue
		}
		m := br.readBits(16)
		for j := 0; j < 16; j++ {
			if m&(1<<(15-uint(j))) > 0 {
				stack = append(stack, byte(16*i+j))
			}
		}
	}
	return stack
}

// readLengths reads n code lengths written by writeLengths.
func (br bitReader) readLengths(n int) []uint8 {
	maxLen := int(br.readBits(5))
	if maxLen < 1 || maxLen > MaxCodeLen {
		panicf(errors.Corrupted, "invalid maximum code length %d", maxLen)
	}
	lens := make([]uint8, n)
	curr := int(br.readBits(5))
	for i := range lens {
		for {
			if curr < 1 || curr > maxLen {
				panicf(errors.Corrupted, "invalid code length %d", curr)
			}
			if !br.readBool() {
				break
			}
			if br.readBool() {
				curr--
			} else {
				curr++
			}
		}
		lens[i] = uint8(curr)
	}
	return lens
}

// ReaderConfig configures the Reader.
// There are currently no options.
type ReaderConfig struct {
	_ struct{} // Blank field to prevent unkeyed struct literals
}

// Reader decompresses all of the streams in the underlying io.Reader.
// The input is read in its entirety on the first call to Read.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd   io.Reader
	buf  []byte
	err  error
	done bool
}

// NewReader returns a Reader that decompresses r.
func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	zr := new(Reader)
	zr.Reset(r)
	return zr, nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	if zr.err != nil {
		return 0, zr.err
	}
	if !zr.done {
		data, err := io.ReadAll(zr.rd)
		zr.InputOffset += int64(len(data))
		if err != nil {
			zr.err = err
			return 0, err
		}
		if zr.buf, zr.err = Decompress(data); zr.err != nil {
			return 0, zr.err
		}
		zr.done = true
	}
	if len(zr.buf) == 0 {
		zr.err = io.EOF
		return 0, io.EOF
	}
	n := copy(buf, zr.buf)
	zr.buf = zr.buf[n:]
	zr.OutputOffset += int64(n)
	return n, nil
}

// Close ends the Reader. It does not close the underlying io.Reader.
func (zr *Reader) Close() error {
	if zr.err == errClosed || zr.err == io.EOF {
		zr.err = errClosed
		return nil
	}
	err := zr.err
	zr.buf, zr.err = nil, errClosed
	return err
}

// Reset discards the Reader's state and makes it equivalent to the result
// of NewReader, but reading from r instead.
func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{rd: r}
}
