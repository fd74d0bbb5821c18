// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"compress/flate"
	"io"

	"github.com/blockzip/blockzip/bzip2"
	kflate "github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CodecNames lists the registered codecs in the order they are compared.
// The first codec is the reference for the delta columns.
var CodecNames = []string{"bzb", "std-flate", "kp-flate", "kp-zstd", "kp-s2", "xz"}

// BlockCodeLen maps a compression level in 1..9 to the maximum Huffman code
// length used by the block compressor.
func BlockCodeLen(lvl int) int {
	switch {
	case lvl <= 0:
		return 0
	case lvl >= 9:
		return bzip2.MaxCodeLen
	default:
		return bzip2.MaxCodeLen - 9 + lvl
	}
}

func init() {
	RegisterEncoder("bzb",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{MaxCodeLen: BlockCodeLen(lvl)})
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("bzb",
		func(r io.Reader) io.ReadCloser {
			zr, err := bzip2.NewReader(r, nil)
			if err != nil {
				panic(err)
			}
			return zr
		})

	RegisterEncoder("std-flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("std-flate",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})

	RegisterEncoder("kp-flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := kflate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("kp-flate",
		func(r io.Reader) io.ReadCloser {
			return kflate.NewReader(r)
		})

	RegisterEncoder("kp-zstd",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := zstd.NewWriter(w,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(lvl)),
				zstd.WithEncoderConcurrency(1))
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("kp-zstd",
		func(r io.Reader) io.ReadCloser {
			zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
			if err != nil {
				panic(err)
			}
			return zstdReader{zr}
		})

	RegisterEncoder("kp-s2",
		func(w io.Writer, lvl int) io.WriteCloser {
			var opts []s2.WriterOption
			switch {
			case lvl >= 9:
				opts = append(opts, s2.WriterBestCompression())
			case lvl >= 6:
				opts = append(opts, s2.WriterBetterCompression())
			}
			return s2.NewWriter(w, opts...)
		})
	RegisterDecoder("kp-s2",
		func(r io.Reader) io.ReadCloser {
			return io.NopCloser(s2.NewReader(r))
		})

	RegisterEncoder("xz",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder("xz",
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				panic(err)
			}
			return io.NopCloser(zr)
		})
}

// zstdReader adapts zstd.Decoder, whose Close does not return an error.
type zstdReader struct{ *zstd.Decoder }

func (zr zstdReader) Close() error {
	zr.Decoder.Close()
	return nil
}
