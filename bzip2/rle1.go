// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import "github.com/blockzip/blockzip/internal/errors"

// The first run-length stage protects the rotation sort from very long runs
// of a single byte. Every run of 4 to 255 equal bytes is replaced by the
// first 4 bytes followed by a byte holding the number of remaining repeats
// (0 to 251). Shorter runs are copied as is.
//
// The decoder accepts a trailing run of 4 that is missing its count byte,
// and count bytes above 251.

const (
	rle1MinRun = 4
	rle1MaxRun = rle1MinRun + 251
)

// encodeRLE1 returns the run-length encoding of data.
func encodeRLE1(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/rle1MinRun+1)
	for i := 0; i < len(data); {
		b := data[i]
		n := 1
		for i+n < len(data) && data[i+n] == b && n < rle1MaxRun {
			n++
		}
		if n < rle1MinRun {
			out = append(out, data[i:i+n]...)
		} else {
			out = append(out, b, b, b, b, byte(n-rle1MinRun))
		}
		i += n
	}
	return out
}

// decodeRLE1 reverses encodeRLE1. The output may be at most limit bytes,
// unless limit is negative.
func decodeRLE1(data []byte, limit int) ([]byte, error) {
	out := make([]byte, 0, len(data))
	var last byte
	var cnt int
	for _, b := range data {
		if cnt == rle1MinRun {
			if limit >= 0 && len(out)+int(b) > limit {
				return nil, errorf(errors.Corrupted, "run-length output exceeds %d bytes", limit)
			}
			for n := int(b); n > 0; n-- {
				out = append(out, last)
			}
			cnt = 0
			continue
		}
		if cnt > 0 && b == last {
			cnt++
		} else {
			last, cnt = b, 1
		}
		if limit >= 0 && len(out) >= limit {
			return nil, errorf(errors.Corrupted, "run-length output exceeds %d bytes", limit)
		}
		out = append(out, b)
	}
	return out, nil
}

// maxRLE1Len is an upper bound on the size of encodeRLE1 for n input bytes.
func maxRLE1Len(n int) int {
	return n + n/rle1MinRun + 1
}
