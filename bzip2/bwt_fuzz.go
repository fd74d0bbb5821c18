// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

// This file exists to export internal implementation details for fuzz testing.

package bzip2

func ForwardBWT(buf []byte) (ptr int) {
	var bwt burrowsWheelerTransform
	return bwt.Encode(buf)
}

func ReverseBWT(buf []byte, ptr int) {
	var bwt burrowsWheelerTransform
	bwt.Decode(buf, ptr)
}

func ForwardRLE1(buf []byte) []byte {
	return encodeRLE1(buf)
}

func ReverseRLE1(buf []byte, limit int) ([]byte, error) {
	return decodeRLE1(buf, limit)
}
