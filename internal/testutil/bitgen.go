// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blockzip/blockzip/internal/errors"
	"github.com/icza/bitio"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

func errorf(f string, a ...interface{}) error {
	return errors.Error{Code: errors.Invalid, Pkg: "testutil", Msg: fmt.Sprintf(f, a...)}
}

// DecodeBitGen decodes a BitGen formatted string.
//
// The BitGen format allows bit-streams to be generated from a series of tokens
// describing bits in the resulting string. It is designed for scripting
// compressed streams by hand, one field at a time, with comments recording
// what each field means. Bits are packed most-significant bit first, which is
// the order used by the block container.
//
// The format consists of a series of tokens separated by white space of any
// kind. The '#' character starts a comment that runs to the end of the line.
//
// A token of the pattern "[01]{1,64}" forms a bit-string (e.g. 11010), whose
// left-most bit is written first.
//
// A token of the form "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}"
// represents either a decimal value or a hexadecimal value, respectively.
// The first number is the bit-length, between 0 and 64, and the second is
// the value, which must fit in that many bits. The most-significant bit of the
// value is written first.
//
// A token of the form "X:[0-9a-fA-F]+" represents literal bytes in
// hexadecimal format. The bytes need not be byte-aligned in the stream.
//
// A token decorator of the pattern "[*][0-9]+" may trail any token to repeat
// it that many times.
//
// If the total bit-stream does not end on a byte-aligned edge, then the stream
// will automatically be padded up to the nearest byte with 0 bits.
//
// Example BitGen file:
//
//	X:425a62             # Magic "BZb"
//	H48:314159265359     # Block magic
//	D32:0 D32:1 D32:0    # CRC, length and origin pointer
//	0*16                 # Empty used-byte bitmap
func DecodeBitGen(str string) ([]byte, error) {
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	for _, t := range toks {
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			n, err := strconv.Atoi(t[i+1:])
			if err != nil {
				return nil, errorf("invalid quantified token: %s", t)
			}
			t, rep = t[:i], n
		}

		switch {
		case reBin.MatchString(t):
			v, _ := strconv.ParseUint(t, 2, 64)
			for i := 0; i < rep; i++ {
				bw.TryWriteBits(v, uint8(len(t)))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}
			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errorf("invalid numeric token: %s", t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errorf("integer overflow on token: %s", t)
			}
			for i := 0; i < rep && n > 0; i++ {
				bw.TryWriteBits(v, uint8(n))
			}
		case reRaw.MatchString(t):
			b, err := hex.DecodeString(t[2:])
			if err != nil {
				return nil, errorf("invalid raw bytes token: %s", t)
			}
			bw.TryWrite(bytes.Repeat(b, rep))
		default:
			return nil, errorf("invalid token: %s", t)
		}
	}
	if bw.TryError != nil {
		return nil, bw.TryError
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
