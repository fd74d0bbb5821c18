// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"io"

	"github.com/blockzip/blockzip/internal/errors"
)

// BitReader reads a bit stream one bit at a time, most significant bit of
// each byte first. The github.com/icza/bitio Reader satisfies it.
type BitReader interface {
	ReadBool() (bool, error)
}

// Decoder maps bit sequences back to the symbols of a prefix code.
type Decoder struct {
	tree    *Tree
	numSyms int
}

// NewDecoder returns a Decoder for the given codes. The codes must have the
// Sym, Len and Val fields populated and must form a complete prefix tree,
// with the exception of a single code of length 1.
func NewDecoder(codes PrefixCodes) (*Decoder, error) {
	if len(codes) == 0 {
		return nil, errorf(errors.Corrupted, "empty prefix code table")
	}
	if !codes.checkLengths() || !codes.checkPrefixes() {
		return nil, errorf(errors.Corrupted, "incomplete or overlapping prefix code table")
	}
	t, err := TreeFromCodes(codes)
	if err != nil {
		return nil, errorf(errors.Corrupted, "%v", err)
	}
	return &Decoder{tree: t, numSyms: len(codes)}, nil
}

// NumSyms reports the number of symbols the decoder can produce.
func (pd *Decoder) NumSyms() int { return pd.numSyms }

// Decode reads bits from br until they spell out a complete code and returns
// its symbol. A bit sequence that is not part of any code results in a
// Corrupted error. Running out of input results in io.ErrUnexpectedEOF.
func (pd *Decoder) Decode(br BitReader) (sym uint32, err error) {
	idx := pd.tree.Root
	for {
		n := pd.tree.Nodes[idx]
		if n.IsLeaf() {
			return uint32(n.Sym), nil
		}
		bit, err := br.ReadBool()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if idx = n.Left; bit {
			idx = n.Right
		}
		if idx < 0 {
			return 0, errorf(errors.Corrupted, "invalid prefix code")
		}
	}
}
