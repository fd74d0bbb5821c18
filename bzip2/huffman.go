// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"math"
	"strings"

	"github.com/blockzip/blockzip/internal/errors"
	"github.com/blockzip/blockzip/internal/prefix"
)

// FrequencyTable holds the number of occurrences of every symbol key.
// It is dense: every key from RunA up to and including the EOB key has an
// entry, even when its count is zero.
type FrequencyTable []uint32

// EOBKey returns the key of the end-of-block symbol for a move-to-front stack
// of stackLen bytes. It is one more than the largest Value key, and never
// less than 2 so that it cannot collide with the run symbols.
func EOBKey(stackLen int) int {
	if stackLen < 1 {
		stackLen = 1
	}
	return stackLen + 1
}

// BuildFrequencyTable counts the symbols of m and records a single
// occurrence of the end-of-block symbol. Value symbols that index past the
// stack of m have no key in the table and are not counted.
func BuildFrequencyTable(m MTF) FrequencyTable {
	eob := EOBKey(len(m.Stack))
	ft := make(FrequencyTable, eob+1)
	for _, s := range m.Symbols {
		if k := s.Key(); k < eob && ft[k] < math.MaxUint32 {
			ft[k]++
		}
	}
	ft[eob] = 1
	return ft
}

// HuffmanTree is a Huffman tree whose leaf symbols are keys of a
// FrequencyTable.
type HuffmanTree = prefix.Tree

// BuildTree builds the Huffman tree for ft. Every key of the table becomes a
// leaf, including those with a zero count, so that the tree covers the whole
// alphabet. Construction is deterministic (see prefix.BuildTree).
func BuildTree(ft FrequencyTable) *HuffmanTree {
	codes := make(prefix.PrefixCodes, len(ft))
	for k, cnt := range ft {
		codes[k] = prefix.PrefixCode{Sym: uint32(k), Cnt: cnt}
	}
	return prefix.BuildTree(codes)
}

// EnforceMaxDepth returns a tree with the same leaves as t where no leaf is
// deeper than maxLen. The result is always rebuilt from canonical codes,
// so two trees with equal leaf depths yield the same result.
//
// It returns a Constraint error if maxLen is outside [1, 32] or if the
// alphabet has more than 2^maxLen symbols.
func EnforceMaxDepth(t *HuffmanTree, maxLen int) (*HuffmanTree, error) {
	if maxLen < 1 || maxLen > prefix.MaxBits {
		return nil, errorf(errors.Constraint, "maximum code length %d not in 1..%d", maxLen, prefix.MaxBits)
	}
	codes := t.Codes()
	codes.SortByCount()
	if err := prefix.LimitLengths(codes, uint(maxLen)); err != nil {
		return nil, err
	}
	codes.SortBySymbol()
	if err := prefix.GeneratePrefixes(codes); err != nil {
		return nil, err
	}
	return prefix.TreeFromCodes(codes)
}

// Code is a prefix code, stored in the low Len bits of Val and read from the
// most significant of those bits first.
type Code struct {
	Len uint8
	Val uint32
}

// Bits returns the code as a sequence of bits, where true is a 1 bit.
func (c Code) Bits() []bool {
	bits := make([]bool, c.Len)
	for i := range bits {
		bits[i] = (c.Val>>(int(c.Len)-1-i))&1 > 0
	}
	return bits
}

func (c Code) String() string {
	var sb strings.Builder
	for _, b := range c.Bits() {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// CodeTable maps every key to its code. Keys that are not leaves of the tree
// have a zero Code.
type CodeTable []Code

// AssignCodes reads the code of every leaf from t: a left edge is a 0 bit
// and a right edge is a 1 bit. A tree that is a single leaf gives that leaf
// the 1-bit code 0. The tree must be no deeper than 32.
func AssignCodes(t *HuffmanTree) CodeTable {
	codes := t.Codes()
	if len(codes) == 0 {
		return nil
	}
	ct := make(CodeTable, codes[len(codes)-1].Sym+1)
	for _, c := range codes {
		ct[c.Sym] = Code{Len: uint8(c.Len), Val: c.Val}
	}
	return ct
}

// BuildCodeTable builds the Huffman tree for ft, limits its depth to maxLen
// (MaxCodeLen if zero) and assigns canonical codes to it.
func BuildCodeTable(ft FrequencyTable, maxLen int) (*HuffmanTree, CodeTable, error) {
	if maxLen == 0 {
		maxLen = MaxCodeLen
	}
	t, err := EnforceMaxDepth(BuildTree(ft), maxLen)
	if err != nil {
		return nil, nil, err
	}
	return t, AssignCodes(t), nil
}

// NewHuffmanDecoder returns a decoder for the codes in ct. Keys with a zero
// Code are not part of the table. The codes must form a complete prefix
// tree, or else a Corrupted error is returned.
func NewHuffmanDecoder(ct CodeTable) (*prefix.Decoder, error) {
	var codes prefix.PrefixCodes
	for k, c := range ct {
		if c.Len > 0 {
			codes = append(codes, prefix.PrefixCode{Sym: uint32(k), Len: uint32(c.Len), Val: c.Val})
		}
	}
	return prefix.NewDecoder(codes)
}

// decodeLengths assigns canonical codes to the given code lengths, one per
// key. It is the inverse of how the container stores a CodeTable.
func decodeLengths(lens []uint8) (CodeTable, error) {
	codes := make(prefix.PrefixCodes, len(lens))
	for k, n := range lens {
		codes[k] = prefix.PrefixCode{Sym: uint32(k), Len: uint32(n)}
	}
	if err := prefix.GeneratePrefixes(codes); err != nil {
		return nil, errorf(errors.Corrupted, "invalid code lengths: %v", err)
	}
	ct := make(CodeTable, len(codes))
	for k, c := range codes {
		ct[k] = Code{Len: uint8(c.Len), Val: c.Val}
	}
	return ct, nil
}
