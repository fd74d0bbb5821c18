// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements the prefix-code machinery shared by the block
// coders: Huffman tree construction, bit-length limiting, canonical code
// assignment and a bit-at-a-time decoder.
package prefix

import (
	"fmt"

	"github.com/blockzip/blockzip/internal"
	"github.com/blockzip/blockzip/internal/errors"
	"golang.org/x/exp/slices"
)

// MaxBits is the longest prefix code supported by this package.
const MaxBits = 32

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "prefix", Msg: fmt.Sprintf(f, a...)}
}

// PrefixCode is a representation of a prefix code, which is conceptually a
// mapping from some arbitrary symbol to some bit-string.
//
// The Sym and Cnt fields are typically provided by the user,
// while the Len and Val fields are generated by this package.
type PrefixCode struct {
	Sym uint32 // The symbol being mapped
	Cnt uint32 // The number times this symbol is used
	Len uint32 // Bit-length of the prefix code
	Val uint32 // Value of the prefix code (must be in 0..(1<<Len)-1)
}
type PrefixCodes []PrefixCode

func (c PrefixCodes) SortBySymbol() {
	slices.SortFunc(c, func(a, b PrefixCode) bool { return a.Sym < b.Sym })
}

// SortByCount sorts by count in ascending order, using the symbol to break
// ties between equal counts.
func (c PrefixCodes) SortByCount() {
	slices.SortFunc(c, lessByCount)
}

func lessByCount(a, b PrefixCode) bool {
	if a.Cnt == b.Cnt {
		return a.Sym < b.Sym
	}
	return a.Cnt < b.Cnt
}

// Length computes the total bit-length using the Len and Cnt fields.
func (c PrefixCodes) Length() (nb uint64) {
	for _, pc := range c {
		nb += uint64(pc.Len) * uint64(pc.Cnt)
	}
	return nb
}

// checkLengths reports whether the codes form a complete prefix tree.
// A lone code of length 1 is also accepted.
func (c PrefixCodes) checkLengths() bool {
	if len(c) == 1 {
		return c[0].Len == 1
	}
	var hist [MaxBits + 1]uint64
	for _, pc := range c {
		if pc.Len == 0 || pc.Len > MaxBits {
			return false
		}
		hist[pc.Len]++
	}
	return completeHistogram(hist[:])
}

// completeHistogram reports whether a histogram of bit-lengths describes a
// complete binary tree. Leaves are folded into their parents level by level;
// every level must pair up exactly and a single root must remain.
func completeHistogram(hist []uint64) bool {
	var nodes uint64
	for l := len(hist) - 1; l > 0; l-- {
		nodes += hist[l]
		if nodes%2 != 0 {
			return false
		}
		nodes /= 2
	}
	return nodes == 1
}

// checkPrefixes reports whether no code is the prefix of another.
func (c PrefixCodes) checkPrefixes() bool {
	type aligned struct {
		val uint64
		len uint32
	}
	as := make([]aligned, 0, len(c))
	for _, pc := range c {
		if pc.Len == 0 || pc.Len > MaxBits || uint64(pc.Val)>>pc.Len > 0 {
			return false
		}
		as = append(as, aligned{uint64(pc.Val) << (MaxBits - pc.Len), pc.Len})
	}
	slices.SortFunc(as, func(a, b aligned) bool {
		if a.val == b.val {
			return a.len < b.len
		}
		return a.val < b.val
	})
	for i := 1; i < len(as); i++ {
		shift := MaxBits - as[i-1].len
		if as[i-1].val>>shift == as[i].val>>shift {
			return false
		}
	}
	return true
}

// checkCanonical reports whether codes of the same length increase with the
// symbol. The codes must be sorted by symbol.
func (c PrefixCodes) checkCanonical() bool {
	var last [MaxBits + 1]int64
	for i := range last {
		last[i] = -1
	}
	for _, pc := range c {
		if int64(pc.Val) <= last[pc.Len] {
			return false
		}
		last[pc.Len] = int64(pc.Val)
	}
	return true
}

// GenerateLengths assigns non-zero bit-lengths to all codes. Codes with high
// frequency counts will be assigned shorter codes to reduce bit entropy.
// This function is used primarily by compressors.
//
// The input codes must have the Cnt field populated and be sorted by count
// in ascending order with ties broken by symbol (see SortByCount).
// The lengths come from a Huffman tree (see BuildTree) and are then limited
// to maxBits with LimitLengths.
func GenerateLengths(codes PrefixCodes, maxBits uint) error {
	if !slices.IsSortedFunc(codes, lessByCount) {
		return errorf(errors.Invalid, "non-monotonically increasing symbol counts")
	}
	t := BuildTree(codes)
	depths := t.Codes()
	depths.SortByCount()
	for i := range codes {
		codes[i].Len = depths[i].Len
	}
	return LimitLengths(codes, maxBits)
}

// LimitLengths rewrites the Len field of every code so that none exceeds
// maxBits while the tree stays complete. If any length had to change, the
// codes are re-assigned lengths in count order, so that a code never receives
// a longer length than a code with a lower count.
//
// The codes must be sorted by count (see SortByCount) and their lengths must
// describe a complete prefix tree, as produced by BuildTree.
//
// Overflowing leaves are moved up the tree in pairs: two sibling leaves at the
// deepest level are replaced by their parent, and the displaced symbol is
// paired with a shallower leaf one level down. Each step keeps the Kraft sum
// exactly at one.
func LimitLengths(codes PrefixCodes, maxBits uint) error {
	if maxBits < 1 || maxBits > MaxBits {
		return errorf(errors.Constraint, "maximum bit-length %d not in 1..%d", maxBits, MaxBits)
	}
	switch {
	case len(codes) == 0:
		return nil
	case uint64(len(codes)) > uint64(1)<<maxBits:
		return errorf(errors.Constraint, "%d symbols do not fit in %d bits", len(codes), maxBits)
	case len(codes) == 1:
		codes[0].Len = 1
		return nil
	}

	var maxLen uint32
	for _, c := range codes {
		if c.Len == 0 {
			return errorf(errors.Invalid, "symbol %d has zero bit-length", c.Sym)
		}
		if maxLen < c.Len {
			maxLen = c.Len
		}
	}
	hist := make([]uint64, maxLen+1)
	for _, c := range codes {
		hist[c.Len]++
	}
	if !completeHistogram(hist) {
		return errorf(errors.Invalid, "bit-lengths do not form a complete tree")
	}
	if maxLen <= uint32(maxBits) {
		return nil
	}

	for i := int(maxLen); i > int(maxBits); i-- {
		for hist[i] > 0 {
			j := i - 2
			for j > 0 && hist[j] == 0 {
				j--
			}
			if j == 0 {
				return errorf(errors.Constraint, "%d symbols do not fit in %d bits", len(codes), maxBits)
			}
			hist[i] -= 2
			hist[i-1]++
			hist[j+1] += 2
			hist[j]--
		}
	}

	// The least frequent symbols come first and take the longest lengths.
	var idx int
	for l := int(maxBits); l > 0; l-- {
		if l >= len(hist) {
			continue
		}
		for n := hist[l]; n > 0; n-- {
			codes[idx].Len = uint32(l)
			idx++
		}
	}
	if internal.Debug && !codes.checkLengths() {
		panic("length limiting produced an incomplete tree")
	}
	return nil
}

// GeneratePrefixes assigns a canonical prefix code to every symbol:
// codes of the same length are consecutive integers in symbol order, and all
// codes of one length precede the codes of the next length.
//
// The input codes must have the Len field populated and be sorted by symbol
// in ascending order with no duplicates. The bit-lengths must describe a
// complete prefix tree, except that a single code of length 1 is allowed.
func GeneratePrefixes(codes PrefixCodes) error {
	if len(codes) == 0 {
		return nil
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1].Sym >= codes[i].Sym {
			return errorf(errors.Invalid, "non-unique or non-monotonically increasing symbols")
		}
	}
	if !codes.checkLengths() {
		return errorf(errors.Invalid, "incomplete or over-subscribed prefix tree")
	}

	var bitCnts [MaxBits + 2]uint64
	for _, c := range codes {
		bitCnts[c.Len]++
	}
	var nextCodes [MaxBits + 1]uint64
	var code uint64
	for i := 1; i <= MaxBits; i++ {
		code = (code + bitCnts[i-1]) << 1
		nextCodes[i] = code
	}
	for i, c := range codes {
		codes[i].Val = uint32(nextCodes[c.Len])
		nextCodes[c.Len]++
	}

	if internal.Debug && !(codes.checkPrefixes() && codes.checkCanonical()) {
		panic("detected overlapping or non-canonical prefixes")
	}
	return nil
}
