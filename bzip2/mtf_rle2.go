// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"fmt"

	"github.com/blockzip/blockzip/internal"
	"github.com/blockzip/blockzip/internal/errors"
	bitmap "github.com/boljen/go-bitmap"
)

// SymbolKind distinguishes the two run digits from move-to-front indexes.
type SymbolKind uint8

const (
	RunA  SymbolKind = iota // Bijective base-2 digit of weight 1
	RunB                    // Bijective base-2 digit of weight 2
	Value                   // Non-zero move-to-front index
)

// Symbol is a single output symbol of the move-to-front run coder.
type Symbol struct {
	Kind  SymbolKind
	Index uint8 // Stack index; only used by Value symbols
}

var (
	RunASymbol = Symbol{Kind: RunA}
	RunBSymbol = Symbol{Kind: RunB}
)

// ValueSymbol returns the symbol for the move-to-front index i.
func ValueSymbol(i uint8) Symbol { return Symbol{Kind: Value, Index: i} }

// Key returns the index of the symbol in a FrequencyTable.
// RunA is 0, RunB is 1 and a Value with index i is i+1.
func (s Symbol) Key() int {
	switch s.Kind {
	case RunA:
		return 0
	case RunB:
		return 1
	default:
		return int(s.Index) + 1
	}
}

func (s Symbol) String() string {
	switch s.Kind {
	case RunA:
		return "RUNA"
	case RunB:
		return "RUNB"
	default:
		return fmt.Sprintf("%d", s.Index)
	}
}

// MTF is the result of the move-to-front run coder.
type MTF struct {
	Symbols []Symbol
	Stack   []byte // Distinct bytes of the input in ascending order
}

// EncodeMTF applies the move-to-front transform to data and replaces every
// run of zero indexes with its bijective base-2 representation.
func EncodeMTF(data []byte) MTF {
	present := bitmap.New(256)
	for _, b := range data {
		present.Set(int(b), true)
	}
	stack := make([]byte, 0, 256)
	for b := 0; b < 256; b++ {
		if present.Get(b) {
			stack = append(stack, byte(b))
		}
	}

	var mtf moveToFront
	mtf.Init(stack)
	return MTF{Symbols: mtf.Encode(data), Stack: stack}
}

// DecodeMTF reverses EncodeMTF. The Stack is not modified.
//
// A Value whose index has no stack entry, or a run with an empty stack,
// results in an OutOfRange error. More than 40 consecutive run symbols or a
// Stack that is not strictly ascending results in a Corrupted error.
func DecodeMTF(m MTF) ([]byte, error) {
	return decodeMTF(m, -1)
}

// decodeMTF is DecodeMTF with a limit on the output size.
// A negative limit means no limit.
func decodeMTF(m MTF, limit int) ([]byte, error) {
	if len(m.Stack) > 256 {
		return nil, errorf(errors.Corrupted, "stack of %d bytes", len(m.Stack))
	}
	for i := 1; i < len(m.Stack); i++ {
		if m.Stack[i-1] >= m.Stack[i] {
			return nil, errorf(errors.Corrupted, "stack is not strictly ascending")
		}
	}
	var mtf moveToFront
	mtf.Init(m.Stack)
	return mtf.Decode(m.Symbols, limit)
}

// moveToFront implements both the MTF and RLE2 stages at the same time.
// Any run of zero indexes in the encoded output is replaced by a sequence of
// RunA and RunB symbols, and every other index i becomes Value(i).
//
// For example, if the normal MTF output was:
//	idxs: []uint8{0, 0, 1, 6, 3, 0, 0, 0, 2, 1, 0, 4}
//
// Then the actual output will be:
//	syms: RUNB 1 6 3 RUNA RUNA 2 1 RUNA 4
type moveToFront struct {
	dictBuf [256]uint8
	dictLen int
}

// Init initializes the moveToFront codec. The dict must contain all of the
// symbols in the alphabet used in future operations. A copy of the input dict
// will be made so that it will not be mutated.
func (m *moveToFront) Init(dict []uint8) {
	if len(dict) > len(m.dictBuf) {
		panic("alphabet too large")
	}
	copy(m.dictBuf[:], dict)
	m.dictLen = len(dict)
}

func (m *moveToFront) Encode(vals []byte) (syms []Symbol) {
	dict := m.dictBuf[:m.dictLen]

	var run int
	for i, val := range vals {
		// A repeat of the previous byte is already at the front.
		if i > 0 && val == vals[i-1] {
			run++
			continue
		}

		idx := -1 // Reverse lookup idx in dict
		for di, dv := range dict {
			if dv == val {
				idx = di
				break
			}
		}
		if internal.Debug && idx < 0 {
			panic("byte missing from dictionary")
		}
		copy(dict[1:], dict[:idx])
		dict[0] = val

		if idx == 0 {
			run++
			continue
		}
		syms = appendRun(syms, run)
		syms = append(syms, ValueSymbol(uint8(idx)))
		run = 0
	}
	return appendRun(syms, run)
}

func (m *moveToFront) Decode(syms []Symbol, limit int) (vals []byte, err error) {
	dict := m.dictBuf[:m.dictLen]

	var run, pwr int64 = 0, 1
	var numRuns int
	flush := func() error {
		if run == 0 {
			return nil
		}
		if len(dict) == 0 {
			return errorf(errors.OutOfRange, "run of %d with an empty stack", run)
		}
		if limit >= 0 && int64(len(vals))+run > int64(limit) {
			return errorf(errors.Corrupted, "run of %d exceeds block size %d", run, limit)
		}
		for val := dict[0]; run > 0; run-- {
			vals = append(vals, val)
		}
		pwr, numRuns = 1, 0
		return nil
	}

	for _, s := range syms {
		switch s.Kind {
		case RunA, RunB:
			if numRuns++; numRuns > maxRunSyms {
				return nil, errorf(errors.Corrupted, "more than %d consecutive run symbols", maxRunSyms)
			}
			if s.Kind == RunA {
				run += pwr
			} else {
				run += 2 * pwr
			}
			pwr <<= 1
		case Value:
			if err := flush(); err != nil {
				return nil, err
			}
			idx := int(s.Index)
			if idx >= len(dict) {
				return nil, errorf(errors.OutOfRange, "index %d not in stack of %d bytes", idx, len(dict))
			}
			if limit >= 0 && len(vals) >= limit {
				return nil, errorf(errors.Corrupted, "output exceeds block size %d", limit)
			}
			val := dict[idx] // Forward lookup val in dict
			copy(dict[1:], dict[:idx])
			dict[0] = val
			vals = append(vals, val)
		default:
			return nil, errorf(errors.Corrupted, "unknown symbol kind %d", s.Kind)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return vals, nil
}

// appendRun appends the bijective base-2 representation of a run of n zero
// indexes, least significant digit first. RunA is the digit 1 and RunB is
// the digit 2.
func appendRun(syms []Symbol, n int) []Symbol {
	for n > 0 {
		if n&1 > 0 {
			syms = append(syms, RunASymbol)
			n = (n - 1) / 2
		} else {
			syms = append(syms, RunBSymbol)
			n = (n - 2) / 2
		}
	}
	return syms
}
