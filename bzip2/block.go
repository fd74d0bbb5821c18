// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bzip2

import (
	"runtime"
	"sync"

	"github.com/blockzip/blockzip/internal/errors"
)

// BlockConfig configures the block encoder.
// A nil *BlockConfig is equivalent to the zero value.
type BlockConfig struct {
	// MaxCodeLen limits the length of the Huffman codes.
	// If zero, MaxCodeLen is used.
	MaxCodeLen int

	_ struct{} // Blank field to prevent unkeyed struct literals
}

// EncodedBlock holds the output of every stage of EncodeBlock.
type EncodedBlock struct {
	BWT   BWT
	MTF   MTF
	Freqs FrequencyTable
	Tree  *HuffmanTree
	Codes CodeTable
}

// EncodeBlock runs the Burrows-Wheeler transform, the move-to-front run coder
// and the Huffman code construction over block.
func EncodeBlock(block []byte, cfg *BlockConfig) (*EncodedBlock, error) {
	var maxLen int
	if cfg != nil {
		maxLen = cfg.MaxCodeLen
	}

	eb := &EncodedBlock{BWT: EncodeBWT(block)}
	eb.MTF = EncodeMTF(eb.BWT.Data)
	eb.Freqs = BuildFrequencyTable(eb.MTF)
	t, codes, err := BuildCodeTable(eb.Freqs, maxLen)
	if err != nil {
		return nil, err
	}
	eb.Tree, eb.Codes = t, codes
	return eb, nil
}

// Keys returns the key of every symbol followed by the end-of-block key.
func (eb *EncodedBlock) Keys() []uint16 {
	keys := make([]uint16, 0, len(eb.MTF.Symbols)+1)
	for _, s := range eb.MTF.Symbols {
		keys = append(keys, uint16(s.Key()))
	}
	return append(keys, uint16(EOBKey(len(eb.MTF.Stack))))
}

// DecodeBlock reverses the move-to-front run coder and then the
// Burrows-Wheeler transform with the origin pointer ptr.
func DecodeBlock(ptr int, m MTF) ([]byte, error) {
	data, err := DecodeMTF(m)
	if err != nil {
		return nil, err
	}
	return DecodeBWT(BWT{Data: data, OrigPtr: ptr})
}

// SymbolsFromKeys converts a sequence of keys terminated by the
// end-of-block key back into symbols. The first key of 1 is always RunB,
// since Value(0) is never produced by EncodeMTF.
//
// A missing end-of-block key, keys following it, or a key larger than it
// results in a Corrupted error.
func SymbolsFromKeys(keys []uint16, stackLen int) ([]Symbol, error) {
	eob := EOBKey(stackLen)
	syms := make([]Symbol, 0, len(keys))
	for i, k := range keys {
		switch {
		case k == 0:
			syms = append(syms, RunASymbol)
		case k == 1:
			syms = append(syms, RunBSymbol)
		case int(k) < eob:
			syms = append(syms, ValueSymbol(uint8(k-1)))
		case int(k) == eob:
			if i != len(keys)-1 {
				return nil, errorf(errors.Corrupted, "%d keys after end of block", len(keys)-1-i)
			}
			return syms, nil
		default:
			return nil, errorf(errors.Corrupted, "key %d exceeds end of block key %d", k, eob)
		}
	}
	return nil, errorf(errors.Corrupted, "missing end of block key")
}

// EncodeBlocks encodes each of the blocks with EncodeBlock. The blocks are
// independent and are encoded concurrently. The results are in the same
// order as the input. If any block fails, the error of the first such block
// is returned.
func EncodeBlocks(blocks [][]byte, cfg *BlockConfig) ([]*EncodedBlock, error) {
	ebs := make([]*EncodedBlock, len(blocks))
	errs := make([]error, len(blocks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i := range blocks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			ebs[i], errs[i] = EncodeBlock(blocks[i], cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ebs, nil
}
