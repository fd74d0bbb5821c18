// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import "strings"

// Corpus is the set of named inputs used by tests and benchmarks across the
// repository. Every generator is deterministic.
var Corpus = []struct {
	Name string
	Gen  func(n int) []byte
}{
	{"zeros", Zeros},
	{"random", Random},
	{"digits", Digits},
	{"text", Text},
	{"repeats", Repeats},
	{"binary", Binary},
}

// Zeros returns n zero bytes.
func Zeros(n int) []byte { return make([]byte, n) }

// Random returns n bytes of incompressible data.
func Random(n int) []byte { return NewRand(0).Bytes(n) }

// Digits returns n ASCII digits with an uneven distribution, so that prefix
// coding helps but long repeated contexts are rare.
func Digits(n int) []byte {
	r := NewRand(1)
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(r.Intn(r.Intn(10)+1))
	}
	return b
}

var words = strings.Fields(`
	the of and to a in that it was he i his you with for had as her not but
	at on she said be is which have my by all so this him were they from me
	them one there no would what if could when river boat raft tom huck jim
	widow island town night water shore steamboat fog canoe minute mississippi
`)

// Text returns n bytes of English-like prose built from a small vocabulary.
func Text(n int) []byte {
	r := NewRand(2)
	var sb strings.Builder
	sb.Grow(n + 32)
	for sb.Len() < n {
		w := words[r.Intn(r.Intn(len(words))+1)]
		switch p := r.Intn(100); {
		case p < 3:
			sb.WriteString(".\n")
			w = strings.ToUpper(w[:1]) + w[1:]
		case p < 12:
			sb.WriteString(", ")
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(w)
	}
	return []byte(sb.String()[:n])
}

// Repeats returns n bytes made mostly of copies of earlier random data, at a
// wide range of distances and lengths.
func Repeats(n int) []byte {
	r := NewRand(3)
	b := make([]byte, 0, n+512)

	randLen := func() int {
		switch p := r.Float32(); {
		case p <= 0.15:
			return 4 + r.Intn(4)
		case p <= 0.30:
			return 8 + r.Intn(8)
		case p <= 0.45:
			return 16 + r.Intn(16)
		case p <= 0.60:
			return 32 + r.Intn(32)
		case p <= 0.75:
			return 64 + r.Intn(64)
		case p <= 0.90:
			return 128 + r.Intn(128)
		default:
			return 256 + r.Intn(256)
		}
	}
	randDist := func() (d int) {
		for d == 0 || d > len(b) {
			shift := uint(r.Intn(15))
			d = 1<<shift + r.Intn(1<<shift)
		}
		return d
	}

	b = append(b, r.Bytes(randLen())...)
	for len(b) < n {
		if r.Float32() <= 0.1 {
			b = append(b, r.Bytes(randLen())...)
			continue
		}
		d, l := randDist(), randLen()
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}
	return b[:n]
}

// Binary returns n bytes resembling a table of little-endian records:
// slowly increasing counters interleaved with a few noisy fields.
func Binary(n int) []byte {
	r := NewRand(4)
	b := make([]byte, 0, n+16)
	var ctr uint32
	for len(b) < n {
		ctr += uint32(r.Intn(4))
		b = append(b, byte(ctr), byte(ctr>>8), byte(ctr>>16), byte(ctr>>24))
		b = append(b, 0, 0, byte(r.Intn(3)), 0xff)
		b = append(b, r.Bytes(r.Intn(3))...)
	}
	return b[:n]
}
