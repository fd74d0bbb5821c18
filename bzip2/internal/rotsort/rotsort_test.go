// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rotsort

import (
	"bytes"
	"testing"

	"github.com/blockzip/blockzip/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"
)

// naiveRotations sorts the rotations by materializing every one of them.
func naiveRotations(T []byte) []int {
	n := len(T)
	rots := make([][]byte, n)
	sa := make([]int, n)
	for i := range T {
		rots[i] = append(append([]byte(nil), T[i:]...), T[:i]...)
		sa[i] = i
	}
	slices.SortStableFunc(sa, func(a, b int) bool {
		return bytes.Compare(rots[a], rots[b]) < 0
	})
	return sa
}

func TestComputeRotations(t *testing.T) {
	r := testutil.NewRand(0)
	var vectors = []struct {
		input  string
		output []int // Skip if nil
	}{
		{input: "", output: []int{}},
		{input: "a", output: []int{0}},
		{input: "BANANA", output: []int{5, 3, 1, 0, 4, 2}},
		{input: "aaaa", output: []int{0, 1, 2, 3}},
		{input: "abababab", output: []int{0, 2, 4, 6, 1, 3, 5, 7}},
		{input: "abcabcab"},
		{input: "mississippi"},
		{input: string(testutil.Zeros(1000))},
		{input: string(testutil.Text(4096))},
		{input: string(testutil.Repeats(4096))},
		{input: string(testutil.Random(1024))},
	}
	for i := 0; i < 50; i++ {
		b := r.Bytes(1 + r.Intn(100))
		for j := range b {
			b[j] %= byte(1 + i%4)
		}
		vectors = append(vectors, struct {
			input  string
			output []int
		}{input: string(b)})
	}

	for i, v := range vectors {
		sa := make([]int, len(v.input))
		ComputeRotations([]byte(v.input), sa)

		want := v.output
		if want == nil {
			want = naiveRotations([]byte(v.input))
		}
		if diff := cmp.Diff(want, sa); diff != "" {
			t.Errorf("test %d, rotation order mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestComputeRotationsMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("unexpected success")
		}
	}()
	ComputeRotations([]byte("abc"), make([]int, 2))
}

func benchmarkRotations(b *testing.B, input []byte) {
	sa := make([]int, len(input))
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeRotations(input, sa)
	}
}

func BenchmarkRotationsZeros1e5(b *testing.B)   { benchmarkRotations(b, testutil.Zeros(1e5)) }
func BenchmarkRotationsText1e5(b *testing.B)    { benchmarkRotations(b, testutil.Text(1e5)) }
func BenchmarkRotationsRandom1e5(b *testing.B)  { benchmarkRotations(b, testutil.Random(1e5)) }
func BenchmarkRotationsRepeats1e5(b *testing.B) { benchmarkRotations(b, testutil.Repeats(1e5)) }
