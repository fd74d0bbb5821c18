// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rotsort sorts the cyclic rotations of a string.
package rotsort

// The sort uses prefix doubling in the manner of Manber and Myers. After the
// pass with step k, every rotation is ranked by its first 2k bytes, so
// log2(n) passes of two stable counting sorts suffice. The work is
// O(n log n) regardless of how repetitive the input is.
//
// References:
//	https://doi.org/10.1137/0222058
//	https://www.cs.helsinki.fi/u/tpkarkka/opetus/11s/spa/lecture11.pdf

import "golang.org/x/exp/slices"

// ComputeRotations sorts the cyclic rotations of T and places the offset of
// each rotation into SA in ascending order. Rotations that are byte-for-byte
// equal, which only happens when T is periodic, are ordered by offset.
// Both T and SA must be the same length.
func ComputeRotations(T []byte, SA []int) {
	if len(SA) != len(T) {
		panic("mismatching sizes")
	}
	n := len(T)
	if n == 0 {
		return
	}

	rank := make([]int, n)
	tmp := make([]int, n)
	cnt := make([]int, n+257)

	// Counting sort on the first byte.
	for _, c := range T {
		cnt[int(c)+1]++
	}
	for i := 1; i <= 256; i++ {
		cnt[i] += cnt[i-1]
	}
	for i, c := range T {
		SA[cnt[c]] = i
		cnt[c]++
	}
	for j := 1; j < n; j++ {
		rank[SA[j]] = rank[SA[j-1]]
		if T[SA[j]] != T[SA[j-1]] {
			rank[SA[j]]++
		}
	}

	for k := 1; k < n && rank[SA[n-1]] < n-1; k <<= 1 {
		// SA is ordered by the first k bytes, so shifting every offset back
		// by k orders the rotations by their second half.
		for j, i := range SA {
			if i -= k; i < 0 {
				i += n
			}
			tmp[j] = i
		}

		// Stable counting sort by the first half.
		for i := range cnt[:n+1] {
			cnt[i] = 0
		}
		for _, i := range tmp {
			cnt[rank[i]+1]++
		}
		for i := 1; i <= n; i++ {
			cnt[i] += cnt[i-1]
		}
		for _, i := range tmp {
			SA[cnt[rank[i]]] = i
			cnt[rank[i]]++
		}

		tmp[SA[0]] = 0
		for j := 1; j < n; j++ {
			a, b := SA[j-1], SA[j]
			tmp[b] = tmp[a]
			if rank[a] != rank[b] || rank[(a+k)%n] != rank[(b+k)%n] {
				tmp[b]++
			}
		}
		rank, tmp = tmp, rank
	}

	// Groups of equal rank that remain are identical rotations.
	for lo := 0; lo < n; {
		hi := lo + 1
		for hi < n && rank[SA[hi]] == rank[SA[lo]] {
			hi++
		}
		if hi-lo > 1 {
			slices.Sort(SA[lo:hi])
		}
		lo = hi
	}
}
