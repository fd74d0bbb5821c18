// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "github.com/blockzip/blockzip/internal/errors"

// Node is a single node of a Tree. A leaf carries a symbol and has no
// children. A branch has Sym set to -1 and a count equal to the sum of its
// children's counts.
type Node struct {
	Cnt   uint64
	Sym   int
	Left  int // Index of the left child, or -1
	Right int // Index of the right child, or -1
}

func (n Node) IsLeaf() bool { return n.Sym >= 0 }

// Tree is a binary prefix tree kept in an arena of nodes addressed by index.
// Every node except the root has exactly one parent.
type Tree struct {
	Nodes []Node
	Root  int // Index of the root node, or -1 for an empty tree
}

// BuildTree constructs a Huffman tree over the given codes using the
// two-queue method. The Cnt and Sym fields are used; the input slice is not
// modified.
//
// Merges are fully deterministic. Leaves are queued by count and then by
// symbol, while branches are queued in the order they are created. The next
// node taken is the one with the lowest count, preferring the leaf when a
// leaf and a branch have equal counts. The first node taken in a merge
// becomes the left child.
func BuildTree(codes PrefixCodes) *Tree {
	leaves := append(PrefixCodes(nil), codes...)
	leaves.SortByCount()

	t := &Tree{Root: -1, Nodes: make([]Node, 0, 2*len(leaves))}
	for _, c := range leaves {
		t.Nodes = append(t.Nodes, Node{Cnt: uint64(c.Cnt), Sym: int(c.Sym), Left: -1, Right: -1})
	}
	if len(leaves) == 0 {
		return t
	}

	// Leaves occupy Nodes[:len(leaves)] and branches are appended after them,
	// so each queue is just a moving index.
	li, bi := 0, len(leaves)
	next := func() (idx int) {
		if li < len(leaves) && (bi == len(t.Nodes) || t.Nodes[li].Cnt <= t.Nodes[bi].Cnt) {
			li++
			return li - 1
		}
		bi++
		return bi - 1
	}
	for i := 1; i < len(leaves); i++ {
		l := next()
		r := next()
		t.Nodes = append(t.Nodes, Node{Cnt: t.Nodes[l].Cnt + t.Nodes[r].Cnt, Sym: -1, Left: l, Right: r})
	}
	t.Root = len(t.Nodes) - 1
	return t
}

// TreeFromCodes constructs the tree whose root-to-leaf paths are the given
// codes, reading each Val from the most significant of its Len bits.
// Left edges are 0 bits and right edges are 1 bits. The codes need not form
// a complete tree, but no code may be the prefix of another.
func TreeFromCodes(codes PrefixCodes) (*Tree, error) {
	t := &Tree{Root: -1}
	if len(codes) == 0 {
		return t, nil
	}
	t.Nodes = append(t.Nodes, Node{Sym: -1, Left: -1, Right: -1})
	t.Root = 0

	for _, c := range codes {
		if c.Len == 0 || c.Len > MaxBits || uint64(c.Val)>>c.Len > 0 {
			return nil, errorf(errors.Invalid, "invalid code %d:%d for symbol %d", c.Val, c.Len, c.Sym)
		}
		idx := t.Root
		for i := int(c.Len) - 1; i >= 0; i-- {
			if t.Nodes[idx].IsLeaf() {
				return nil, errorf(errors.Invalid, "overlapping prefix for symbol %d", c.Sym)
			}
			bit := (c.Val >> uint(i)) & 1
			child := t.Nodes[idx].Left
			if bit == 1 {
				child = t.Nodes[idx].Right
			}
			if child >= 0 {
				if i == 0 {
					return nil, errorf(errors.Invalid, "overlapping prefix for symbol %d", c.Sym)
				}
				idx = child
				continue
			}

			child = len(t.Nodes)
			if i == 0 {
				t.Nodes = append(t.Nodes, Node{Cnt: uint64(c.Cnt), Sym: int(c.Sym), Left: -1, Right: -1})
			} else {
				t.Nodes = append(t.Nodes, Node{Sym: -1, Left: -1, Right: -1})
			}
			if bit == 1 {
				t.Nodes[idx].Right = child
			} else {
				t.Nodes[idx].Left = child
			}
			idx = child
		}
	}

	// Children always follow their parent in the arena.
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		if n := &t.Nodes[i]; !n.IsLeaf() {
			n.Cnt = 0
			if n.Left >= 0 {
				n.Cnt += t.Nodes[n.Left].Cnt
			}
			if n.Right >= 0 {
				n.Cnt += t.Nodes[n.Right].Cnt
			}
		}
	}
	return t, nil
}

// Codes returns the code of every leaf, sorted by symbol, by walking the
// tree depth-first. A left edge appends a 0 bit and a right edge a 1 bit.
// A tree that is a single leaf yields the 1-bit code 0 for that leaf.
//
// The Val field is only meaningful for codes no longer than MaxBits.
func (t *Tree) Codes() PrefixCodes {
	var codes PrefixCodes
	if t.Root < 0 {
		return codes
	}
	if n := t.Nodes[t.Root]; n.IsLeaf() {
		return PrefixCodes{{Sym: uint32(n.Sym), Cnt: uint32(n.Cnt), Len: 1}}
	}
	t.walk(t.Root, 0, 0, func(n Node, val, nb uint32) {
		codes = append(codes, PrefixCode{Sym: uint32(n.Sym), Cnt: uint32(n.Cnt), Len: nb, Val: val})
	})
	codes.SortBySymbol()
	return codes
}

func (t *Tree) walk(idx int, val, nb uint32, fn func(n Node, val, nb uint32)) {
	n := t.Nodes[idx]
	if n.IsLeaf() {
		fn(n, val, nb)
		return
	}
	if n.Left >= 0 {
		t.walk(n.Left, val<<1, nb+1, fn)
	}
	if n.Right >= 0 {
		t.walk(n.Right, val<<1|1, nb+1, fn)
	}
}

// Depth reports the length of the longest code in the tree.
func (t *Tree) Depth() (depth int) {
	for _, c := range t.Codes() {
		if depth < int(c.Len) {
			depth = int(c.Len)
		}
	}
	return depth
}

// NumLeaves reports the number of symbols in the tree.
func (t *Tree) NumLeaves() (n int) {
	for _, nd := range t.Nodes {
		if nd.IsLeaf() {
			n++
		}
	}
	return n
}
