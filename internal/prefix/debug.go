// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug
// +build debug

package prefix

import (
	"fmt"
	"strings"
)

func padBase2(v, n uint32, m int) string {
	var s string
	if n > 0 {
		s = fmt.Sprintf(fmt.Sprintf("%%0%db", n), v)
	}
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func lenBase10(n int) int { return len(fmt.Sprintf("%d", n)) }
func padBase10(n interface{}, m int) string {
	s := fmt.Sprintf("%d", n)
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func (pc PrefixCodes) String() string {
	var maxSym, maxLen, maxCnt int
	for _, c := range pc {
		if maxSym < int(c.Sym) {
			maxSym = int(c.Sym)
		}
		if maxLen < int(c.Len) {
			maxLen = int(c.Len)
		}
		if maxCnt < int(c.Cnt) {
			maxCnt = int(c.Cnt)
		}
	}
	maxSymStr := lenBase10(maxSym)
	maxCntStr := lenBase10(maxCnt)

	var ss []string
	ss = append(ss, "{")
	for _, c := range pc {
		var cntStr string
		if maxCnt > 0 {
			cnt := int(32*float32(c.Cnt)/float32(maxCnt) + 0.5)
			cntStr = fmt.Sprintf("%s |%s", padBase10(c.Cnt, maxCntStr), strings.Repeat("#", cnt))
		}
		ss = append(ss, fmt.Sprintf("\t%s:  %s,  %s",
			padBase10(c.Sym, maxSymStr),
			padBase2(c.Val, c.Len, maxLen),
			cntStr,
		))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

// String renders the tree sideways with the right subtree on top.
func (t *Tree) String() string {
	if t.Root < 0 {
		return "{}"
	}
	var ss []string
	var dump func(idx, depth int)
	dump = func(idx, depth int) {
		if idx < 0 {
			return
		}
		n := t.Nodes[idx]
		dump(n.Right, depth+1)
		if n.IsLeaf() {
			ss = append(ss, fmt.Sprintf("%s[%d] cnt=%d", strings.Repeat("\t", depth), n.Sym, n.Cnt))
		} else {
			ss = append(ss, fmt.Sprintf("%s* cnt=%d", strings.Repeat("\t", depth), n.Cnt))
		}
		dump(n.Left, depth+1)
	}
	dump(t.Root, 0)
	return strings.Join(ss, "\n")
}

func (pd Decoder) String() string {
	return fmt.Sprintf("{numSyms: %d, depth: %d,\n%v\n}", pd.numSyms, pd.tree.Depth(), pd.tree)
}
