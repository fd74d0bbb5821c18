// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestError(t *testing.T) {
	var vectors = []struct {
		err    error
		str    string
		checks []func(error) bool
	}{{
		err:    Error{Code: OutOfRange, Pkg: "bzip2", Msg: "origin pointer 7 exceeds block length 6"},
		str:    "bzip2: index out of range: origin pointer 7 exceeds block length 6",
		checks: []func(error) bool{IsOutOfRange},
	}, {
		err:    Error{Code: Corrupted, Pkg: "bzip2"},
		str:    "bzip2: corrupted input",
		checks: []func(error) bool{IsCorrupted},
	}, {
		err:    Error{Code: Constraint, Msg: "258 symbols do not fit in 8 bits"},
		str:    "constraint violation: 258 symbols do not fit in 8 bits",
		checks: []func(error) bool{IsConstraint},
	}, {
		err:    fmt.Errorf("wrapped: %w", Error{Code: Invalid, Pkg: "prefix"}),
		str:    "wrapped: prefix: invalid argument",
		checks: []func(error) bool{IsInvalid},
	}, {
		err: io.EOF,
		str: "EOF",
	}}

	all := []func(error) bool{IsInternal, IsInvalid, IsOutOfRange, IsCorrupted, IsConstraint}
	for i, v := range vectors {
		if got := v.err.Error(); got != v.str {
			t.Errorf("test %d, Error() mismatch:\ngot  %q\nwant %q", i, got, v.str)
		}
		var want int
		for _, f := range all {
			if f(v.err) {
				want++
			}
		}
		if want != len(v.checks) {
			t.Errorf("test %d, got %d matching predicates, want %d", i, want, len(v.checks))
		}
		for j, f := range v.checks {
			if !f(v.err) {
				t.Errorf("test %d, predicate %d: got false, want true", i, j)
			}
		}
	}
}

func TestRecover(t *testing.T) {
	want := Error{Code: Corrupted, Pkg: "bzip2", Msg: "bad magic"}
	got := func() (err error) {
		defer Recover(&err)
		Panic(want)
		return nil
	}()
	if got != want {
		t.Errorf("Recover mismatch: got %v, want %v", got, want)
	}

	// Panics not raised through Panic must propagate.
	defer func() {
		if ex := recover(); ex == nil {
			t.Errorf("unexpected recovery of foreign panic")
		}
	}()
	func() (err error) {
		defer Recover(&err)
		panic("foreign")
	}()
}
