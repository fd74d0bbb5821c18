// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements functions to manipulate compression errors.
//
// In idiomatic Go, it is an anti-pattern to use panics as a form of error
// reporting in the API. Instead, the expected way to transmit errors is by
// returning an error value. Unfortunately, the checking of "err != nil" in
// tight loops commonly found in compression causes non-negligible performance
// degradation. While this may not be idiomatic, the internal packages of this
// repository rely on panics as a normal means to convey errors. In order to
// ensure that these panics do not leak across the public API, the public
// packages must recover from these panics and present an error value.
//
// The Panic and Recover functions in this package provide a safe way to
// recover from errors only generated from within this repository.
//
// Example usage:
//
//	func Foo() (err error) {
//		defer errors.Recover(&err)
//
//		if rand.Intn(2) == 0 {
//			// Unexpected panics will not be caught by Recover.
//			io.Closer(nil).Close()
//		} else {
//			// Errors generated by Panic will be caught by Recover.
//			errors.Panic(errors.New("whoopsie"))
//		}
//	}
package errors

import (
	stderrors "errors"
	"strings"
)

const (
	// Unknown indicates that there is no classification for this error.
	Unknown = iota

	// Internal indicates that this error is due to an internal bug.
	// Users should file a issue report if this type of error is encountered.
	Internal

	// Invalid indicates that this error is due to the user misusing the API
	// and is indicative of a bug on the user's part.
	Invalid

	// OutOfRange indicates that an index read from the input (such as the
	// BWT origin pointer or a move-to-front index) does not refer to an
	// element of the sequence it indexes.
	OutOfRange

	// Corrupted indicates that the input stream is malformed and cannot be
	// consumed by the decoder.
	Corrupted

	// Constraint indicates that a requested limit cannot be satisfied,
	// such as fitting a prefix code into a maximum bit-length.
	Constraint
)

var codeMap = map[int]string{
	Unknown:    "unknown error",
	Internal:   "internal error",
	Invalid:    "invalid argument",
	OutOfRange: "index out of range",
	Corrupted:  "corrupted input",
	Constraint: "constraint violation",
}

// Error is the error type used by every package in this module.
type Error struct {
	Code int    // The error type
	Pkg  string // Name of the package where the error originated
	Msg  string // Descriptive message about the error (optional)
}

func (e Error) Error() string {
	var ss []string
	for _, s := range []string{e.Pkg, codeMap[e.Code], e.Msg} {
		if s != "" {
			ss = append(ss, s)
		}
	}
	return strings.Join(ss, ": ")
}

func (e Error) IsInternal() bool   { return e.Code == Internal }
func (e Error) IsInvalid() bool    { return e.Code == Invalid }
func (e Error) IsOutOfRange() bool { return e.Code == OutOfRange }
func (e Error) IsCorrupted() bool  { return e.Code == Corrupted }
func (e Error) IsConstraint() bool { return e.Code == Constraint }

func IsInternal(err error) bool   { return isCode(err, Internal) }
func IsInvalid(err error) bool    { return isCode(err, Invalid) }
func IsOutOfRange(err error) bool { return isCode(err, OutOfRange) }
func IsCorrupted(err error) bool  { return isCode(err, Corrupted) }
func IsConstraint(err error) bool { return isCode(err, Constraint) }

func isCode(err error, code int) bool {
	var cerr Error
	return stderrors.As(err, &cerr) && cerr.Code == code
}

// errWrap is used by Panic and Recover to ensure that only errors raised by
// Panic are recovered by Recover.
type errWrap struct{ e *error }

// Recover catches a panic raised by Panic and stores the error in err.
// Any other panic, including runtime errors, is propagated.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case errWrap:
		*err = *ex.e
	default:
		panic(ex)
	}
}

// Panic raises err so that it may be caught by Recover.
func Panic(err error) {
	panic(errWrap{&err})
}
