// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain matches any *DomainError with errors.Is.
	ErrDomain = errors.New("argument out of domain")

	// ErrDegenerate matches any *DegenerateInputError with errors.Is.
	ErrDegenerate = errors.New("degenerate input")
)

// A DomainError reports a numeric argument outside the domain of an
// operation, such as a non-positive logarithm argument or more
// conversions than users.
type DomainError struct {
	Op  string // operation that rejected the argument
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("abmath: %s: %s", e.Op, e.Msg)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// A DegenerateInputError reports input that is well-formed but for
// which a statistic is undefined, such as a group with a single
// observation.
type DegenerateInputError struct {
	Op  string
	Msg string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("abmath: %s: degenerate input: %s", e.Op, e.Msg)
}

func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerate
}

func domainErr(op, format string, args ...interface{}) error {
	return &DomainError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func degenerateErr(op, format string, args ...interface{}) error {
	return &DegenerateInputError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
