// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"math"

	"github.com/aclements/go-moremath/mathx"
	"gonum.org/v1/gonum/mathext"
)

// Ln returns the natural logarithm of x. It fails with a DomainError
// if x is not positive.
func Ln(x float64) (float64, error) {
	if !(x > 0) {
		return 0, domainErr("Ln", "argument %v is not positive", x)
	}
	return math.Log(x), nil
}

// LogBeta returns the natural logarithm of the complete beta function
// B(x, y).
//
// This is computed from log-gamma differences, so it stays finite for
// arguments in the thousands where B(x, y) itself underflows.
func LogBeta(x, y float64) (float64, error) {
	if !(x > 0) || !(y > 0) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, domainErr("LogBeta", "arguments (%v, %v) must be positive and finite", x, y)
	}
	return mathext.Lbeta(x, y), nil
}

// RegIncBeta returns the regularized incomplete beta function Iₓ(a, b).
func RegIncBeta(x, a, b float64) (float64, error) {
	if !(x >= 0 && x <= 1) {
		return 0, domainErr("RegIncBeta", "x=%v is outside [0, 1]", x)
	}
	if !(a > 0) || !(b > 0) {
		return 0, domainErr("RegIncBeta", "shape parameters (%v, %v) must be positive", a, b)
	}
	return clamp01(mathx.BetaInc(x, a, b)), nil
}

// lbeta is LogBeta for arguments already known to be valid.
func lbeta(x, y float64) float64 {
	return mathext.Lbeta(x, y)
}

// clamp01 forces a probability computed with some cancellation back
// into [0, 1].
func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
