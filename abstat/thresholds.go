// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abstat turns the statistics computed by package abmath into
// experiment reports: it applies decision thresholds, computes uplift,
// and lays the results out as sortable tables that format as text or
// CSV.
package abstat

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/abtest/abmath"
)

// A Rule combines the probability and loss thresholds into a single
// decision.
type Rule int

const (
	// Either declares the treatment the winner when its win
	// probability reaches the threshold or its expected loss falls
	// to the loss threshold.
	Either Rule = iota
	// Both requires both conditions.
	Both
)

func (r Rule) String() string {
	switch r {
	case Either:
		return "either"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule parses "either" or "both", ignoring case.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(s) {
	case "either", "or":
		return Either, nil
	case "both", "and":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown decision rule %q", s)
}

// Thresholds are the caller's policy for turning posterior quantities
// into decisions.
type Thresholds struct {
	// Probability is the win probability, in percent, at which
	// the treatment is declared the winner.
	Probability float64

	// Loss is the largest expected loss, in percentage points of
	// conversion rate, accepted when shipping the treatment.
	Loss float64

	Rule Rule

	// SRMAlpha is the p-value at or below which a sample ratio
	// mismatch is reported.
	SRMAlpha float64

	// Significance is the alpha level of t-test comparisons.
	Significance float64
}

// DefaultThresholds are used when a zero Thresholds is supplied.
var DefaultThresholds = Thresholds{
	Probability:  95,
	Loss:         0.06,
	Rule:         Either,
	SRMAlpha:     0.05,
	Significance: abmath.Alpha05,
}

// orDefault returns DefaultThresholds if t is the zero value.
func (t Thresholds) orDefault() Thresholds {
	if t == (Thresholds{}) {
		return DefaultThresholds
	}
	return t
}

// Validate reports whether every threshold is in range.
func (t Thresholds) Validate() error {
	switch {
	case !(t.Probability > 0 && t.Probability <= 100):
		return fmt.Errorf("probability threshold %v%% not in (0, 100]", t.Probability)
	case !(t.Loss >= 0) || math.IsInf(t.Loss, 1):
		return fmt.Errorf("loss threshold %v is not a finite non-negative number", t.Loss)
	case t.Rule != Either && t.Rule != Both:
		return fmt.Errorf("bad decision rule %v", t.Rule)
	case !(t.SRMAlpha > 0 && t.SRMAlpha < 1):
		return fmt.Errorf("SRM alpha %v not in (0, 1)", t.SRMAlpha)
	case !(t.Significance > 0 && t.Significance < 1):
		return fmt.Errorf("significance %v not in (0, 1)", t.Significance)
	}
	return nil
}

// TreatmentWins applies t to a Bayesian comparison.
func (t Thresholds) TreatmentWins(r abmath.BayesResult) bool {
	prob := r.ProbTreatmentWins >= t.Probability/100
	loss := r.LossTreatment <= t.Loss
	if t.Rule == Both {
		return prob && loss
	}
	return prob || loss
}
