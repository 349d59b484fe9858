// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"fmt"

	"golang.org/x/abtest/abmath"
)

// A WelchTable compares every group of a continuous-metric experiment
// against the control group.
type WelchTable struct {
	Control abmath.GroupSummary
	Alpha   float64

	// Rows holds one comparison per non-control group, initially
	// in input order.
	Rows []abmath.TTestResult
}

// AnalyzeWelch runs Welch's t-test of groups[1:] against groups[0] at
// significance level alpha. If alpha is zero, DefaultThresholds is
// used.
func AnalyzeWelch(groups []abmath.GroupSummary, alpha float64) (*WelchTable, error) {
	if len(groups) < 2 {
		return nil, fmt.Errorf("need a control and at least one variant, have %d groups", len(groups))
	}
	if alpha == 0 {
		alpha = DefaultThresholds.Significance
	}
	rows, err := abmath.CompareWelch(groups[0], groups[1:], alpha)
	if err != nil {
		return nil, err
	}
	return &WelchTable{Control: groups[0], Alpha: alpha, Rows: rows}, nil
}

// Winners returns the names of the groups that are significantly
// better than the control, where higher means better.
func (t *WelchTable) Winners() []string {
	var names []string
	for _, r := range t.Rows {
		if r.Significant() && r.Direction() > 0 {
			names = append(names, r.Group.Name)
		}
	}
	return names
}
