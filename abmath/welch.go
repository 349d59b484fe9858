// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/mathx"
	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Standard significance levels for CompareWelch.
const (
	Alpha10 = 0.10
	Alpha05 = 0.05
	Alpha01 = 0.01
)

// A GroupSummary summarizes a sample of a continuous metric.
type GroupSummary struct {
	Name   string
	Mean   float64
	StdDev float64
	Count  int
}

func (g GroupSummary) validate(op string) error {
	if math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
		return domainErr(op, "group %q: mean %v is not finite", g.Name, g.Mean)
	}
	if !(g.StdDev >= 0) || math.IsInf(g.StdDev, 0) {
		return domainErr(op, "group %q: standard deviation %v is invalid", g.Name, g.StdDev)
	}
	if g.Count < 0 {
		return domainErr(op, "group %q: negative count %d", g.Name, g.Count)
	}
	if g.Count < 2 {
		return degenerateErr(op, "group %q: need at least 2 observations, got %d", g.Name, g.Count)
	}
	return nil
}

// ttestSample adapts a GroupSummary to stats.TTestSample.
type ttestSample struct{ g GroupSummary }

func (s ttestSample) Weight() float64   { return float64(s.g.Count) }
func (s ttestSample) Mean() float64     { return s.g.Mean }
func (s ttestSample) Variance() float64 { return s.g.StdDev * s.g.StdDev }

var _ stats.TTestSample = ttestSample{}

// A TTestResult is the result of comparing one group against the
// control with Welch's t-test.
type TTestResult struct {
	// Group is the compared (non-control) group.
	Group GroupSummary

	// T is the t-statistic (control mean - group mean) / SE.
	T float64

	// DoF is the Welch-Satterthwaite degrees of freedom.
	DoF float64

	// P is the two-sided p-value.
	P float64

	// RelativeDiff is (group mean - control mean) / control mean.
	RelativeDiff float64

	// Lo and Hi bound the confidence interval around the group
	// mean at level 1-Alpha.
	Lo, Hi float64

	// Alpha is the significance level of the comparison.
	Alpha float64

	// N1 and N2 are the control and group counts.
	N1, N2 int
}

// Significant reports whether the difference is significant at
// r.Alpha.
func (r TTestResult) Significant() bool {
	return r.P <= r.Alpha
}

// Direction returns the sign of the effect: 1 if the group mean is
// above the control mean, -1 if below, 0 if equal.
func (r TTestResult) Direction() int {
	return int(mathx.Sign(-r.T))
}

// String summarizes the comparison. The general form of this string
// is "p=0.PPP n=N1+N2".
func (r TTestResult) String() string {
	s := fmt.Sprintf("p=%0.3f ", r.P)
	if r.N1 == r.N2 {
		return s + fmt.Sprintf("n=%d", r.N1)
	}
	return s + fmt.Sprintf("n=%d+%d", r.N1, r.N2)
}

// FormatDelta formats the relative difference of the group mean from
// the control mean. If the difference is not significant, it returns
// "~".
func (r TTestResult) FormatDelta() string {
	if !r.Significant() {
		return "~"
	}
	if r.RelativeDiff == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%+.2f%%", r.RelativeDiff*100)
}

// PctRangeString returns the half-width of the confidence interval
// as a percentage of the group mean, for example "±4%".
func (r TTestResult) PctRangeString() string {
	m := r.Group.Mean
	if math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) {
		return "∞"
	}
	// The bounds must share the mean's sign to read as a percent.
	if sign := mathx.Sign(m); sign != mathx.Sign(r.Lo) || sign != mathx.Sign(r.Hi) {
		return "?"
	}
	if m == 0 {
		return "0%"
	}
	v := math.Max(r.Hi/m-1, 1-r.Lo/m)
	return fmt.Sprintf("±%.0f%%", 100*v)
}

// CompareWelch compares each variant against control with Welch's
// unequal-variance t-test at significance level alpha.
//
// The confidence interval of each result is centered on the variant
// mean and uses the variant's own standard error and n-1 degrees of
// freedom, not the Welch degrees of freedom of the test.
func CompareWelch(control GroupSummary, variants []GroupSummary, alpha float64) ([]TTestResult, error) {
	const op = "CompareWelch"
	if !(alpha > 0 && alpha < 1) {
		return nil, domainErr(op, "significance level %v is outside (0, 1)", alpha)
	}
	if err := control.validate(op); err != nil {
		return nil, err
	}
	if control.Mean == 0 {
		return nil, domainErr(op, "control %q has zero mean; relative difference is undefined", control.Name)
	}

	results := make([]TTestResult, 0, len(variants))
	for _, v := range variants {
		r, err := welch(op, control, v, alpha)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func welch(op string, control, v GroupSummary, alpha float64) (TTestResult, error) {
	if err := v.validate(op); err != nil {
		return TTestResult{}, err
	}
	t, err := stats.TwoSampleWelchTTest(ttestSample{control}, ttestSample{v}, stats.LocationDiffers)
	switch {
	case errors.Is(err, stats.ErrZeroVariance):
		return TTestResult{}, degenerateErr(op, "groups %q and %q both have zero variance", control.Name, v.Name)
	case errors.Is(err, stats.ErrSampleSize):
		return TTestResult{}, degenerateErr(op, "groups %q and %q are too small", control.Name, v.Name)
	case err != nil:
		return TTestResult{}, fmt.Errorf("abmath: %s: %w", op, err)
	}

	n := float64(v.Count)
	q := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}.Quantile(1 - alpha/2)
	half := q * v.StdDev / math.Sqrt(n)

	return TTestResult{
		Group:        v,
		T:            t.T,
		DoF:          t.DoF,
		P:            clamp01(t.P),
		RelativeDiff: (v.Mean - control.Mean) / control.Mean,
		Lo:           v.Mean - half,
		Hi:           v.Mean + half,
		Alpha:        alpha,
		N1:           t.N1,
		N2:           t.N2,
	}, nil
}
