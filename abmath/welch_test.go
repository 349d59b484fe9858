// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var exampleGroups = []GroupSummary{
	{Name: "Control", Mean: 53.9624, StdDev: 83.2523, Count: 1128},
	{Name: "Blood Tests", Mean: 61.8059, StdDev: 56.2002, Count: 1224},
	{Name: "Supplements", Mean: 43.5993, StdDev: 46.5578, Count: 1144},
	{Name: "Premature Ejac", Mean: 76.0424, StdDev: 101.8017, Count: 1132},
	{Name: "Weight Loss", Mean: 81.945, StdDev: 117.3758, Count: 1138},
}

func TestCompareWelch(t *testing.T) {
	results, err := CompareWelch(exampleGroups[0], exampleGroups[1:], Alpha05)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	type summary struct {
		T, DoF, RelativeDiff float64
		Direction            int
	}
	var got []summary
	for _, r := range results {
		got = append(got, summary{r.T, r.DoF, r.RelativeDiff, r.Direction()})
	}
	want := []summary{
		{-2.6553985383243583, 1954.6802718863955, 0.1453512075074496, 1},
		{3.6549573362162384, 1763.8582278959796, -0.19204297807362167, -1},
		{-5.644942268788879, 2175.277180410494, 0.4091737950869494, 1},
		{-6.550078498126206, 2051.009334336454, 0.5185573658695682, 1},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 0)); diff != "" {
		t.Errorf("Welch statistics mismatch (-want +got):\n%s", diff)
	}

	// With ~2000 degrees of freedom the t distribution is close
	// to normal; normal-approximation p-values bracket these.
	blood := results[0]
	if blood.P < 0.0078 || blood.P > 0.0082 {
		t.Errorf("Blood Tests p = %v, want ≈0.0080", blood.P)
	}
	if !blood.Significant() {
		t.Errorf("Blood Tests should be significant at %v", blood.Alpha)
	}
	for _, r := range results {
		if !r.Significant() {
			t.Errorf("%s: p = %v, want significant", r.Group.Name, r.P)
		}
		if r.N1 != 1128 || r.N2 != r.Group.Count {
			t.Errorf("%s: n = %d+%d", r.Group.Name, r.N1, r.N2)
		}
	}

	// The interval uses the group's own standard error and n-1
	// degrees of freedom: t(0.975, 1223) ≈ 1.96189.
	half := 1.96189 * 56.2002 / math.Sqrt(1224)
	if math.Abs(blood.Lo-(61.8059-half)) > 1e-3 || math.Abs(blood.Hi-(61.8059+half)) > 1e-3 {
		t.Errorf("Blood Tests CI = [%v, %v], want 61.8059 ± %v", blood.Lo, blood.Hi, half)
	}
	if got := blood.String(); got != "p=0.008 n=1128+1224" {
		t.Errorf("String() = %q", got)
	}
	if got := blood.FormatDelta(); got != "+14.54%" {
		t.Errorf("FormatDelta() = %q", got)
	}
	if got := blood.PctRangeString(); got != "±5%" {
		t.Errorf("PctRangeString() = %q", got)
	}
}

func TestCompareWelchIdentical(t *testing.T) {
	g := GroupSummary{Name: "A", Mean: 10, StdDev: 2, Count: 30}
	v := g
	v.Name = "B"
	for _, alpha := range []float64{Alpha10, Alpha05, Alpha01} {
		results, err := CompareWelch(g, []GroupSummary{v}, alpha)
		if err != nil {
			t.Fatal(err)
		}
		r := results[0]
		if r.T != 0 || math.Abs(r.P-1) > 1e-12 || r.Significant() {
			t.Errorf("identical groups at α=%v: t=%v p=%v significant=%v", alpha, r.T, r.P, r.Significant())
		}
		if math.Abs(r.DoF-58) > 1e-9 {
			t.Errorf("identical groups: dof = %v, want 58", r.DoF)
		}
		if r.Direction() != 0 || r.FormatDelta() != "~" {
			t.Errorf("identical groups: direction %d, delta %q", r.Direction(), r.FormatDelta())
		}
		if r.String() != "p=1.000 n=30" {
			t.Errorf("String() = %q", r.String())
		}
	}
}

func TestCompareWelchInterval(t *testing.T) {
	// t(0.975, 9) = 2.262157.
	c := GroupSummary{Name: "c", Mean: 4, StdDev: 1, Count: 10}
	v := GroupSummary{Name: "v", Mean: 5, StdDev: 1, Count: 10}
	results, err := CompareWelch(c, []GroupSummary{v}, Alpha05)
	if err != nil {
		t.Fatal(err)
	}
	half := 2.262157 / math.Sqrt(10)
	r := results[0]
	if math.Abs(r.Lo-(5-half)) > 1e-5 || math.Abs(r.Hi-(5+half)) > 1e-5 {
		t.Errorf("CI = [%v, %v], want 5 ± %v", r.Lo, r.Hi, half)
	}
	if !(r.Lo < v.Mean && v.Mean < r.Hi) {
		t.Errorf("CI [%v, %v] excludes the mean", r.Lo, r.Hi)
	}

	// A stricter level widens the interval.
	strict, _ := CompareWelch(c, []GroupSummary{v}, Alpha01)
	if !(strict[0].Hi-strict[0].Lo > r.Hi-r.Lo) {
		t.Errorf("99%% CI %v..%v not wider than 95%% CI %v..%v", strict[0].Lo, strict[0].Hi, r.Lo, r.Hi)
	}
}

func TestCompareWelchErrors(t *testing.T) {
	ok := GroupSummary{Name: "ok", Mean: 1, StdDev: 1, Count: 10}
	check := func(control GroupSummary, v GroupSummary, alpha float64, want error) {
		t.Helper()
		_, err := CompareWelch(control, []GroupSummary{v}, alpha)
		if !errors.Is(err, want) {
			t.Errorf("CompareWelch(%+v, %+v, %v): got error %v, want %v", control, v, alpha, err, want)
		}
	}
	check(ok, GroupSummary{Name: "one", Mean: 1, StdDev: 1, Count: 1}, Alpha05, ErrDegenerate)
	check(GroupSummary{Name: "one", Mean: 1, StdDev: 1, Count: 1}, ok, Alpha05, ErrDegenerate)
	check(GroupSummary{Name: "flat", Mean: 1, Count: 5}, GroupSummary{Name: "flat2", Mean: 2, Count: 5}, Alpha05, ErrDegenerate)
	check(ok, GroupSummary{Name: "neg", Mean: 1, StdDev: -1, Count: 5}, Alpha05, ErrDomain)
	check(ok, GroupSummary{Name: "nan", Mean: math.NaN(), StdDev: 1, Count: 5}, Alpha05, ErrDomain)
	check(ok, GroupSummary{Name: "negcount", Mean: 1, StdDev: 1, Count: -3}, Alpha05, ErrDomain)
	check(GroupSummary{Name: "zero", Mean: 0, StdDev: 1, Count: 5}, ok, Alpha05, ErrDomain)
	check(ok, ok, 0, ErrDomain)
	check(ok, ok, 1, ErrDomain)

	// One flat group is fine as long as the other varies.
	if _, err := CompareWelch(ok, []GroupSummary{{Name: "flat", Mean: 2, Count: 5}}, Alpha05); err != nil {
		t.Errorf("one zero-variance group: %v", err)
	}
}
