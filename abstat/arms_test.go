// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golang.org/x/abtest/abmath"
)

var threeArms = []Arm{
	{"A", abmath.Observation{Users: 1000, Conversions: 50}},
	{"B", abmath.Observation{Users: 1000, Conversions: 80}},
	{"C", abmath.Observation{Users: 1000, Conversions: 41}},
}

func TestAnalyzeArms(t *testing.T) {
	r, err := AnalyzeArms(context.Background(), threeArms, abmath.NewSeededMonteCarlo(5000, 11), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.ProbBest) != 3 || r.Draws != 5000 {
		t.Fatalf("report = %+v", r)
	}
	var sum float64
	for _, p := range r.ProbBest {
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("P(best) sums to %v", sum)
	}
	if r.Best() != 1 || r.ProbBest[1] < 0.99 {
		t.Errorf("best arm %d with P %v, want B", r.Best(), r.ProbBest)
	}
	if r.SRM.ChiSquare != 0 || r.SRM.DoF != 2 || r.SRMAlert || r.SRMAlpha != DefaultThresholds.SRMAlpha {
		t.Errorf("SRM = %+v, alert %v", r.SRM, r.SRMAlert)
	}

	// Same seed, same result.
	again, err := AnalyzeArms(context.Background(), threeArms, abmath.NewSeededMonteCarlo(5000, 11), 0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r.ProbBest, again.ProbBest); diff != "" {
		t.Errorf("seeded runs differ (-first +second):\n%s", diff)
	}

	uneven := append([]Arm{{"D", abmath.Observation{Users: 2000, Conversions: 60}}}, threeArms...)
	r, err = AnalyzeArms(context.Background(), uneven, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !r.SRMAlert || r.Draws != abmath.DefaultDraws {
		t.Errorf("uneven arms: alert %v, draws %d", r.SRMAlert, r.Draws)
	}
}

func TestAnalyzeArmsErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := AnalyzeArms(ctx, threeArms[:1], nil, 0); err == nil {
		t.Errorf("a single arm was accepted")
	}
	bad := []Arm{threeArms[0], {"X", abmath.Observation{Users: 10, Conversions: 11}}}
	if _, err := AnalyzeArms(ctx, bad, nil, 0); !errors.Is(err, abmath.ErrDomain) {
		t.Errorf("impossible arm: got %v, want domain error", err)
	}
	if _, err := AnalyzeArms(ctx, threeArms, nil, 1.5); err == nil {
		t.Errorf("SRM alpha 1.5 was accepted")
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := AnalyzeArms(canceled, threeArms, nil, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context: got %v", err)
	}
}

func TestFormatArms(t *testing.T) {
	r := &ArmsReport{
		Arms:     threeArms,
		ProbBest: []float64{0.0125, 0.98, 0.0075},
		Draws:    10000,
		SRM:      abmath.SRMResult{ChiSquare: 0, DoF: 2, PValue: 1},
		SRMAlpha: 0.05,
	}
	var buf strings.Builder
	if err := FormatArmsText(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := `arm users convs  rate P(best) best
----------------------------------
A    1000    50 5.00%   1.25%
B    1000    80 8.00%  98.00% ✓
C    1000    41 4.10%   0.75%

best: B (10000 draws)
SRM: χ²=0 df=2 p=1.00000
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := FormatArmsCSV(&buf, r); err != nil {
		t.Fatal(err)
	}
	want = `arm,users,conversions,prob_best,best,srm_p
A,1000,50,0.0125,false,1
B,1000,80,0.98,true,1
C,1000,41,0.0075,false,1
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv (-want +got):\n%s", diff)
	}
}
