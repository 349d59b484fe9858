// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultDraws is the number of posterior draws a MonteCarlo takes
// when Draws is zero.
const DefaultDraws = 10000

// A MonteCarlo estimates win probabilities and expected losses by
// sampling from Beta posteriors.
//
// The zero value is ready to use: it takes DefaultDraws draws from a
// freshly seeded source on every call. Set Src for reproducible
// results; a MonteCarlo with a non-nil Src must not be used
// concurrently because the source is stateful.
type MonteCarlo struct {
	// Draws is the number of paired samples. If zero, DefaultDraws
	// is used.
	Draws int

	// Src is the random source. If nil, each call seeds a new
	// PCG source from the global generator.
	Src rand.Source
}

// NewSeededMonteCarlo returns a MonteCarlo that produces the same
// results for the same seed.
func NewSeededMonteCarlo(draws int, seed uint64) *MonteCarlo {
	return &MonteCarlo{Draws: draws, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (mc *MonteCarlo) draws() int {
	if mc == nil || mc.Draws == 0 {
		return DefaultDraws
	}
	return mc.Draws
}

func (mc *MonteCarlo) src() rand.Source {
	if mc == nil || mc.Src == nil {
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return mc.Src
}

// A LossEstimate is the Monte Carlo estimate of a control/treatment
// comparison.
type LossEstimate struct {
	// ProbTreatmentWins is the fraction of draws in which the
	// treatment rate exceeded the control rate.
	ProbTreatmentWins float64

	// LossControl and LossTreatment are the mean shortfall, in
	// percentage points, of shipping each arm. See BayesResult.
	LossControl, LossTreatment float64

	// Draws is the number of paired samples taken.
	Draws int

	// Diffs holds every sampled pB-pA difference in ascending
	// order. It is the full distribution behind the expected
	// losses.
	Diffs []float64
}

// CredibleInterval returns the equal-tailed interval of pB-pA that
// holds the given fraction of posterior mass, for example 0.95. If
// level is outside (0, 1) or there are no draws, both bounds are NaN.
func (e *LossEstimate) CredibleInterval(level float64) (lo, hi float64) {
	if !(level > 0 && level < 1) || len(e.Diffs) == 0 {
		return math.NaN(), math.NaN()
	}
	s := stats.Sample{Xs: e.Diffs, Sorted: true}
	tail := (1 - level) / 2
	return s.Quantile(tail), s.Quantile(1 - tail)
}

// Estimate samples the control and treatment posteriors and returns
// the empirical win probability and expected losses.
func (mc *MonteCarlo) Estimate(control, treatment BetaPosterior) (*LossEstimate, error) {
	const op = "MonteCarlo.Estimate"
	if err := control.validate(op); err != nil {
		return nil, err
	}
	if err := treatment.validate(op); err != nil {
		return nil, err
	}
	n := mc.draws()
	if n < 0 {
		return nil, domainErr(op, "negative draw count %d", n)
	}

	src := mc.src()
	da := distuv.Beta{Alpha: control.Alpha, Beta: control.Beta, Src: src}
	db := distuv.Beta{Alpha: treatment.Alpha, Beta: treatment.Beta, Src: src}

	diffs := make([]float64, n)
	var sumA, sumB float64
	wins := 0
	for i := range diffs {
		a, b := da.Rand(), db.Rand()
		d := b - a
		diffs[i] = d
		if d > 0 {
			sumA += d
			wins++
		} else {
			sumB -= d
		}
	}
	sort.Float64s(diffs)

	return &LossEstimate{
		ProbTreatmentWins: float64(wins) / float64(n),
		LossControl:       sumA / float64(n) * 100,
		LossTreatment:     sumB / float64(n) * 100,
		Draws:             n,
		Diffs:             diffs,
	}, nil
}

// ProbBest returns, for each posterior, the fraction of draws in
// which it had the highest rate. The fractions sum to 1.
func (mc *MonteCarlo) ProbBest(posteriors []BetaPosterior) ([]float64, error) {
	const op = "MonteCarlo.ProbBest"
	if len(posteriors) == 0 {
		return nil, domainErr(op, "no posteriors")
	}
	src := mc.src()
	dists := make([]distuv.Beta, len(posteriors))
	for i, p := range posteriors {
		if err := p.validate(op); err != nil {
			return nil, err
		}
		dists[i] = distuv.Beta{Alpha: p.Alpha, Beta: p.Beta, Src: src}
	}

	n := mc.draws()
	if n <= 0 {
		return nil, domainErr(op, "draw count %d is not positive", n)
	}
	counts := make([]int, len(posteriors))
	for i := 0; i < n; i++ {
		best, bestV := 0, -1.0
		for j := range dists {
			if v := dists[j].Rand(); v > bestV {
				best, bestV = j, v
			}
		}
		counts[best]++
	}
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = float64(c) / float64(n)
	}
	return probs, nil
}

// CompareBinomial compares control and treatment using the exact win
// probability and Monte Carlo expected losses.
func (mc *MonteCarlo) CompareBinomial(control, treatment Observation) (BayesResult, *LossEstimate, error) {
	a, err := control.Posterior()
	if err != nil {
		return BayesResult{}, nil, err
	}
	b, err := treatment.Posterior()
	if err != nil {
		return BayesResult{}, nil, err
	}
	p, err := ProbBeats(b, a)
	if err != nil {
		return BayesResult{}, nil, err
	}
	est, err := mc.Estimate(a, b)
	if err != nil {
		return BayesResult{}, nil, err
	}
	return BayesResult{
		ProbTreatmentWins: p,
		LossControl:       est.LossControl,
		LossTreatment:     est.LossTreatment,
	}, est, nil
}
