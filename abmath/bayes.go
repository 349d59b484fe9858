// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

// A BayesResult is the Bayesian comparison of a control and a
// treatment conversion rate.
type BayesResult struct {
	// ProbTreatmentWins is the posterior probability that the
	// treatment's conversion rate exceeds the control's.
	ProbTreatmentWins float64

	// LossControl is the expected loss, in percentage points of
	// conversion rate, of shipping the control: E[max(pB-pA, 0)].
	LossControl float64

	// LossTreatment is the expected loss, in percentage points, of
	// shipping the treatment: E[max(pA-pB, 0)].
	LossTreatment float64
}

// ProbControlWins returns the posterior probability that the control
// is the better arm.
func (r BayesResult) ProbControlWins() float64 {
	return 1 - r.ProbTreatmentWins
}

// CompareBinomial compares the conversion rates of control and
// treatment using the closed-form win probability and expected loss.
// The result is deterministic.
//
// Swapping the arguments swaps the roles exactly: the win
// probabilities sum to 1 and the two losses trade places.
func CompareBinomial(control, treatment Observation) (BayesResult, error) {
	a, err := control.Posterior()
	if err != nil {
		return BayesResult{}, err
	}
	b, err := treatment.Posterior()
	if err != nil {
		return BayesResult{}, err
	}
	return ComparePosteriors(a, b)
}

// ComparePosteriors is CompareBinomial for posteriors that have
// already been computed. b.Alpha and a.Alpha must be integers.
func ComparePosteriors(a, b BetaPosterior) (BayesResult, error) {
	p, err := ProbBeats(b, a)
	if err != nil {
		return BayesResult{}, err
	}
	lossA, err := ExpectedLoss(b, a)
	if err != nil {
		return BayesResult{}, err
	}
	lossB, err := ExpectedLoss(a, b)
	if err != nil {
		return BayesResult{}, err
	}
	return BayesResult{
		ProbTreatmentWins: p,
		LossControl:       100 * lossA,
		LossTreatment:     100 * lossB,
	}, nil
}
