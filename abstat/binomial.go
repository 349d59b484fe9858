// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"golang.org/x/abtest/abmath"
)

// BinomialOptions configure AnalyzeBinomial.
type BinomialOptions struct {
	// Thresholds is the decision policy. The zero value means
	// DefaultThresholds.
	Thresholds Thresholds

	// MonteCarlo, if non-nil, adds a sampling estimate of the win
	// probability and losses alongside the closed-form result.
	MonteCarlo *abmath.MonteCarlo

	// Allocation is the intended traffic split between control
	// and treatment, for example {9, 1}. Nil means an even split.
	Allocation []float64

	// DecideOnSampled makes the decision use the exact win
	// probability together with the Monte Carlo losses instead of
	// the exact losses. It has no effect without MonteCarlo.
	DecideOnSampled bool
}

// A BinomialReport is the complete analysis of a two-arm conversion
// experiment.
type BinomialReport struct {
	Control, Treatment abmath.Observation

	// Result is the closed-form Bayesian comparison.
	Result abmath.BayesResult

	// Sampled is the Monte Carlo estimate, or nil if none was
	// requested.
	Sampled *abmath.LossEstimate

	// SampledResult pairs the exact win probability with the
	// sampled losses. It is set only when Sampled is.
	SampledResult abmath.BayesResult

	// DecidedOnSampled reports whether TreatmentWins was decided
	// from SampledResult rather than Result.
	DecidedOnSampled bool

	SRM abmath.SRMResult

	// Uplift is the relative change of the treatment rate over
	// the control rate. It is NaN if the control rate is zero or
	// either arm has no users.
	Uplift float64

	// TreatmentWins is the decision under Thresholds.
	TreatmentWins bool

	// SRMAlert reports whether the observed split departs from
	// the intended one at Thresholds.SRMAlpha.
	SRMAlert bool

	Thresholds Thresholds
}

// AnalyzeBinomial compares control and treatment. The closed-form
// comparison, the optional Monte Carlo estimate, and the sample ratio
// check run concurrently.
func AnalyzeBinomial(ctx context.Context, control, treatment abmath.Observation, opts BinomialOptions) (*BinomialReport, error) {
	th := opts.Thresholds.orDefault()
	if err := th.Validate(); err != nil {
		return nil, err
	}
	r := &BinomialReport{Control: control, Treatment: treatment, Thresholds: th}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := abmath.CompareBinomial(control, treatment)
		if err != nil {
			return fmt.Errorf("comparing arms: %w", err)
		}
		r.Result = res
		return nil
	})
	if opts.MonteCarlo != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, est, err := opts.MonteCarlo.CompareBinomial(control, treatment)
			if err != nil {
				return fmt.Errorf("sampling posteriors: %w", err)
			}
			r.Sampled, r.SampledResult = est, res
			return nil
		})
	}
	g.Go(func() error {
		var (
			res abmath.SRMResult
			err error
		)
		if opts.Allocation == nil {
			res, err = abmath.SRM(control.Users, treatment.Users)
		} else {
			res, err = abmath.SRMWeighted([]int{control.Users, treatment.Users}, opts.Allocation)
		}
		if err != nil {
			return fmt.Errorf("checking sample ratio: %w", err)
		}
		r.SRM = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Uplift = uplift(control, treatment)
	decided := r.Result
	if opts.DecideOnSampled && r.Sampled != nil {
		decided, r.DecidedOnSampled = r.SampledResult, true
	}
	r.TreatmentWins = th.TreatmentWins(decided)
	r.SRMAlert = r.SRM.Mismatch(th.SRMAlpha)
	return r, nil
}

func uplift(control, treatment abmath.Observation) float64 {
	ra, errA := control.Rate()
	rb, errB := treatment.Rate()
	if errA != nil || errB != nil || ra == 0 {
		return math.NaN()
	}
	return (rb - ra) / ra
}

// Winner returns "treatment" or "control".
func (r *BinomialReport) Winner() string {
	if r.TreatmentWins {
		return "treatment"
	}
	return "control"
}
