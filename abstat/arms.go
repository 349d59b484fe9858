// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"golang.org/x/abtest/abmath"
)

// An Arm is one named arm of a multi-arm conversion experiment.
type Arm struct {
	Name string
	abmath.Observation
}

// An ArmsReport ranks the arms of a multi-arm experiment by their
// chance of having the highest conversion rate.
type ArmsReport struct {
	Arms []Arm

	// ProbBest[i] is the sampled probability that Arms[i] has the
	// highest rate.
	ProbBest []float64
	Draws    int

	// SRM checks the arm sizes against an even split.
	SRM      abmath.SRMResult
	SRMAlert bool
	SRMAlpha float64
}

// AnalyzeArms samples the posteriors of two or more arms with mc and
// checks their sizes against an even split. If srmAlpha is zero,
// DefaultThresholds is used.
func AnalyzeArms(ctx context.Context, arms []Arm, mc *abmath.MonteCarlo, srmAlpha float64) (*ArmsReport, error) {
	if len(arms) < 2 {
		return nil, fmt.Errorf("need at least two arms, have %d", len(arms))
	}
	if srmAlpha == 0 {
		srmAlpha = DefaultThresholds.SRMAlpha
	}
	if !(srmAlpha > 0 && srmAlpha < 1) {
		return nil, fmt.Errorf("SRM alpha %v is outside (0, 1)", srmAlpha)
	}
	if mc == nil {
		mc = &abmath.MonteCarlo{}
	}
	r := &ArmsReport{Arms: arms, SRMAlpha: srmAlpha}

	posts := make([]abmath.BetaPosterior, len(arms))
	users := make([]int, len(arms))
	even := make([]float64, len(arms))
	for i, a := range arms {
		p, err := a.Posterior()
		if err != nil {
			return nil, fmt.Errorf("arm %s: %w", a.Name, err)
		}
		posts[i], users[i], even[i] = p, a.Users, 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		probs, err := mc.ProbBest(posts)
		if err != nil {
			return fmt.Errorf("sampling posteriors: %w", err)
		}
		r.ProbBest = probs
		return nil
	})
	g.Go(func() error {
		res, err := abmath.SRMWeighted(users, even)
		if err != nil {
			return fmt.Errorf("checking sample ratio: %w", err)
		}
		r.SRM = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.Draws = mc.Draws
	if r.Draws == 0 {
		r.Draws = abmath.DefaultDraws
	}
	r.SRMAlert = r.SRM.Mismatch(srmAlpha)
	return r, nil
}

// Best returns the index of the arm most likely to have the highest
// rate. Ties go to the earlier arm.
func (r *ArmsReport) Best() int {
	best := 0
	for i, p := range r.ProbBest {
		if p > r.ProbBest[best] {
			best = i
		}
	}
	return best
}
