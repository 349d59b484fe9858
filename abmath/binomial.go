// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abmath

import (
	"math"

	"github.com/aclements/go-moremath/mathx"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// An Observation is the raw outcome of one arm of a binomial
// experiment.
type Observation struct {
	Users       int
	Conversions int
}

func (o Observation) validate(op string) error {
	if o.Users < 0 || o.Conversions < 0 {
		return domainErr(op, "negative count in %+v", o)
	}
	if o.Conversions > o.Users {
		return domainErr(op, "%d conversions exceed %d users", o.Conversions, o.Users)
	}
	return nil
}

// Rate returns the observed conversion rate.
func (o Observation) Rate() (float64, error) {
	if err := o.validate("Rate"); err != nil {
		return 0, err
	}
	if o.Users == 0 {
		return 0, domainErr("Rate", "no users")
	}
	return float64(o.Conversions) / float64(o.Users), nil
}

// Posterior returns the posterior distribution of the conversion rate
// under a uniform Beta(1, 1) prior.
func (o Observation) Posterior() (BetaPosterior, error) {
	if err := o.validate("Posterior"); err != nil {
		return BetaPosterior{}, err
	}
	return BetaPosterior{
		Alpha: float64(o.Conversions + 1),
		Beta:  float64(o.Users - o.Conversions + 1),
	}, nil
}

// A BetaPosterior is a Beta(Alpha, Beta) distribution over a
// conversion rate.
type BetaPosterior struct {
	Alpha, Beta float64
}

func (p BetaPosterior) validate(op string) error {
	if !(p.Alpha > 0) || !(p.Beta > 0) || math.IsInf(p.Alpha, 0) || math.IsInf(p.Beta, 0) {
		return domainErr(op, "invalid posterior Beta(%v, %v)", p.Alpha, p.Beta)
	}
	return nil
}

// Mean returns the posterior mean, α/(α+β).
func (p BetaPosterior) Mean() float64 {
	return math.Exp(lbeta(p.Alpha+1, p.Beta) - lbeta(p.Alpha, p.Beta))
}

// StdDev returns the posterior standard deviation.
func (p BetaPosterior) StdDev() float64 {
	s := p.Alpha + p.Beta
	return math.Sqrt(p.Alpha * p.Beta / (s * s * (s + 1)))
}

// ProbBeats returns P(X > Y) for independent X ~ x and Y ~ y.
//
// The probability is the closed-form finite series
//
//	Σ_{i=0}^{αx-1} B(αy+i, βx+βy) / ((βx+i) B(1+i, βx) B(αy, βy))
//
// evaluated term by term in log space. x.Alpha must be a positive
// integer, which always holds for a posterior built from an
// Observation. ProbBeats(y, x) is 1 - ProbBeats(x, y).
func ProbBeats(x, y BetaPosterior) (float64, error) {
	const op = "ProbBeats"
	if err := x.validate(op); err != nil {
		return 0, err
	}
	if err := y.validate(op); err != nil {
		return 0, err
	}
	if x.Alpha != math.Trunc(x.Alpha) {
		return 0, domainErr(op, "series requires integer alpha, got %v", x.Alpha)
	}

	p := probBeatsSeries(x, y)
	if p > 0.5 && y.Alpha == math.Trunc(y.Alpha) {
		// Sum the small tail instead, so the result approaches 1
		// without rounding past it.
		p = 1 - probBeatsSeries(y, x)
	}
	return clamp01(p), nil
}

func probBeatsSeries(x, y BetaPosterior) float64 {
	base := lbeta(y.Alpha, y.Beta)
	var total float64
	for i := 0.0; i < x.Alpha; i++ {
		// x.Beta > 0, so the log is finite.
		total += math.Exp(lbeta(y.Alpha+i, x.Beta+y.Beta) - math.Log(x.Beta+i) - lbeta(1+i, x.Beta) - base)
	}
	return total
}

// quadNodes is the number of Gauss-Legendre nodes ProbBeatsNumeric
// uses over the effective support of the narrower distribution.
const quadNodes = 1024

// ProbBeatsNumeric returns P(X > Y) by numerical integration. Unlike
// ProbBeats it accepts non-integer shape parameters. It is slower and
// accurate to roughly 1e-9 for realistic posteriors.
func ProbBeatsNumeric(x, y BetaPosterior) (float64, error) {
	const op = "ProbBeatsNumeric"
	if err := x.validate(op); err != nil {
		return 0, err
	}
	if err := y.validate(op); err != nil {
		return 0, err
	}

	// Integrate against the density of whichever distribution is
	// narrower, so the integrand is smooth where the mass is.
	// P(X > Y) = ∫ f_Y(t) (1 - F_X(t)) dt = ∫ f_X(t) F_Y(t) dt.
	var f func(float64) float64
	var lo, hi float64
	if y.StdDev() <= x.StdDev() {
		d := distuv.Beta{Alpha: y.Alpha, Beta: y.Beta}
		f = func(t float64) float64 {
			return d.Prob(t) * (1 - mathx.BetaInc(t, x.Alpha, x.Beta))
		}
		lo, hi = y.support()
	} else {
		d := distuv.Beta{Alpha: x.Alpha, Beta: x.Beta}
		f = func(t float64) float64 {
			return d.Prob(t) * mathx.BetaInc(t, y.Alpha, y.Beta)
		}
		lo, hi = x.support()
	}
	return clamp01(quad.Fixed(f, lo, hi, quadNodes, nil, 0)), nil
}

// support returns an interval holding all but a negligible fraction of
// p's mass.
func (p BetaPosterior) support() (lo, hi float64) {
	if p.Alpha < 1 || p.Beta < 1 {
		// The density is unbounded at an end point.
		return 0, 1
	}
	m, s := p.Mean(), p.StdDev()
	return math.Max(0, m-40*s), math.Min(1, m+40*s)
}

// ExpectedLoss returns E[max(X - Y, 0)] for independent X ~ x and
// Y ~ y: the expected shortfall of choosing Y when X is the better
// arm. The result is a rate difference, not a percentage.
//
// It uses the identity
//
//	E[max(X-Y, 0)] = μx·P(X' > Y) - μy·P(X > Y')
//
// where X' ~ Beta(αx+1, βx) and Y' ~ Beta(αy+1, βy).
func ExpectedLoss(x, y BetaPosterior) (float64, error) {
	const op = "ExpectedLoss"
	if err := x.validate(op); err != nil {
		return 0, err
	}
	if err := y.validate(op); err != nil {
		return 0, err
	}
	xUp := BetaPosterior{x.Alpha + 1, x.Beta}
	yUp := BetaPosterior{y.Alpha + 1, y.Beta}
	p1, err := ProbBeats(xUp, y)
	if err != nil {
		return 0, err
	}
	p2, err := ProbBeats(x, yUp)
	if err != nil {
		return 0, err
	}
	loss := x.Mean()*p1 - y.Mean()*p2
	if loss < 0 {
		// Cancellation when X almost never beats Y.
		loss = 0
	}
	return loss, nil
}
