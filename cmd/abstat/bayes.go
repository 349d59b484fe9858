// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abquery"
	"golang.org/x/abtest/abstat"
)

type bayesFlags struct {
	usersA, convA, usersB, convB int

	threshold, lossThreshold float64
	rule                     string
	srmAlpha                 float64
	allocation               []float64

	mc        bool
	mcDecides bool
	draws     int
	seed      uint64

	query string
	share bool
}

func (a *app) bayesCmd() *cobra.Command {
	var f bayesFlags
	def := abquery.DefaultBinomial
	cmd := &cobra.Command{
		Use:   "bayes",
		Short: "Compare the conversion rates of a control and a treatment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkShare(f.share); err != nil {
				return err
			}
			in, opts, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return a.bayes(cmd.Context(), in, opts, f.share)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.usersA, "users-a", def.Control.Users, "control `users`")
	fl.IntVar(&f.convA, "conversions-a", def.Control.Conversions, "control `conversions`")
	fl.IntVar(&f.usersB, "users-b", def.Treatment.Users, "treatment `users`")
	fl.IntVar(&f.convB, "conversions-b", def.Treatment.Conversions, "treatment `conversions`")
	fl.Float64Var(&f.threshold, "threshold", def.Threshold, "win probability `percent` at which the treatment wins")
	fl.Float64Var(&f.lossThreshold, "loss-threshold", def.LossThreshold, "largest acceptable expected loss, in `points` of conversion rate")
	fl.StringVar(&f.rule, "rule", abstat.DefaultThresholds.Rule.String(), "combine the thresholds with `either` or both")
	fl.Float64Var(&f.srmAlpha, "srm-alpha", abstat.DefaultThresholds.SRMAlpha, "report a sample ratio mismatch if p ≤ `α`")
	fl.Float64SliceVar(&f.allocation, "allocation", nil, "intended control,treatment traffic `weights` (default even)")
	fl.BoolVar(&f.mc, "mc", false, "add a Monte Carlo estimate")
	fl.BoolVar(&f.mcDecides, "sampled-loss", false, "decide on the Monte Carlo losses (implies --mc)")
	fl.IntVar(&f.draws, "draws", abmath.DefaultDraws, "Monte Carlo `draws`")
	fl.Uint64Var(&f.seed, "seed", 0, "Monte Carlo `seed` (default random)")
	fl.StringVar(&f.query, "query", "", "read inputs from a shared `query` string")
	fl.BoolVar(&f.share, "share", false, "print the inputs as a query string")
	return cmd
}

// resolve merges --query with the explicitly set flags.
func (f *bayesFlags) resolve(cmd *cobra.Command) (abquery.Binomial, abstat.BinomialOptions, error) {
	in := abquery.DefaultBinomial
	if f.query != "" {
		v, err := url.ParseQuery(trimQuery(f.query))
		if err != nil {
			return in, abstat.BinomialOptions{}, fmt.Errorf("parsing --query: %w", err)
		}
		if in, err = abquery.DecodeBinomial(v); err != nil {
			return in, abstat.BinomialOptions{}, err
		}
	}
	fl := cmd.Flags()
	set := func(name string, dst, src *int) {
		if f.query == "" || fl.Changed(name) {
			*dst = *src
		}
	}
	set("users-a", &in.Control.Users, &f.usersA)
	set("conversions-a", &in.Control.Conversions, &f.convA)
	set("users-b", &in.Treatment.Users, &f.usersB)
	set("conversions-b", &in.Treatment.Conversions, &f.convB)
	if f.query == "" || fl.Changed("threshold") {
		in.Threshold = f.threshold
	}
	if f.query == "" || fl.Changed("loss-threshold") {
		in.LossThreshold = f.lossThreshold
	}

	rule, err := abstat.ParseRule(f.rule)
	if err != nil {
		return in, abstat.BinomialOptions{}, err
	}
	opts := abstat.BinomialOptions{
		Thresholds: abstat.Thresholds{
			Probability:  in.Threshold,
			Loss:         in.LossThreshold,
			Rule:         rule,
			SRMAlpha:     f.srmAlpha,
			Significance: abstat.DefaultThresholds.Significance,
		},
		Allocation:      f.allocation,
		DecideOnSampled: f.mcDecides,
	}
	if f.mc || f.mcDecides {
		if fl.Changed("seed") {
			opts.MonteCarlo = abmath.NewSeededMonteCarlo(f.draws, f.seed)
		} else {
			opts.MonteCarlo = &abmath.MonteCarlo{Draws: f.draws}
		}
	}
	return in, opts, nil
}

func (a *app) bayes(ctx context.Context, in abquery.Binomial, opts abstat.BinomialOptions, share bool) error {
	a.log.Debug("binomial experiment",
		zap.Int("usersA", in.Control.Users), zap.Int("conversionsA", in.Control.Conversions),
		zap.Int("usersB", in.Treatment.Users), zap.Int("conversionsB", in.Treatment.Conversions),
		zap.Stringer("rule", opts.Thresholds.Rule), zap.Bool("monteCarlo", opts.MonteCarlo != nil))
	defer a.timed("bayes", time.Now())

	r, err := abstat.AnalyzeBinomial(ctx, in.Control, in.Treatment, opts)
	if err != nil {
		return err
	}
	if r.SRMAlert {
		a.log.Warn("sample ratio mismatch", zap.Float64("p", r.SRM.PValue))
	}
	if a.format == "csv" {
		return abstat.FormatBinomialCSV(a.stdout, r)
	}
	if err := abstat.FormatBinomialText(a.stdout, r); err != nil {
		return err
	}
	if share {
		_, err = fmt.Fprintf(a.stdout, "share: ?%s\n", abquery.EncodeBinomial(in).Encode())
	}
	return err
}
