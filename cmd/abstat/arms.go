// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abstat"
)

func (a *app) armsCmd() *cobra.Command {
	var (
		draws    int
		seed     uint64
		srmAlpha float64
	)
	cmd := &cobra.Command{
		Use:   "arms [name=]users,conversions ...",
		Short: "Estimate which of several arms has the highest conversion rate",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arms := make([]abstat.Arm, len(args))
			for i, s := range args {
				arm, err := parseArm(s, i)
				if err != nil {
					return err
				}
				arms[i] = arm
			}
			mc := &abmath.MonteCarlo{Draws: draws}
			if cmd.Flags().Changed("seed") {
				mc = abmath.NewSeededMonteCarlo(draws, seed)
			}
			return a.arms(cmd.Context(), arms, mc, srmAlpha)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&draws, "draws", abmath.DefaultDraws, "Monte Carlo `draws`")
	fl.Uint64Var(&seed, "seed", 0, "Monte Carlo `seed` (default random)")
	fl.Float64Var(&srmAlpha, "srm-alpha", abstat.DefaultThresholds.SRMAlpha, "report a sample ratio mismatch if p ≤ `α`")
	return cmd
}

func (a *app) arms(ctx context.Context, arms []abstat.Arm, mc *abmath.MonteCarlo, srmAlpha float64) error {
	a.log.Debug("multi-arm experiment", zap.Int("arms", len(arms)), zap.Int("draws", mc.Draws))
	defer a.timed("arms", time.Now())

	r, err := abstat.AnalyzeArms(ctx, arms, mc, srmAlpha)
	if err != nil {
		return err
	}
	if r.SRMAlert {
		a.log.Warn("sample ratio mismatch", zap.Float64("p", r.SRM.PValue))
	}
	if a.format == "csv" {
		return abstat.FormatArmsCSV(a.stdout, r)
	}
	return abstat.FormatArmsText(a.stdout, r)
}

// parseArm parses "[name=]users,conversions". Unnamed arms are
// lettered by position: A, B, C and so on.
func parseArm(s string, i int) (abstat.Arm, error) {
	var arm abstat.Arm
	spec := s
	if name, rest, ok := strings.Cut(s, "="); ok {
		arm.Name, spec = strings.TrimSpace(name), rest
	} else if i < 26 {
		arm.Name = string(rune('A' + i))
	} else {
		arm.Name = strconv.Itoa(i + 1)
	}
	users, conv, ok := strings.Cut(spec, ",")
	if !ok || arm.Name == "" {
		return arm, fmt.Errorf("arm %q: want [name=]users,conversions", s)
	}
	var err error
	if arm.Users, err = strconv.Atoi(strings.TrimSpace(users)); err != nil {
		return arm, fmt.Errorf("arm %q: bad users: %w", s, err)
	}
	if arm.Conversions, err = strconv.Atoi(strings.TrimSpace(conv)); err != nil {
		return arm, fmt.Errorf("arm %q: bad conversions: %w", s, err)
	}
	return arm, nil
}
