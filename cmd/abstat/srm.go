// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abstat"
	"golang.org/x/abtest/abunit"
)

func (a *app) srmCmd() *cobra.Command {
	var (
		weights []float64
		alpha   float64
	)
	cmd := &cobra.Command{
		Use:   "srm users-a users-b [users...]",
		Short: "Check observed arm sizes against the intended allocation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := make([]int, len(args))
			for i, s := range args {
				n, err := strconv.Atoi(s)
				if err != nil {
					return fmt.Errorf("bad user count %q", s)
				}
				counts[i] = n
			}
			return a.srm(counts, weights, alpha)
		},
	}
	cmd.Flags().Float64SliceVar(&weights, "weights", nil, "intended allocation `weights`, one per arm (default even)")
	cmd.Flags().Float64Var(&alpha, "alpha", abstat.DefaultThresholds.SRMAlpha, "report a mismatch if p ≤ `α`")
	return cmd
}

func (a *app) srm(counts []int, weights []float64, alpha float64) error {
	a.log.Debug("sample ratio check", zap.Ints("users", counts), zap.Float64s("weights", weights))
	defer a.timed("srm", time.Now())

	var (
		r   abmath.SRMResult
		err error
	)
	switch {
	case weights != nil:
		r, err = abmath.SRMWeighted(counts, weights)
	case len(counts) == 2:
		r, err = abmath.SRM(counts[0], counts[1])
	default:
		even := make([]float64, len(counts))
		for i := range even {
			even[i] = 1
		}
		r, err = abmath.SRMWeighted(counts, even)
	}
	if err != nil {
		return err
	}
	mismatch := r.Mismatch(alpha)

	if a.format == "csv" {
		cw := csv.NewWriter(a.stdout)
		f := abunit.NoOpScaler.Format
		cw.Write([]string{"chi_square", "dof", "p", "mismatch"})
		cw.Write([]string{f(r.ChiSquare), f(r.DoF), f(r.PValue), strconv.FormatBool(mismatch)})
		cw.Flush()
		return cw.Error()
	}
	fmt.Fprintf(a.stdout, "χ²=%.4g df=%g p=%.5f\n", r.ChiSquare, r.DoF, r.PValue)
	if mismatch {
		_, err = fmt.Fprintf(a.stdout, "possible sample ratio mismatch (p ≤ %g)\n", alpha)
	} else {
		_, err = fmt.Fprintf(a.stdout, "no sample ratio mismatch detected\n")
	}
	return err
}
