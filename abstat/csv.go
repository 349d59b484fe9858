// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/abtest/abunit"
)

// FormatBinomialCSV writes r to w as CSV, one record per arm. Numbers
// are written at full precision.
func FormatBinomialCSV(w io.Writer, r *BinomialReport) error {
	cw := csv.NewWriter(w)
	f := abunit.NoOpScaler.Format
	cw.Write([]string{"arm", "users", "conversions", "prob_best", "expected_loss", "winner", "srm_p"})
	cw.Write([]string{"control",
		strconv.Itoa(r.Control.Users), strconv.Itoa(r.Control.Conversions),
		f(r.Result.ProbControlWins()), f(r.Result.LossControl),
		strconv.FormatBool(!r.TreatmentWins), f(r.SRM.PValue)})
	cw.Write([]string{"treatment",
		strconv.Itoa(r.Treatment.Users), strconv.Itoa(r.Treatment.Conversions),
		f(r.Result.ProbTreatmentWins), f(r.Result.LossTreatment),
		strconv.FormatBool(r.TreatmentWins), f(r.SRM.PValue)})
	cw.Flush()
	return cw.Error()
}

// FormatWelchCSV writes t to w as CSV, one record per group. The
// control record leaves the comparison fields empty.
func FormatWelchCSV(w io.Writer, t *WelchTable) error {
	cw := csv.NewWriter(w)
	f := abunit.NoOpScaler.Format
	cw.Write([]string{"group", "mean", "stddev", "count", "t", "dof", "p", "rel_diff", "ci_lo", "ci_hi", "significant"})
	c := t.Control
	cw.Write([]string{c.Name, f(c.Mean), f(c.StdDev), strconv.Itoa(c.Count), "", "", "", "", "", "", ""})
	for _, r := range t.Rows {
		g := r.Group
		cw.Write([]string{g.Name, f(g.Mean), f(g.StdDev), strconv.Itoa(g.Count),
			f(r.T), f(r.DoF), f(r.P), f(r.RelativeDiff), f(r.Lo), f(r.Hi),
			strconv.FormatBool(r.Significant())})
	}
	cw.Flush()
	return cw.Error()
}

// FormatArmsCSV writes r to w as CSV, one record per arm.
func FormatArmsCSV(w io.Writer, r *ArmsReport) error {
	cw := csv.NewWriter(w)
	f := abunit.NoOpScaler.Format
	best := r.Best()
	cw.Write([]string{"arm", "users", "conversions", "prob_best", "best", "srm_p"})
	for i, a := range r.Arms {
		cw.Write([]string{a.Name, strconv.Itoa(a.Users), strconv.Itoa(a.Conversions),
			f(r.ProbBest[i]), strconv.FormatBool(i == best), f(r.SRM.PValue)})
	}
	cw.Flush()
	return cw.Error()
}
