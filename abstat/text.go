// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/abtest/abunit"
	"golang.org/x/abtest/internal/texttab"
)

// FormatBinomialText writes a fixed-width report of r to w.
//
// For example:
//
//	arm       users convs rate             P(best) loss if chosen winner
//	--------------------------------------------------------------------
//	control     203    13 6.40%              4.32%         4.872%
//	treatment   204    23 11.27% (+76.06%)  95.68%         0.051% ✓
func FormatBinomialText(w io.Writer, r *BinomialReport) error {
	counts := abunit.CommonScale([]float64{
		float64(r.Control.Users), float64(r.Treatment.Users),
		float64(r.Control.Conversions), float64(r.Treatment.Conversions),
	}, abunit.Count)
	losses := abunit.CommonScale([]float64{r.Result.LossControl / 100, r.Result.LossTreatment / 100}, abunit.Percent)

	rate := func(users, conv int) string {
		if users == 0 {
			return "-"
		}
		return abunit.Pct(float64(conv) / float64(users))
	}
	mark := func(win bool) string {
		if win {
			return "✓"
		}
		return ""
	}

	var tab texttab.Table
	tab.Row().Cell("arm").Cell("users", texttab.Right).Cell("convs", texttab.Right).
		Cell("rate").Cell("P(best)", texttab.Right).Cell("loss if chosen", texttab.Right).Cell("winner")
	tab.Row().Rule()

	tab.Row().Cell("control").
		Cell(counts.Format(float64(r.Control.Users)), texttab.Right).
		Cell(counts.Format(float64(r.Control.Conversions)), texttab.Right).
		Cell(rate(r.Control.Users, r.Control.Conversions)).
		Cell(abunit.Pct(r.Result.ProbControlWins()), texttab.Right).
		Cell(losses.Format(r.Result.LossControl/100), texttab.Right).
		Cell(mark(!r.TreatmentWins))

	trate := rate(r.Treatment.Users, r.Treatment.Conversions)
	if !math.IsNaN(r.Uplift) {
		trate += " (" + abunit.SignedPct(r.Uplift) + ")"
	}
	tab.Row().Cell("treatment").
		Cell(counts.Format(float64(r.Treatment.Users)), texttab.Right).
		Cell(counts.Format(float64(r.Treatment.Conversions)), texttab.Right).
		Cell(trate).
		Cell(abunit.Pct(r.Result.ProbTreatmentWins), texttab.Right).
		Cell(losses.Format(r.Result.LossTreatment/100), texttab.Right).
		Cell(mark(r.TreatmentWins))

	if err := tab.Format(w); err != nil {
		return err
	}

	th := r.Thresholds
	basis := ""
	if r.DecidedOnSampled {
		basis = ", sampled loss"
	}
	fmt.Fprintf(w, "\nwinner: %s (P(best) ≥ %s %s loss ≤ %s%s)\n",
		r.Winner(), fmtNum(th.Probability)+"%", ruleWord(th.Rule), fmtNum(th.Loss)+"%", basis)

	if e := r.Sampled; e != nil {
		lo, hi := e.CredibleInterval(0.95)
		fmt.Fprintf(w, "sampled: P(best) %s, loss control %s, loss treatment %s, 95%% interval of difference [%s, %s] (%d draws)\n",
			abunit.Pct(e.ProbTreatmentWins), losses.Format(e.LossControl/100), losses.Format(e.LossTreatment/100),
			abunit.SignedPct(lo), abunit.SignedPct(hi), e.Draws)
	}

	_, err := fmt.Fprintf(w, "SRM: χ²=%.4g p=%.5f\n", r.SRM.ChiSquare, r.SRM.PValue)
	if err != nil {
		return err
	}
	if r.SRMAlert {
		_, err = fmt.Fprintf(w, "warning: possible sample ratio mismatch (p=%.5f ≤ %s); the traffic split differs from the intended allocation\n",
			r.SRM.PValue, fmtNum(th.SRMAlpha))
	}
	return err
}

func ruleWord(r Rule) string {
	if r == Both {
		return "and"
	}
	return "or"
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatWelchText writes a fixed-width comparison table of t to w,
// followed by the groups that beat the control. The delta column shows
// "~" for differences that are not significant, and the note column
// shows the p-value and sample sizes.
//
// For example:
//
//	group        mean stddev    n       95% CI        delta
//	-------------------------------------------------------------------------------
//	Control     53.96  83.25 1128                             (control)
//	Blood Tests 61.81  56.20 1224 [58.65, 64.96] ±5% +14.54%  (p=0.008 n=1128+1224)
//
//	winners: Blood Tests
func FormatWelchText(w io.Writer, t *WelchTable) error {
	vals := []float64{t.Control.Mean, t.Control.StdDev}
	for _, r := range t.Rows {
		vals = append(vals, r.Group.Mean, r.Group.StdDev, r.Lo, r.Hi)
	}
	sc := abunit.CommonScale(vals, abunit.Decimal)

	var tab texttab.Table
	tab.Row().Cell("group").Cell("mean", texttab.Right).Cell("stddev", texttab.Right).
		Cell("n", texttab.Right).Span(2, fmtNum(100*(1-t.Alpha))+"% CI", texttab.Center).Cell("delta", texttab.Center)
	tab.Row().Rule()
	tab.Row().Cell(t.Control.Name).
		Cell(sc.Format(t.Control.Mean), texttab.Right).
		Cell(sc.Format(t.Control.StdDev), texttab.Right).
		Cell(strconv.Itoa(t.Control.Count), texttab.Right).
		Skip(welchNoteCol).Cell("(control)", texttab.Margin("  "))
	for _, r := range t.Rows {
		tab.Row().Cell(r.Group.Name).
			Cell(sc.Format(r.Group.Mean), texttab.Right).
			Cell(sc.Format(r.Group.StdDev), texttab.Right).
			Cell(strconv.Itoa(r.Group.Count), texttab.Right).
			Cell("["+sc.Format(r.Lo)+", "+sc.Format(r.Hi)+"]").
			Cell(r.PctRangeString(), texttab.Right).
			Cell(r.FormatDelta(), texttab.Center).
			Cell("("+r.String()+")", texttab.Margin("  "))
	}
	if err := tab.Format(w); err != nil {
		return err
	}

	winners := "none"
	if names := t.Winners(); len(names) > 0 {
		winners = strings.Join(names, ", ")
	}
	_, err := fmt.Fprintf(w, "\nwinners: %s\n", winners)
	return err
}

// welchNoteCol is the column of the p-value note.
const welchNoteCol = 7

// FormatArmsText writes a fixed-width report of r to w.
//
// For example:
//
//	arm users convs  rate P(best) best
//	----------------------------------
//	A    1000    50 5.00%  12.48%
//	B    1000    62 6.20%  86.11% ✓
//	C    1000    41 4.10%   1.41%
//
//	best: B (10000 draws)
//	SRM: χ²=0 df=2 p=1.00000
func FormatArmsText(w io.Writer, r *ArmsReport) error {
	vals := make([]float64, 0, 2*len(r.Arms))
	for _, a := range r.Arms {
		vals = append(vals, float64(a.Users), float64(a.Conversions))
	}
	counts := abunit.CommonScale(vals, abunit.Count)
	best := r.Best()

	var tab texttab.Table
	tab.Row().Cell("arm").Cell("users", texttab.Right).Cell("convs", texttab.Right).
		Cell("rate", texttab.Right).Cell("P(best)", texttab.Right).Cell("best")
	tab.Row().Rule()
	for i, a := range r.Arms {
		rate := "-"
		if a.Users > 0 {
			rate = abunit.Pct(float64(a.Conversions) / float64(a.Users))
		}
		mark := ""
		if i == best {
			mark = "✓"
		}
		tab.Row().Cell(a.Name).
			Cell(counts.Format(float64(a.Users)), texttab.Right).
			Cell(counts.Format(float64(a.Conversions)), texttab.Right).
			Cell(rate, texttab.Right).
			Cell(abunit.Pct(r.ProbBest[i]), texttab.Right).
			Cell(mark)
	}
	if err := tab.Format(w); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nbest: %s (%d draws)\n", r.Arms[best].Name, r.Draws)
	_, err := fmt.Fprintf(w, "SRM: χ²=%.4g df=%g p=%.5f\n", r.SRM.ChiSquare, r.SRM.DoF, r.SRM.PValue)
	if err != nil {
		return err
	}
	if r.SRMAlert {
		_, err = fmt.Fprintf(w, "warning: possible sample ratio mismatch (p=%.5f ≤ %s); the arms are not evenly split\n",
			r.SRM.PValue, fmtNum(r.SRMAlpha))
	}
	return err
}
