// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abstat"
)

func runAbstat(t *testing.T, wantStatus int, args ...string) (stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	if got := run(context.Background(), args, &out, &errOut); got != wantStatus {
		t.Fatalf("abstat %s: exit status %d, want %d\nstdout:\n%s\nstderr:\n%s",
			strings.Join(args, " "), got, wantStatus, out.String(), errOut.String())
	}
	return out.String(), errOut.String()
}

func checkContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBayes(t *testing.T) {
	out, _ := runAbstat(t, 0, "bayes", "--users-a", "203", "--conversions-a", "13", "--users-b", "204", "--conversions-b", "23")
	want := `arm       users convs rate             P(best) loss if chosen winner
--------------------------------------------------------------------
control     203    13 6.40%              4.32%         4.872%
treatment   204    23 11.27% (+76.06%)  95.68%         0.051% ✓

winner: treatment (P(best) ≥ 95% or loss ≤ 0.06%)
SRM: χ²=0.004926 p=0.94405
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}

	// The defaults are the same experiment.
	def, _ := runAbstat(t, 0, "bayes")
	if def != out {
		t.Errorf("default report differs:\n%s", def)
	}
}

func TestBayesOptions(t *testing.T) {
	out, _ := runAbstat(t, 0, "bayes", "--threshold", "99", "--rule", "both")
	checkContains(t, out, "winner: control (P(best) ≥ 99% and loss ≤ 0.06%)")

	out, _ = runAbstat(t, 0, "bayes", "--mc", "--seed", "3", "--draws", "2000")
	checkContains(t, out, "sampled: P(best) ", "(2000 draws)")
	again, _ := runAbstat(t, 0, "bayes", "--mc", "--seed", "3", "--draws", "2000")
	if again != out {
		t.Errorf("seeded runs differ:\n%s\n%s", out, again)
	}

	out, _ = runAbstat(t, 0, "bayes", "--sampled-loss", "--seed", "3", "--draws", "2000")
	checkContains(t, out, "sampled: P(best) ", ", sampled loss)\n")

	out, _ = runAbstat(t, 0, "--format", "csv", "bayes")
	checkContains(t, out, "arm,users,conversions,prob_best,expected_loss,winner,srm_p\n", "\ntreatment,204,23,")
}

func TestBayesSRMWarning(t *testing.T) {
	out, errOut := runAbstat(t, 0, "bayes", "--users-a", "10000", "--conversions-a", "500", "--users-b", "5000", "--conversions-b", "250")
	checkContains(t, out, "warning: possible sample ratio mismatch")
	checkContains(t, errOut, "WARN", "sample ratio mismatch")

	out, _ = runAbstat(t, 0, "bayes", "--users-a", "10000", "--conversions-a", "500", "--users-b", "5000", "--conversions-b", "250", "--allocation", "2,1")
	if strings.Contains(out, "warning") {
		t.Errorf("2:1 allocation flagged:\n%s", out)
	}
}

func TestBayesShare(t *testing.T) {
	out, _ := runAbstat(t, 0, "bayes", "--users-a", "1000", "--conversions-a", "50", "--share")
	const q = "?conversionsA=50&conversionsB=23&lossThreshold=0.06&threshold=95&usersA=1000&usersB=204"
	checkContains(t, out, "share: "+q+"\n")

	// Reading the link back gives the same report; explicit flags
	// still win.
	back, _ := runAbstat(t, 0, "bayes", "--query", "https://example.com/"+q, "--share")
	if back != out {
		t.Errorf("--query report differs:\n%s\nwant:\n%s", back, out)
	}
	over, _ := runAbstat(t, 0, "bayes", "--query", q, "--users-b", "2000", "--share")
	checkContains(t, over, "usersA=1000", "usersB=2000")
}

func TestBayesErrors(t *testing.T) {
	_, errOut := runAbstat(t, 1, "bayes", "--users-a", "10", "--conversions-a", "11")
	checkContains(t, errOut, "ERROR", "exceed")
	_, errOut = runAbstat(t, 1, "bayes", "--rule", "sometimes")
	checkContains(t, errOut, "decision rule")
	_, errOut = runAbstat(t, 1, "bayes", "--query", "usersA=many")
	checkContains(t, errOut, "usersA")
	_, errOut = runAbstat(t, 1, "--format", "html", "bayes")
	checkContains(t, errOut, `unknown format "html"`)
	_, errOut = runAbstat(t, 1, "bayes", "--no-such-flag")
	checkContains(t, errOut, "no-such-flag")
	_, errOut = runAbstat(t, 1, "--format", "csv", "bayes", "--share")
	checkContains(t, errOut, "--share cannot be used with --format csv")
}

func TestSRM(t *testing.T) {
	out, _ := runAbstat(t, 0, "srm", "110", "90")
	checkContains(t, out, "χ²=2 df=1 p=0.15730\n", "no sample ratio mismatch detected")

	out, _ = runAbstat(t, 0, "srm", "10000", "5000")
	checkContains(t, out, "possible sample ratio mismatch (p ≤ 0.05)")

	out, _ = runAbstat(t, 0, "srm", "--weights", "9,1", "9000", "1000")
	checkContains(t, out, "χ²=0 df=1 p=1.00000")

	out, _ = runAbstat(t, 0, "srm", "1000", "1000", "1300")
	checkContains(t, out, "df=2", "possible sample ratio mismatch")

	out, _ = runAbstat(t, 0, "--format", "csv", "srm", "100", "100")
	if out != "chi_square,dof,p,mismatch\n0,1,1,false\n" {
		t.Errorf("csv = %q", out)
	}

	runAbstat(t, 1, "srm", "100")
	runAbstat(t, 1, "srm", "100", "x")
	runAbstat(t, 1, "srm", "-5", "10")
}

var groupFlags = []string{
	"--group", "Control,53.9624,83.2523,1128",
	"--group", "Blood Tests,61.8059,56.2002,1224",
	"--group", "Supplements,43.5993,46.5578,1144",
}

func TestTTest(t *testing.T) {
	out, _ := runAbstat(t, 0, append([]string{"ttest"}, groupFlags...)...)
	checkContains(t, out, "95% CI", "Blood Tests", "+14.54%", "(p=0.008 n=1128+1224)", "-19.20%")

	out, _ = runAbstat(t, 0, append([]string{"ttest", "--sort", "delta"}, groupFlags...)...)
	if strings.Index(out, "Supplements") > strings.Index(out, "Blood Tests") {
		t.Errorf("--sort delta did not put the decrease first:\n%s", out)
	}

	out, _ = runAbstat(t, 0, append([]string{"ttest", "--alpha", "0.001"}, groupFlags...)...)
	checkContains(t, out, "99.9% CI")

	out, _ = runAbstat(t, 0, append([]string{"--format", "csv", "ttest"}, groupFlags...)...)
	checkContains(t, out, "group,mean,stddev,count,t,dof,p,rel_diff,ci_lo,ci_hi,significant\n", "\nControl,53.9624,83.2523,1128,,,,,,,\n")
}

func TestTTestShare(t *testing.T) {
	out, _ := runAbstat(t, 0, append([]string{"ttest", "--share"}, groupFlags...)...)
	i := strings.Index(out, "share: ")
	if i < 0 {
		t.Fatalf("no share line:\n%s", out)
	}
	q := strings.TrimSpace(out[i+len("share: "):])
	back, _ := runAbstat(t, 0, "ttest", "--query", q, "--share")
	if back != out {
		t.Errorf("--query report differs:\n%s\nwant:\n%s", back, out)
	}
}

func TestTTestErrors(t *testing.T) {
	_, errOut := runAbstat(t, 1, "ttest", "--group", "Control,1,1")
	checkContains(t, errOut, "name,mean,stddev,count")
	_, errOut = runAbstat(t, 1, "ttest", "--group", "Control,1,1,10")
	checkContains(t, errOut, "at least one variant")
	_, errOut = runAbstat(t, 1, "ttest", "--group", "a,1,0,10", "--group", "b,2,0,10")
	checkContains(t, errOut, "variance")
	_, errOut = runAbstat(t, 1, append([]string{"ttest", "--sort", "size"}, groupFlags...)...)
	checkContains(t, errOut, "sort order")
	out, errOut := runAbstat(t, 1, append([]string{"--format", "csv", "ttest", "--share"}, groupFlags...)...)
	checkContains(t, errOut, "--share cannot be used")
	if out != "" {
		t.Errorf("rejected command wrote output:\n%s", out)
	}
}

func TestArms(t *testing.T) {
	args := []string{"arms", "--seed", "5", "--draws", "4000", "1000,50", "1000,80", "Old=1000,41"}
	out, _ := runAbstat(t, 0, args...)
	checkContains(t, out, "arm users convs  rate P(best) best\n", "\nOld ", "best: B (4000 draws)\n", "SRM: χ²=0 df=2 p=1.00000\n")
	again, _ := runAbstat(t, 0, args...)
	if again != out {
		t.Errorf("seeded runs differ:\n%s\n%s", out, again)
	}

	out, errOut := runAbstat(t, 0, "arms", "2000,100", "1000,50", "1000,50")
	checkContains(t, out, "warning: possible sample ratio mismatch")
	checkContains(t, errOut, "WARN")

	out, _ = runAbstat(t, 0, "--format", "csv", "arms", "--seed", "1", "10,1", "10,2")
	checkContains(t, out, "arm,users,conversions,prob_best,best,srm_p\nA,10,1,", "\nB,10,2,")

	runAbstat(t, 1, "arms", "1000,50")
	_, errOut = runAbstat(t, 1, "arms", "1000,50", "1000")
	checkContains(t, errOut, "[name=]users,conversions")
	_, errOut = runAbstat(t, 1, "arms", "1000,50", "10,11")
	checkContains(t, errOut, "exceed")
}

func TestParseArm(t *testing.T) {
	check := func(s string, i int, want abstat.Arm) {
		t.Helper()
		got, err := parseArm(s, i)
		if err != nil {
			t.Fatalf("parseArm(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("parseArm(%q) = %+v, want %+v", s, got, want)
		}
	}
	check("100,5", 0, abstat.Arm{Name: "A", Observation: abmath.Observation{Users: 100, Conversions: 5}})
	check("100, 5", 2, abstat.Arm{Name: "C", Observation: abmath.Observation{Users: 100, Conversions: 5}})
	check("new flow=100,5", 0, abstat.Arm{Name: "new flow", Observation: abmath.Observation{Users: 100, Conversions: 5}})
	check("7,1", 30, abstat.Arm{Name: "31", Observation: abmath.Observation{Users: 7, Conversions: 1}})
	for _, s := range []string{"100", "=100,5", "x,5", "100,y"} {
		if _, err := parseArm(s, 0); err == nil {
			t.Errorf("parseArm(%q) succeeded", s)
		}
	}
}

func TestParseGroup(t *testing.T) {
	g, err := parseGroup("Ads, desktop, 1.5 ,2,30")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Ads, desktop" || g.Mean != 1.5 || g.StdDev != 2 || g.Count != 30 {
		t.Errorf("parseGroup = %+v", g)
	}
	for _, s := range []string{"a,b,c,d", "a,1,x,3", "a,1,2,3.5"} {
		if _, err := parseGroup(s); err == nil {
			t.Errorf("parseGroup(%q) succeeded", s)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	bin := write("bin.yaml", `
name: checkout-button
binomial:
  control:   {users: 203, conversions: 13}
  treatment: {users: 204, conversions: 23}
`)
	out, _ := runAbstat(t, 0, "run", bin)
	checkContains(t, out, "experiment: checkout-button\n\n", "winner: treatment")

	groups := write("groups.yaml", `
thresholds: {significance: 0.01}
sort: -delta
groups:
  - {name: Control, mean: 53.9624, stddev: 83.2523, count: 1128}
  - {name: Blood Tests, mean: 61.8059, stddev: 56.2002, count: 1224}
  - {name: Supplements, mean: 43.5993, stddev: 46.5578, count: 1144}
`)
	out, _ = runAbstat(t, 0, "run", groups)
	checkContains(t, out, "99% CI", "+14.54%")
	if strings.Index(out, "Blood Tests") > strings.Index(out, "Supplements") {
		t.Errorf("-delta order not applied:\n%s", out)
	}

	_, errOut := runAbstat(t, 1, "run", filepath.Join(dir, "missing.yaml"))
	checkContains(t, errOut, "missing.yaml")
	runAbstat(t, 1, "run")
}

func TestVerbose(t *testing.T) {
	_, errOut := runAbstat(t, 0, "-v", "bayes")
	checkContains(t, errOut, "DEBUG", "binomial experiment", "analysis done")

	_, errOut = runAbstat(t, 0, "bayes")
	if strings.Contains(errOut, "DEBUG") {
		t.Errorf("debug output without --verbose:\n%s", errOut)
	}
}
