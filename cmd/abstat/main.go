// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Abstat analyzes A/B experiments.
//
// Usage:
//
//	abstat bayes [--users-a N --conversions-a N --users-b N --conversions-b N] [--mc] [--query q] [--share]
//	abstat arms [--seed s] [name=]users,conversions ...
//	abstat srm [--weights w,w,...] users-a users-b [users...]
//	abstat ttest --group name,mean,stddev,count --group ... [--alpha α] [--sort order]
//	abstat run experiment.yaml
//
// The bayes subcommand compares the conversion rates of a control and
// a treatment. It reports, for each arm, the posterior probability of
// being the better one and the expected loss, in percentage points of
// conversion rate, of choosing it. The treatment is declared the
// winner when its probability reaches --threshold or, with
// --rule=either, when its expected loss is at most --loss-threshold.
// With --mc, a Monte Carlo estimate is printed alongside the exact
// result, and with --sampled-loss the decision uses the sampled
// losses. Every report includes a sample ratio mismatch check.
//
// The arms subcommand samples the posteriors of two or more arms and
// reports each arm's probability of having the highest rate, along
// with a check that the arms are evenly sized.
//
// The srm subcommand checks whether observed arm sizes are consistent
// with the intended allocation, an even split unless --weights is
// given.
//
// The ttest subcommand compares groups of a continuous metric with
// Welch's t-test. The first --group is the control. If a difference is
// not significant at --alpha, the delta column shows "~".
//
// The run subcommand reads a YAML experiment file. See package
// golang.org/x/abtest/internal/config for the format.
//
// For example:
//
//	$ abstat bayes --users-a 203 --conversions-a 13 --users-b 204 --conversions-b 23
//	arm       users convs rate             P(best) loss if chosen winner
//	--------------------------------------------------------------------
//	control     203    13 6.40%              4.32%         4.872%
//	treatment   204    23 11.27% (+76.06%)  95.68%         0.051% ✓
//
//	winner: treatment (P(best) ≥ 95% or loss ≤ 0.06%)
//	SRM: χ²=0.004926 p=0.94405
//
// The bayes and ttest inputs can be shared: --share prints the inputs
// as a URL query, and --query reads them back. Explicit flags override
// values from --query. --share only works with text output.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if a.log != nil {
		defer a.log.Sync()
	}
	if err != nil {
		if a.log != nil {
			a.log.Error("abstat failed", zap.Error(err))
		} else {
			fmt.Fprintf(stderr, "abstat: %v\n", err)
		}
		return 1
	}
	return 0
}

// app holds the state shared by all subcommands.
type app struct {
	stdout, stderr io.Writer

	format  string
	verbose bool

	log *zap.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "abstat",
		Short:         "Analyze A/B experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.format != "text" && a.format != "csv" {
				return fmt.Errorf("unknown format %q (want text or csv)", a.format)
			}
			a.log = newLogger(a.stderr, a.verbose)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.format, "format", "text", "output `format`: text or csv")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log inputs and timings")
	root.AddCommand(a.bayesCmd(), a.armsCmd(), a.srmCmd(), a.ttestCmd(), a.runCmd())
	return root
}

// checkShare rejects --share with machine-readable output, where an
// extra line would corrupt the records.
func (a *app) checkShare(share bool) error {
	if share && a.format != "text" {
		return fmt.Errorf("--share cannot be used with --format %s", a.format)
	}
	return nil
}

// newLogger returns a console logger writing to w. Debug messages are
// only enabled when verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("abstat")
}

// timed logs the duration of an analysis step at debug level.
func (a *app) timed(step string, start time.Time) {
	a.log.Debug("analysis done", zap.String("step", step), zap.Duration("elapsed", time.Since(start)))
}
