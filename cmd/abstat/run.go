// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golang.org/x/abtest/abquery"
	"golang.org/x/abtest/abstat"
	"golang.org/x/abtest/internal/config"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run experiment.yaml",
		Short: "Analyze the experiment described by a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(args[0])
			if err != nil {
				return err
			}
			a.log.Debug("loaded experiment", zap.String("file", args[0]), zap.String("name", c.Name))
			if c.Name != "" && a.format == "text" {
				fmt.Fprintf(a.stdout, "experiment: %s\n\n", c.Name)
			}

			if c.Binomial != nil {
				opts, err := c.BinomialOptions()
				if err != nil {
					return err
				}
				control, treatment := c.Binomial.Observations()
				in := abquery.Binomial{
					Control:       control,
					Treatment:     treatment,
					Threshold:     opts.Thresholds.Probability,
					LossThreshold: opts.Thresholds.Loss,
				}
				return a.bayes(cmd.Context(), in, opts, false)
			}

			sortFunc, err := abstat.ParseSort(c.Sort)
			if err != nil {
				return err
			}
			return a.ttest(c.GroupSummaries(), c.Thresholds.Significance, sortFunc)
		},
	}
}
