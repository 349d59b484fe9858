// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abquery"
	"golang.org/x/abtest/abstat"
)

func (a *app) ttestCmd() *cobra.Command {
	var (
		groupArgs []string
		alpha     float64
		order     string
		query     string
		share     bool
	)
	cmd := &cobra.Command{
		Use:   "ttest --group name,mean,stddev,count ...",
		Short: "Compare groups of a continuous metric with Welch's t-test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkShare(share); err != nil {
				return err
			}
			var in abquery.Groups
			if query != "" {
				v, err := url.ParseQuery(trimQuery(query))
				if err != nil {
					return fmt.Errorf("parsing --query: %w", err)
				}
				if in, err = abquery.DecodeGroups(v); err != nil {
					return err
				}
			}
			if len(groupArgs) > 0 {
				in.Groups = in.Groups[:0]
				for _, s := range groupArgs {
					g, err := parseGroup(s)
					if err != nil {
						return err
					}
					in.Groups = append(in.Groups, g)
				}
			}
			if in.Significance == 0 || cmd.Flags().Changed("alpha") {
				in.Significance = alpha
			}
			sortFunc, err := abstat.ParseSort(order)
			if err != nil {
				return err
			}
			if err := a.ttest(in.Groups, in.Significance, sortFunc); err != nil {
				return err
			}
			if share {
				_, err = fmt.Fprintf(a.stdout, "share: ?%s\n", abquery.EncodeGroups(in).Encode())
			}
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVarP(&groupArgs, "group", "g", nil, "a group as `name,mean,stddev,count`; the first is the control")
	fl.Float64Var(&alpha, "alpha", abstat.DefaultThresholds.Significance, "consider a difference significant if p ≤ `α`")
	fl.StringVar(&order, "sort", "none", "sort by `order`: [-]delta, [-]name, [-]p, none")
	fl.StringVar(&query, "query", "", "read groups from a shared `query` string")
	fl.BoolVar(&share, "share", false, "print the groups as a query string")
	return cmd
}

func (a *app) ttest(groups []abmath.GroupSummary, alpha float64, sortFunc abstat.SortFunc) error {
	a.log.Debug("group comparison", zap.Int("groups", len(groups)), zap.Float64("alpha", alpha))
	defer a.timed("ttest", time.Now())

	tab, err := abstat.AnalyzeWelch(groups, alpha)
	if err != nil {
		return err
	}
	if sortFunc != nil {
		abstat.SortTable(tab, sortFunc)
	}
	if a.format == "csv" {
		return abstat.FormatWelchCSV(a.stdout, tab)
	}
	return abstat.FormatWelchText(a.stdout, tab)
}

// parseGroup parses "name,mean,stddev,count". The name may itself
// contain commas.
func parseGroup(s string) (abmath.GroupSummary, error) {
	f := strings.Split(s, ",")
	if len(f) < 4 {
		return abmath.GroupSummary{}, fmt.Errorf("group %q: want name,mean,stddev,count", s)
	}
	n := len(f)
	g := abmath.GroupSummary{Name: strings.TrimSpace(strings.Join(f[:n-3], ","))}
	var err error
	if g.Mean, err = strconv.ParseFloat(strings.TrimSpace(f[n-3]), 64); err != nil {
		return g, fmt.Errorf("group %q: bad mean: %w", s, err)
	}
	if g.StdDev, err = strconv.ParseFloat(strings.TrimSpace(f[n-2]), 64); err != nil {
		return g, fmt.Errorf("group %q: bad stddev: %w", s, err)
	}
	if g.Count, err = strconv.Atoi(strings.TrimSpace(f[n-1])); err != nil {
		return g, fmt.Errorf("group %q: bad count: %w", s, err)
	}
	return g, nil
}

// trimQuery accepts a bare query string, one with a leading "?", or a
// whole shared URL.
func trimQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[i+1:]
	}
	return s
}
