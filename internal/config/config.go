// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads experiment definitions from YAML files.
//
// A file describes either a conversion experiment or a set of groups
// compared on a continuous metric, plus optional thresholds:
//
//	name: checkout-button
//	thresholds:
//	  probability: 95
//	  loss: 0.06
//	  rule: either
//	monte_carlo:
//	  enabled: true
//	  draws: 20000
//	  seed: 1
//	binomial:
//	  control:   {users: 203, conversions: 13}
//	  treatment: {users: 204, conversions: 23}
//
// Fields that are omitted keep the values from Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"golang.org/x/abtest/abmath"
	"golang.org/x/abtest/abstat"
)

// Config is one experiment definition.
type Config struct {
	Name       string     `yaml:"name"`
	Thresholds Thresholds `yaml:"thresholds"`
	MonteCarlo MonteCarlo `yaml:"monte_carlo"`

	// Exactly one of Binomial and Groups is set.
	Binomial *Binomial `yaml:"binomial,omitempty"`
	Groups   []Group   `yaml:"groups,omitempty"`

	// Sort is the row order of a group comparison. See
	// abstat.ParseSort.
	Sort string `yaml:"sort"`
}

// Thresholds mirrors abstat.Thresholds.
type Thresholds struct {
	Probability  float64 `yaml:"probability"`
	Loss         float64 `yaml:"loss"`
	Rule         string  `yaml:"rule"`
	SRMAlpha     float64 `yaml:"srm_alpha"`
	Significance float64 `yaml:"significance"`
}

// MonteCarlo configures the sampling cross-check of a binomial
// experiment.
type MonteCarlo struct {
	Enabled bool `yaml:"enabled"`
	Draws   int  `yaml:"draws"`

	// Seed makes the estimate reproducible. If nil, every run
	// samples differently.
	Seed *uint64 `yaml:"seed,omitempty"`

	// DecideOnSampled decides the winner on the sampled losses.
	DecideOnSampled bool `yaml:"decide_on_sampled"`
}

// Arm is one arm of a binomial experiment.
type Arm struct {
	Users       int `yaml:"users"`
	Conversions int `yaml:"conversions"`
}

// Binomial is a two-arm conversion experiment.
type Binomial struct {
	Control   Arm `yaml:"control"`
	Treatment Arm `yaml:"treatment"`

	// Allocation is the intended traffic split, for example
	// [9, 1]. Empty means an even split.
	Allocation []float64 `yaml:"allocation,omitempty"`
}

// Group is the summary of one group of a continuous metric.
type Group struct {
	Name   string  `yaml:"name"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Count  int     `yaml:"count"`
}

// Default returns the configuration every file starts from.
func Default() *Config {
	th := abstat.DefaultThresholds
	return &Config{
		Thresholds: Thresholds{
			Probability:  th.Probability,
			Loss:         th.Loss,
			Rule:         th.Rule.String(),
			SRMAlpha:     th.SRMAlpha,
			Significance: th.Significance,
		},
		MonteCarlo: MonteCarlo{Draws: abmath.DefaultDraws},
		Sort:       "none",
	}
}

// Load reads and validates the experiment file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates an experiment definition. Unknown
// fields are errors.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that c describes exactly one experiment with
// usable thresholds.
func (c *Config) Validate() error {
	if _, err := c.AnalysisThresholds(); err != nil {
		return err
	}
	if _, err := abstat.ParseSort(c.Sort); err != nil {
		return err
	}
	if c.MonteCarlo.Draws < 0 {
		return fmt.Errorf("monte_carlo.draws %d is negative", c.MonteCarlo.Draws)
	}
	switch {
	case c.Binomial == nil && len(c.Groups) == 0:
		return errors.New("no experiment: set binomial or groups")
	case c.Binomial != nil && len(c.Groups) > 0:
		return errors.New("both binomial and groups are set")
	case c.Binomial != nil:
		if n := len(c.Binomial.Allocation); n != 0 && n != 2 {
			return fmt.Errorf("allocation has %d entries, want 2", n)
		}
	case len(c.Groups) < 2:
		return fmt.Errorf("groups: need a control and at least one variant, have %d", len(c.Groups))
	}
	return nil
}

// AnalysisThresholds converts the configured thresholds.
func (c *Config) AnalysisThresholds() (abstat.Thresholds, error) {
	rule, err := abstat.ParseRule(c.Thresholds.Rule)
	if err != nil {
		return abstat.Thresholds{}, err
	}
	th := abstat.Thresholds{
		Probability:  c.Thresholds.Probability,
		Loss:         c.Thresholds.Loss,
		Rule:         rule,
		SRMAlpha:     c.Thresholds.SRMAlpha,
		Significance: c.Thresholds.Significance,
	}
	if err := th.Validate(); err != nil {
		return abstat.Thresholds{}, fmt.Errorf("thresholds: %w", err)
	}
	return th, nil
}

// BinomialOptions returns the abstat options for a binomial
// experiment.
func (c *Config) BinomialOptions() (abstat.BinomialOptions, error) {
	th, err := c.AnalysisThresholds()
	if err != nil {
		return abstat.BinomialOptions{}, err
	}
	opts := abstat.BinomialOptions{Thresholds: th}
	if c.Binomial != nil && len(c.Binomial.Allocation) > 0 {
		opts.Allocation = c.Binomial.Allocation
	}
	if mc := c.MonteCarlo; mc.Enabled {
		if mc.Seed != nil {
			opts.MonteCarlo = abmath.NewSeededMonteCarlo(mc.Draws, *mc.Seed)
		} else {
			opts.MonteCarlo = &abmath.MonteCarlo{Draws: mc.Draws}
		}
		opts.DecideOnSampled = mc.DecideOnSampled
	}
	return opts, nil
}

// Observations returns the control and treatment arms.
func (b *Binomial) Observations() (control, treatment abmath.Observation) {
	return abmath.Observation{Users: b.Control.Users, Conversions: b.Control.Conversions},
		abmath.Observation{Users: b.Treatment.Users, Conversions: b.Treatment.Conversions}
}

// GroupSummaries returns the configured groups, control first.
func (c *Config) GroupSummaries() []abmath.GroupSummary {
	out := make([]abmath.GroupSummary, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = abmath.GroupSummary{Name: g.Name, Mean: g.Mean, StdDev: g.StdDev, Count: g.Count}
	}
	return out
}
