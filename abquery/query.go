// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abquery encodes experiment inputs as URL query parameters
// and decodes them back, so an analysis can be shared as a link.
//
// Binomial experiments use the keys usersA, conversionsA, usersB,
// conversionsB, threshold and lossThreshold. Group comparisons use
// group_<index>_<field> keys, where field is one of name, mean,
// stddev or count, plus an optional significance key.
//
// Numbers are written in the shortest decimal form that parses back
// to the identical value.
package abquery

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/abtest/abmath"
)

// Binomial is the input of a two-arm conversion experiment.
type Binomial struct {
	Control   abmath.Observation
	Treatment abmath.Observation

	// Threshold is the win probability, in percent, at which the
	// treatment is declared the winner.
	Threshold float64

	// LossThreshold is the expected loss, in percentage points,
	// below which shipping the treatment is considered safe.
	LossThreshold float64
}

// DefaultBinomial holds the values used for missing keys.
var DefaultBinomial = Binomial{
	Control:       abmath.Observation{Users: 203, Conversions: 13},
	Treatment:     abmath.Observation{Users: 204, Conversions: 23},
	Threshold:     95,
	LossThreshold: 0.06,
}

// EncodeBinomial returns the query parameters for b.
func EncodeBinomial(b Binomial) url.Values {
	v := url.Values{}
	v.Set("usersA", strconv.Itoa(b.Control.Users))
	v.Set("conversionsA", strconv.Itoa(b.Control.Conversions))
	v.Set("usersB", strconv.Itoa(b.Treatment.Users))
	v.Set("conversionsB", strconv.Itoa(b.Treatment.Conversions))
	v.Set("threshold", formatFloat(b.Threshold))
	v.Set("lossThreshold", formatFloat(b.LossThreshold))
	return v
}

// DecodeBinomial parses query parameters produced by EncodeBinomial.
// Missing or empty keys take their values from DefaultBinomial.
func DecodeBinomial(v url.Values) (Binomial, error) {
	b := DefaultBinomial
	var err error
	getInt := func(key string, dst *int) {
		s := v.Get(key)
		if s == "" || err != nil {
			return
		}
		var n int
		if n, err = strconv.Atoi(s); err != nil {
			err = fmt.Errorf("abquery: %s: %w", key, err)
			return
		}
		*dst = n
	}
	getFloat := func(key string, dst *float64) {
		s := v.Get(key)
		if s == "" || err != nil {
			return
		}
		var f float64
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			err = fmt.Errorf("abquery: %s: %w", key, err)
			return
		}
		*dst = f
	}
	getInt("usersA", &b.Control.Users)
	getInt("conversionsA", &b.Control.Conversions)
	getInt("usersB", &b.Treatment.Users)
	getInt("conversionsB", &b.Treatment.Conversions)
	getFloat("threshold", &b.Threshold)
	getFloat("lossThreshold", &b.LossThreshold)
	if err != nil {
		return Binomial{}, err
	}
	return b, nil
}

// Groups is the input of a multi-group continuous-metric comparison.
// Groups[0] is the control.
type Groups struct {
	Groups []abmath.GroupSummary

	// Significance is the alpha level. Zero means unset.
	Significance float64
}

// EncodeGroups returns the query parameters for g.
func EncodeGroups(g Groups) url.Values {
	v := url.Values{}
	for i, gr := range g.Groups {
		prefix := "group_" + strconv.Itoa(i) + "_"
		v.Set(prefix+"name", gr.Name)
		v.Set(prefix+"mean", formatFloat(gr.Mean))
		v.Set(prefix+"stddev", formatFloat(gr.StdDev))
		v.Set(prefix+"count", strconv.Itoa(gr.Count))
	}
	if g.Significance != 0 {
		v.Set("significance", formatFloat(g.Significance))
	}
	return v
}

// DecodeGroups parses query parameters produced by EncodeGroups.
// Group indexes must be contiguous from 0. Unknown keys are ignored.
func DecodeGroups(v url.Values) (Groups, error) {
	byIndex := make(map[int]*abmath.GroupSummary)
	for key, vals := range v {
		if !strings.HasPrefix(key, "group_") || len(vals) == 0 {
			continue
		}
		idx, field, ok := strings.Cut(strings.TrimPrefix(key, "group_"), "_")
		if !ok {
			return Groups{}, fmt.Errorf("abquery: malformed key %q", key)
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 {
			return Groups{}, fmt.Errorf("abquery: bad group index in %q", key)
		}
		g := byIndex[i]
		if g == nil {
			g = new(abmath.GroupSummary)
			byIndex[i] = g
		}
		val := vals[0]
		switch field {
		case "name":
			g.Name = val
		case "mean":
			g.Mean, err = strconv.ParseFloat(val, 64)
		case "stddev":
			g.StdDev, err = strconv.ParseFloat(val, 64)
		case "count":
			g.Count, err = strconv.Atoi(val)
		default:
			return Groups{}, fmt.Errorf("abquery: unknown group field in %q", key)
		}
		if err != nil {
			return Groups{}, fmt.Errorf("abquery: %s: %w", key, err)
		}
	}

	idxs := make([]int, 0, len(byIndex))
	for i := range byIndex {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	var out Groups
	for want, i := range idxs {
		if i != want {
			return Groups{}, fmt.Errorf("abquery: group %d is missing", want)
		}
		out.Groups = append(out.Groups, *byIndex[i])
	}

	if s := v.Get("significance"); s != "" {
		a, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Groups{}, fmt.Errorf("abquery: significance: %w", err)
		}
		out.Significance = a
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
