// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abunit formats experiment quantities (user counts, metric
// values, rates and probabilities) for display.
package abunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Class specifies how values of a quantity are scaled for display.
type Class int

const (
	// Decimal values are scaled by powers of 1000 using SI
	// prefixes, including fractional ones such as "m". This suits
	// metric means and standard deviations.
	Decimal Class = iota
	// Count values are non-negative integers such as users or
	// conversions. They are scaled by "k", "M" and "G" but never
	// below 1, and small counts print without a fraction.
	Count
	// Percent values are fractions (0.25) displayed as
	// percentages ("25.00%").
	Percent
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Count:
		return "Count"
	case Percent:
		return "Percent"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// A Scaler represents a scaling factor for a number and its
// representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Prefix or suffix appended to the number ("k", "%")
}

// Format formats val and appends the prefix according to the scale.
// For example, with Class Count, Format(123456) returns "123.5k".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

// NoOpScaler formats numbers with the fewest digits that represent
// the exact value, and no prefix. It is meant for machine-readable
// output such as CSV, where values must parse back unchanged.
var NoOpScaler = Scaler{-1, 1, ""}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

var siFactors = mkSIFactors([]string{"T", "G", "M", "k", "", "m", "µ", "n"})
var countFactors = mkSIFactors([]string{"T", "G", "M", "k"})

func mkSIFactors(prefixes []string) []factor {
	// Build the thresholds by parsing the printed representation,
	// so they agree exactly with how Format rounds.
	var factors []factor
	exp := 12
	for _, p := range prefixes {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		factors = append(factors, factor{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return factors
}

// Scale formats val using at least three significant digits. See
// CommonScale.
func Scale(val float64, cls Class) string {
	return CommonScale([]float64{val}, cls).Format(val)
}

// CommonScale returns a common Scaler to apply to all values in vals,
// so that a column of numbers lines up with a single prefix.
//
// For Decimal and Count, the scale shows at least three significant
// digits of the non-zero value closest to zero. For Percent, values
// print with two decimal places, or more if needed to show two
// significant digits of the smallest non-zero value, up to six.
func CommonScale(vals []float64, cls Class) Scaler {
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}

	switch cls {
	default:
		panic(fmt.Sprintf("bad Class %v", cls))
	case Percent:
		return percentScale(min)
	case Count:
		if min == 0 || min < countFactors[len(countFactors)-1].t1 {
			return Scaler{0, 1, ""}
		}
		return siScale(min, countFactors)
	case Decimal:
		if min == 0 {
			return Scaler{3, 1, ""}
		}
		return siScale(min, siFactors)
	}
}

func siScale(min float64, factors []factor) Scaler {
	for _, factor := range factors {
		switch {
		case min >= factor.t100:
			return Scaler{1, factor.factor, factor.prefix}
		case min >= factor.t10:
			return Scaler{2, factor.factor, factor.prefix}
		case min >= factor.t1:
			return Scaler{3, factor.factor, factor.prefix}
		}
	}
	// Smaller than the smallest factor. Use that factor and
	// enough precision for three significant digits.
	factor := factors[len(factors)-1]
	prec := 3 + int(math.Ceil(-math.Log10(min/factor.factor)))
	return Scaler{prec, factor.factor, factor.prefix}
}

func percentScale(min float64) Scaler {
	const maxPrec = 6
	prec := 2
	pct := min * 100
	for prec < maxPrec && pct != 0 && pct < math.Pow(10, float64(1-prec)) {
		prec++
	}
	return Scaler{prec, 0.01, "%"}
}

// Pct formats a fraction as a percentage with two decimal places.
func Pct(frac float64) string {
	return Scaler{2, 0.01, "%"}.Format(frac)
}

// SignedPct formats a relative change as a signed percentage, such
// as "+12.34%" or "-5.00%".
func SignedPct(frac float64) string {
	s := Pct(frac)
	if frac >= 0 {
		return "+" + s
	}
	return s
}
