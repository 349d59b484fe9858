// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abstat

import (
	"fmt"
	"sort"
	"strings"
)

// A SortFunc reports whether row i of t sorts before row j.
type SortFunc func(t *WelchTable, i, j int) bool

// ByName sorts rows by group name.
func ByName(t *WelchTable, i, j int) bool {
	return t.Rows[i].Group.Name < t.Rows[j].Group.Name
}

// ByDelta sorts rows by relative difference from the control, lowest
// first. Differences that are not significant count as zero.
func ByDelta(t *WelchTable, i, j int) bool {
	return delta(t, i) < delta(t, j)
}

func delta(t *WelchTable, i int) float64 {
	r := t.Rows[i]
	if !r.Significant() {
		return 0
	}
	return r.RelativeDiff
}

// ByPValue sorts rows by p-value, most significant first.
func ByPValue(t *WelchTable, i, j int) bool {
	return t.Rows[i].P < t.Rows[j].P
}

// SortReverse returns a SortFunc that is the reverse of sortFunc.
func SortReverse(sortFunc SortFunc) SortFunc {
	return func(t *WelchTable, i, j int) bool { return sortFunc(t, j, i) }
}

// SortTable sorts the rows of t in place. Rows that compare equal
// keep their order.
func SortTable(t *WelchTable, sortFunc SortFunc) {
	sort.SliceStable(t.Rows, func(i, j int) bool { return sortFunc(t, i, j) })
}

var sortNames = map[string]SortFunc{
	"none":  nil,
	"name":  ByName,
	"delta": ByDelta,
	"p":     ByPValue,
}

// ParseSort parses a sort order: "none", "name", "delta" or "p". A
// leading "-" reverses the order. It returns nil for "none".
func ParseSort(s string) (SortFunc, error) {
	reverse := strings.HasPrefix(s, "-")
	f, ok := sortNames[strings.TrimPrefix(s, "-")]
	if !ok {
		return nil, fmt.Errorf("unknown sort order %q", s)
	}
	if reverse && f != nil {
		f = SortReverse(f)
	}
	return f, nil
}
