// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables for reports.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table accumulates cells row by row and lays them out on Format.
//
// Builder methods return the Table so calls can be chained:
//
//	tab.Row().Cell("Control").Cell("203", Right)
type Table struct {
	cells []cell
	cols  int

	row, col int
}

type cell struct {
	row, col, span int
	text           string
	margin         string
	align          align
	rule           bool
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		return strings.Repeat(" ", n/2) + s
	case alignRight:
		return strings.Repeat(" ", n) + s
	}
	return s
}

// An Option modifies a cell as it is added.
type Option func(*cell)

// Margin replaces the cell's left margin. By default every column
// but the first is separated from its neighbor by one space.
func Margin(m string) Option {
	return func(c *cell) { c.margin = m }
}

// Alignment options. Cells are left-aligned by default.
var (
	Left   Option = func(c *cell) { c.align = alignLeft }
	Center Option = func(c *cell) { c.align = alignCenter }
	Right  Option = func(c *cell) { c.align = alignRight }
)

// Row starts a new row.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.row++
	}
	t.col = 0
	return t
}

// Skip moves to column col of the current row, leaving the cells in
// between empty. Columns are numbered from 0.
func (t *Table) Skip(col int) *Table {
	if col < t.col {
		panic(fmt.Sprintf("texttab: cannot move back from column %d to %d", t.col, col))
	}
	t.col = col
	return t
}

// Cell adds a one-column cell.
func (t *Table) Cell(text string, opts ...Option) *Table {
	return t.Span(1, text, opts...)
}

// Span adds a cell covering n columns.
func (t *Table) Span(n int, text string, opts ...Option) *Table {
	c := cell{row: t.row, col: t.col, span: n, text: text, margin: " "}
	if t.col == 0 || text == "" {
		c.margin = ""
	}
	for _, o := range opts {
		o(&c)
	}
	t.add(c)
	return t
}

// Rule fills the current row with a horizontal line across all
// columns present when Format is called.
func (t *Table) Rule() *Table {
	t.cells = append(t.cells, cell{row: t.row, col: 0, span: 0, rule: true})
	return t
}

func (t *Table) add(c cell) {
	t.cells = append(t.cells, c)
	t.col += c.span
	if t.col > t.cols {
		t.cols = t.col
	}
}

// widths returns the width of each column including its margin.
func (t *Table) widths() (margins, ws []int) {
	margins = make([]int, t.cols)
	for _, c := range t.cells {
		if !c.rule {
			margins[c.col] = max(margins[c.col], utf8.RuneCountInString(c.margin))
		}
	}

	ws = make([]int, t.cols)
	cells := make([]cell, 0, len(t.cells))
	for _, c := range t.cells {
		if !c.rule {
			cells = append(cells, c)
		}
	}
	// Narrow cells first, so spans only widen what they must.
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].span < cells[j].span })

	var grow []int
	for _, c := range cells {
		need := utf8.RuneCountInString(c.text) + margins[c.col]
		if c.span == 1 {
			ws[c.col] = max(ws[c.col], need)
			continue
		}
		have := 0
		for col := c.col; col < c.col+c.span; col++ {
			have += ws[col]
		}
		if have >= need {
			continue
		}

		// Spread the missing width across the spanned columns,
		// widest first so that columns already past the average
		// give their surplus to the narrower ones.
		grow = grow[:0]
		for col := c.col; col < c.col+c.span; col++ {
			grow = append(grow, col)
		}
		sort.Slice(grow, func(i, j int) bool { return ws[grow[i]] > ws[grow[j]] })
		left := len(grow)
		for _, col := range grow {
			avg := (need + left - 1) / left
			ws[col] = max(ws[col], avg)
			need -= ws[col]
			left--
		}
	}
	return margins, ws
}

// Format lays out the table and writes it to w. Trailing blanks are
// never printed.
func (t *Table) Format(w io.Writer) error {
	margins, ws := t.widths()
	offs := make([]int, t.cols+1)
	for i, cw := range ws {
		offs[i+1] = offs[i] + cw
	}
	total := offs[t.cols]

	cells := append([]cell(nil), t.cells...)
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	var b strings.Builder
	row, pos := 0, 0
	for _, c := range cells {
		for row < c.row {
			b.WriteByte('\n')
			row++
			pos = 0
		}
		if c.rule {
			b.WriteString(strings.Repeat("-", max(0, total-pos)))
			pos = total
			continue
		}
		if strings.TrimSpace(c.text) == "" && strings.TrimSpace(c.margin) == "" {
			continue
		}
		b.WriteString(strings.Repeat(" ", max(0, offs[c.col]-pos)))
		b.WriteString(strings.Repeat(" ", margins[c.col]-utf8.RuneCountInString(c.margin)))
		b.WriteString(c.margin)
		pos = offs[c.col] + margins[c.col]

		s := c.align.pad(c.text, offs[c.col+c.span]-pos)
		b.WriteString(s)
		pos += utf8.RuneCountInString(s)
	}
	if len(cells) > 0 {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
