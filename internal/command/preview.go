package command

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// continuation is drawn before the second and later lines of a multi-line command
const continuation = "> "

// Segment is a run of preview text. Slot is -1 for literal text.
type Segment struct {
	Text string
	Slot int
}

// Row is one screen row of the preview
type Row []Segment

type cell struct {
	r     rune
	slot  int
	width int // display cells
}

// previewLines renders the command with display values, split on newlines
func (c *Command) previewLines() [][]cell {
	parts, occurrences := c.Parts()

	var stream []cell
	push := func(s string, slot int) {
		for _, r := range s {
			stream = append(stream, cell{r, slot, runewidth.RuneWidth(r)})
		}
	}
	for i, part := range parts {
		push(part, -1)
		if i < len(occurrences) {
			push(c.DisplayValue(occurrences[i]), occurrences[i])
		}
	}

	lines := [][]cell{nil}
	for _, cl := range stream {
		if cl.r == '\n' {
			lines = append(lines, nil)
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], cl)
	}

	for i := 1; i < len(lines); i++ {
		prefix := make([]cell, 0, len(continuation)+len(lines[i]))
		for _, r := range continuation {
			prefix = append(prefix, cell{r, -1, runewidth.RuneWidth(r)})
		}
		lines[i] = append(prefix, lines[i]...)
	}
	return lines
}

// breakLine splits one preview line into rows of at most width cells. A
// cell that does not fit starts the next row. An empty line is one empty row.
func breakLine(line []cell, width int) [][]cell {
	if len(line) == 0 {
		return [][]cell{nil}
	}
	var rows [][]cell
	start, used := 0, 0
	for i, cl := range line {
		if used > 0 && used+cl.width > width {
			rows = append(rows, line[start:i])
			start, used = i, 0
		}
		used += cl.width
	}
	return append(rows, line[start:])
}

// PreviewLineCount returns how many rows the preview takes at width cells
func (c *Command) PreviewLineCount(width int) int {
	if width < 1 {
		width = 1
	}
	total := 0
	for _, line := range c.previewLines() {
		total += len(breakLine(line, width))
	}
	return total
}

// PreviewRows wraps the preview to width display cells, keeping track of
// which slot each piece of text belongs to. len(rows) == PreviewLineCount(width).
func (c *Command) PreviewRows(width int) []Row {
	if width < 1 {
		width = 1
	}

	var rows []Row
	for _, line := range c.previewLines() {
		for _, cells := range breakLine(line, width) {
			if len(cells) == 0 {
				rows = append(rows, Row{})
				continue
			}
			rows = append(rows, segments(cells))
		}
	}
	return rows
}

func segments(cells []cell) Row {
	var (
		row Row
		sb  strings.Builder
	)
	slot := cells[0].slot
	for _, cl := range cells {
		if cl.slot != slot {
			row = append(row, Segment{Text: sb.String(), Slot: slot})
			sb.Reset()
			slot = cl.slot
		}
		sb.WriteRune(cl.r)
	}
	return append(row, Segment{Text: sb.String(), Slot: slot})
}

// String joins the segments of a row
func (r Row) String() string {
	var sb strings.Builder
	for _, s := range r {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
