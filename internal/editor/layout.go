package editor

import "github.com/mattn/go-runewidth"

// place lays out runes after a prefix of prefixWidth cells, wrapping at width
// cells. A rune that does not fit on the current row starts the next one.
// fn, when set, receives each rune's index, row and cell column. The returned
// row and column are those of an end-of-text cursor, which takes one cell.
func place(runes []rune, prefixWidth, width int, fn func(i, row, col int)) (row, col int) {
	if width < 1 {
		width = 1
	}
	row, col = prefixWidth/width, prefixWidth%width
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		if col > 0 && col+w > width {
			row++
			col = 0
		}
		if fn != nil {
			fn(i, row, col)
		}
		col += w
	}
	if col >= width {
		row++
		col = 0
	}
	return row, col
}

// Position maps a logical rune offset in s to a screen (row, col) when the
// text follows a prefix of prefixWidth cells on the first row and wraps at
// width cells. col counts display cells.
func Position(s string, prefixWidth, offset, width int) (row, col int) {
	runes := []rune(s)
	offset = clamp(offset, 0, len(runes))
	if offset == len(runes) {
		return place(runes, prefixWidth, width, nil)
	}
	place(runes[:offset+1], prefixWidth, width, func(i, r, c int) {
		if i == offset {
			row, col = r, c
		}
	})
	return row, col
}

// Wrap hard-wraps s at width cells, leaving prefixWidth cells free on the
// first row. The result always holds the row of an end-of-text cursor, so
// for any offset in [0, len(s)] the row returned by Position is a valid index.
func Wrap(s string, prefixWidth, width int) []string {
	runes := []rune(s)
	rows := [][]rune{nil}
	lastRow, _ := place(runes, prefixWidth, width, func(i, row, col int) {
		for len(rows) <= row {
			rows = append(rows, nil)
		}
		rows[row] = append(rows[row], runes[i])
	})
	for len(rows) <= lastRow {
		rows = append(rows, nil)
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}
