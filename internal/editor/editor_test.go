package editor

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferEditing(t *testing.T) {
	b := NewBuffer("hllo")
	assert.Equal(t, 4, b.Cursor())

	b.Home()
	b.Right()
	b.Insert("e")
	assert.Equal(t, "hello", b.String())
	assert.Equal(t, 2, b.Cursor())

	b.End()
	assert.True(t, b.Backspace())
	assert.Equal(t, "hell", b.String())

	b.Home()
	assert.False(t, b.Backspace())
	assert.True(t, b.Delete())
	assert.Equal(t, "ell", b.String())

	b.End()
	assert.False(t, b.Delete())
}

func TestBufferCursorClamped(t *testing.T) {
	b := NewBuffer("ab")
	b.Right()
	assert.Equal(t, 2, b.Cursor())

	b.SetCursor(-3)
	assert.Equal(t, 0, b.Cursor())
	b.Left()
	assert.Equal(t, 0, b.Cursor())

	b.SetCursor(99)
	assert.Equal(t, 2, b.Cursor())
}

func TestBufferRunes(t *testing.T) {
	b := NewBuffer("héllo")
	assert.Equal(t, 5, b.Len())

	b.SetCursor(2)
	assert.True(t, b.Backspace())
	assert.Equal(t, "hllo", b.String())

	b.Insert("ü")
	assert.Equal(t, "hüllo", b.String())
	assert.Equal(t, 2, b.Cursor())
}

func TestPosition(t *testing.T) {
	text := strings.Repeat("abcdefghij", 3)
	tests := []struct {
		name             string
		prefix, off, w   int
		wantRow, wantCol int
	}{
		{"start", 2, 0, 10, 0, 2},
		{"end of first row", 2, 7, 10, 0, 9},
		{"wraps", 2, 8, 10, 1, 0},
		{"third row", 0, 25, 10, 2, 5},
		{"zero width", 0, 3, 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := Position(text, tt.prefix, tt.off, tt.w)
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"abc", "defgh", ""}, Wrap("abcdefgh", 2, 5))
	assert.Equal(t, []string{"abc", "de"}, Wrap("abcde", 2, 5))
	assert.Equal(t, []string{""}, Wrap("", 2, 5))
}

func TestWrapAgreesWithPosition(t *testing.T) {
	text := "the quick brown fox jumps"
	runes := []rune(text)
	for width := 4; width <= 12; width++ {
		rows := Wrap(text, 3, width)
		for off := 0; off < len(runes); off++ {
			row, col := Position(text, 3, off, width)
			assert.Less(t, row, len(rows))
			line := []rune(rows[row])
			if row == 0 {
				col -= 3
			}
			assert.Equal(t, runes[off], line[col], "offset %d width %d", off, width)
		}
		row, _ := Position(text, 3, len(runes), width)
		assert.Less(t, row, len(rows))
	}
}

func TestWrapWideRunes(t *testing.T) {
	assert.Equal(t, []string{"日", "本語"}, Wrap("日本語", 3, 5))

	row, col := Position("日本語", 3, 1, 5)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	row, col = Position("日本語", 3, 3, 5)
	assert.Equal(t, 1, row)
	assert.Equal(t, 4, col)
}

func TestWrapFitsWidthInCells(t *testing.T) {
	texts := []string{
		strings.Repeat("日本", 15),
		"mixed ascii 和 wide 文字 text 🙂 with emoji",
		"ok",
	}
	for _, text := range texts {
		runes := []rune(text)
		for width := 2; width <= 24; width++ {
			rows := Wrap(text, 4, width)
			for i, row := range rows {
				used := runewidth.StringWidth(row)
				if i == 0 {
					used += 4 % width
				}
				assert.LessOrEqual(t, used, width, "%q width %d row %d", text, width, i)
			}

			for off := 0; off < len(runes); off++ {
				row, _ := Position(text, 4, off, width)
				require.Less(t, row, len(rows))
				assert.Contains(t, rows[row], string(runes[off]), "%q width %d offset %d", text, width, off)
			}
			row, _ := Position(text, 4, len(runes), width)
			assert.Less(t, row, len(rows))
		}
	}
}
