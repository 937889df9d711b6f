// Package editor holds the logical text buffer used to edit argument values
// and the layout helpers that map it onto wrapped screen rows.
package editor

// Buffer is a rune buffer with a cursor in [0, Len()]
type Buffer struct {
	text   []rune
	cursor int
}

// NewBuffer returns a buffer holding s with the cursor at the end
func NewBuffer(s string) *Buffer {
	b := &Buffer{}
	b.Set(s)
	return b
}

// Set replaces the content and moves the cursor to the end
func (b *Buffer) Set(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

func (b *Buffer) String() string {
	return string(b.text)
}

// Len returns the length in runes
func (b *Buffer) Len() int {
	return len(b.text)
}

// Cursor returns the logical cursor offset
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor moves the cursor, clamped to the buffer
func (b *Buffer) SetCursor(i int) {
	b.cursor = clamp(i, 0, len(b.text))
}

// Insert inserts s at the cursor and advances past it
func (b *Buffer) Insert(s string) {
	runes := []rune(s)
	if len(runes) == 0 {
		return
	}
	text := make([]rune, 0, len(b.text)+len(runes))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, runes...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(runes)
}

// Backspace removes the rune before the cursor
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// Delete removes the rune under the cursor
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Left moves the cursor one rune left
func (b *Buffer) Left() {
	b.SetCursor(b.cursor - 1)
}

// Right moves the cursor one rune right
func (b *Buffer) Right() {
	b.SetCursor(b.cursor + 1)
}

// Home moves the cursor to the start
func (b *Buffer) Home() {
	b.cursor = 0
}

// End moves the cursor to the end
func (b *Buffer) End() {
	b.cursor = len(b.text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
