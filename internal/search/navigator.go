package search

// Navigator tracks the highlighted row and the first visible row of a list
// showing Window rows at a time.
type Navigator struct {
	Position     int
	PagePosition int
	Window       int
	Len          int
}

// Reset points the navigator at the top of a list of n items
func (n *Navigator) Reset(length int) {
	n.Len = length
	n.Position = 0
	n.PagePosition = 0
}

// SetWindow changes the visible row count, keeping the position in view
func (n *Navigator) SetWindow(window int) {
	if window < 1 {
		window = 1
	}
	n.Window = window
	n.Move(0)
}

// Move shifts the position by step, clamped to the list, scrolling the page
// by the minimum amount that keeps the position visible.
func (n *Navigator) Move(step int) {
	if n.Len == 0 {
		n.Position, n.PagePosition = 0, 0
		return
	}

	n.Position += step
	if n.Position < 0 {
		n.Position = 0
	}
	if n.Position > n.Len-1 {
		n.Position = n.Len - 1
	}

	if n.PagePosition > n.Position {
		n.PagePosition = n.Position
	}
	if n.Position >= n.PagePosition+n.Window {
		n.PagePosition = n.Position - n.Window + 1
	}
}

// MovePage jumps by whole windows. It only moves when the list overflows the window.
func (n *Navigator) MovePage(step int) {
	if n.Len <= n.Window {
		return
	}

	newPos := n.PagePosition + step*n.Window
	switch {
	case newPos >= n.Len+1-n.Window:
		n.Position = n.Len - 1
		n.PagePosition = n.Len - n.Window
	case newPos < 0:
		n.Position, n.PagePosition = 0, 0
	default:
		n.Position, n.PagePosition = newPos, newPos
	}
}

// Visible returns the half-open range of rows on screen
func (n *Navigator) Visible() (start, end int) {
	start = n.PagePosition
	end = start + n.Window
	if end > n.Len {
		end = n.Len
	}
	return start, end
}
