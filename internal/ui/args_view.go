package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gubarz/cheater/internal/command"
	"github.com/gubarz/cheater/internal/editor"
	"github.com/gubarz/cheater/internal/resolve"
)

// renderArgs draws the argument popup, or the open sub-flow on top of it
func (m mainModel) renderArgs() string {
	width := maxInt(m.width, 40)
	height := maxInt(m.height, 12)

	var popup string
	switch m.engine.State() {
	case resolve.ChoicePopup:
		popup = m.choice.view(m.styles)
	case resolve.FilePicker:
		popup = m.picker.view(m.styles, clamp(width-8, 10, 100))
	default:
		popup = m.renderArgsBox(clamp(width-4, 20, 120))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, popup)
}

// gutter is the width of the "$ " and "▶ " markers left of the preview and
// the value editor. Both wrap their text at the same width right of it.
const gutter = 2

// renderArgsBox renders the cheat name, its description, the live command
// preview and the editor for the active argument
func (m mainModel) renderArgsBox(boxWidth int) string {
	s := m.styles
	inner := boxWidth - 4 // border + padding
	wrap := maxInt(inner-gutter, 1)
	cmd := m.engine.Command()

	desc := cmd.WrapDescription(inner)
	argLines := m.renderArgLines(cmd, wrap)
	fixed := 6 + len(desc) + len(argLines) // name, divider, blank, hints, border
	if m.status != "" {
		fixed++
	}
	rows, hidden := m.fitPreview(cmd, wrap, maxInt(m.height, 12)-fixed)

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(s.PreviewHeader.Render(truncate(m.selected.Name, inner)))
	for _, line := range desc {
		b.WriteString("\n")
		b.WriteString(s.PreviewDesc.Render(line))
	}
	b.WriteString("\n")
	b.WriteString(s.Divider.Render(strings.Repeat("─", inner)))

	for i, row := range rows {
		b.WriteString("\n")
		if i == 0 {
			b.WriteString(s.Dim.Render("$ "))
		} else {
			b.WriteString(strings.Repeat(" ", gutter))
		}
		b.WriteString(m.renderPreviewRow(row))
	}
	if hidden > 0 {
		b.WriteString("\n")
		b.WriteString(s.Dim.Render(truncate(fmt.Sprintf("  … %d more rows", hidden), inner)))
	}

	b.WriteString("\n\n")
	b.WriteString(strings.Join(argLines, "\n"))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(truncate(m.status, inner)))
	}

	b.WriteString("\n")
	b.WriteString(s.Dim.Render(truncate(m.argsHints(cmd), inner)))

	return s.Border.Padding(0, 1).Width(boxWidth - 2).Render(b.String())
}

// fitPreview returns the preview rows to draw in at most budget lines and the
// number of rows left out. When the preview does not fit, one line goes to
// the "more rows" marker and the window keeps the active argument in view.
func (m mainModel) fitPreview(cmd *command.Command, wrap, budget int) ([]command.Row, int) {
	rows := cmd.PreviewRows(wrap)
	count := cmd.PreviewLineCount(wrap)
	if count <= budget {
		return rows, 0
	}

	keep := maxInt(budget-1, 1)
	active := 0
	for i, row := range rows {
		if rowHasSlot(row, m.engine.Index()) {
			active = i
			break
		}
	}
	start := 0
	if active >= keep {
		start = active - keep + 1
	}
	return rows[start : start+keep], count - keep
}

func rowHasSlot(row command.Row, slot int) bool {
	for _, seg := range row {
		if seg.Slot == slot {
			return true
		}
	}
	return false
}

// renderPreviewRow styles argument segments, highlighting the active slot
func (m mainModel) renderPreviewRow(row command.Row) string {
	s := m.styles
	var out strings.Builder
	for _, seg := range row {
		switch {
		case seg.Slot < 0:
			out.WriteString(s.PreviewCmd.Render(seg.Text))
		case seg.Slot == m.engine.Index():
			out.WriteString(s.Arg.Render(seg.Text))
		default:
			out.WriteString(s.ArgOther.Render(seg.Text))
		}
	}
	return out.String()
}

// renderArgLines draws "▶ name = value" with the caret, wrapped at wrap
// cells right of the gutter
func (m mainModel) renderArgLines(cmd *command.Command, wrap int) []string {
	s := m.styles
	slot := cmd.Slots[m.engine.Index()]
	prefixWidth := runewidth.StringWidth(slot.Name + " = ")

	buf := m.engine.Buffer()
	rows := editor.Wrap(buf.String(), prefixWidth, wrap)
	caretRow, _ := editor.Position(buf.String(), prefixWidth, buf.Cursor(), wrap)

	out := make([]string, 0, len(rows)+1)
	offset := 0 // rune offset of the row start
	for r, text := range rows {
		var line strings.Builder
		if r == 0 {
			line.WriteString(s.Cursor.Render("▶ ") + s.ArgName.Render(slot.Name) + s.Dim.Render(" = "))
		} else {
			line.WriteString(strings.Repeat(" ", gutter))
		}

		runes := []rune(text)
		if r == caretRow {
			col := clamp(buf.Cursor()-offset, 0, len(runes))
			line.WriteString(string(runes[:col]))
			if col < len(runes) {
				line.WriteString(s.TextCaret.Render(string(runes[col])))
				line.WriteString(string(runes[col+1:]))
			} else {
				line.WriteString(s.TextCaret.Render(" "))
			}
		} else {
			line.WriteString(text)
		}
		offset += len(runes)
		out = append(out, line.String())
	}

	if choice, ok := cmd.Choice(m.engine.Index()); ok {
		out = append(out, s.Dim.Render(truncate("  one of: "+strings.Join(choice.Options, " | "), wrap+gutter)))
	}
	return out
}

// argsHints lists the bindings available for the active argument
func (m mainModel) argsHints(cmd *command.Command) string {
	hints := []string{hint(m.keys.Commit), hint(m.keys.Next), hint(m.keys.Autocomplete)}
	if _, ok := cmd.Choice(m.engine.Index()); ok {
		hints = append(hints, hint(m.keys.Choices))
	}
	hints = append(hints, hint(m.keys.FilePicker), hint(m.keys.Fuzzy), hint(m.keys.Cancel))
	return strings.Join(hints, " • ")
}
