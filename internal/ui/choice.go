package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/cheater/internal/command"
	"github.com/gubarz/cheater/internal/resolve"
)

// choiceModel is the popup listing the options of a constrained argument
type choiceModel struct {
	name   string
	choice command.Choice
	cursor int
}

// newChoiceModel preselects the option equal to current
func newChoiceModel(name string, choice command.Choice, current string) *choiceModel {
	m := &choiceModel{name: name, choice: choice}
	for i, opt := range choice.Options {
		if opt == current {
			m.cursor = i
			break
		}
	}
	return m
}

// handleKey returns a result once the popup closes
func (m *choiceModel) handleKey(msg tea.KeyMsg, keys keyMap) (resolve.Result, bool) {
	n := len(m.choice.Options)
	switch {
	case key.Matches(msg, keys.Cancel):
		return resolve.Result{Kind: resolve.Dismissed}, true
	case key.Matches(msg, keys.Commit):
		return resolve.Result{Kind: resolve.Replace, Value: m.choice.Options[m.cursor]}, true
	case key.Matches(msg, keys.Prev):
		m.cursor = (m.cursor - 1 + n) % n
	case key.Matches(msg, keys.Next):
		m.cursor = (m.cursor + 1) % n
	}
	return resolve.Result{}, false
}

func (m *choiceModel) view(s *StyleManager) string {
	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(s.ArgName.Render(m.name))
	for i := range m.choice.Options {
		b.WriteString("\n")
		label := m.choice.Label(i)
		if i == m.cursor {
			b.WriteString(s.Cursor.Render("▶ ") + s.WithSelection(s.Header).Render(label))
		} else {
			b.WriteString("  " + label)
		}
	}
	return s.Border.Padding(0, 1).Render(b.String())
}
