package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// globalsModel is the form editing the common variables kept in the store
type globalsModel struct {
	names  []string
	inputs []textinput.Model
	focus  int
}

func newGlobalsModel(names []string, vars map[string]string) *globalsModel {
	m := &globalsModel{names: names, inputs: make([]textinput.Model, len(names))}
	for i, name := range names {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.SetValue(vars[name])
		m.inputs[i] = ti
	}
	m.setFocus(0)
	return m
}

func (m *globalsModel) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// values returns the form content keyed by variable name
func (m *globalsModel) values() map[string]string {
	out := make(map[string]string, len(m.names))
	for i, name := range m.names {
		out[name] = m.inputs[i].Value()
	}
	return out
}

// handleKey reports done when the form closes and save when it should be stored
func (m *globalsModel) handleKey(msg tea.KeyMsg, keys keyMap) (done, save bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return true, false, nil
	case key.Matches(msg, keys.Commit):
		return true, true, nil
	case key.Matches(msg, keys.Next), key.Matches(msg, keys.Autocomplete):
		m.setFocus(m.focus + 1)
		return false, false, nil
	case key.Matches(msg, keys.Prev):
		m.setFocus(m.focus - 1)
		return false, false, nil
	}

	if len(m.inputs) == 0 {
		return false, false, nil
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return false, false, cmd
}

func (m *globalsModel) view(s *StyleManager, width int) string {
	nameWidth := 0
	for _, name := range m.names {
		nameWidth = maxInt(nameWidth, len(name))
	}

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(s.PreviewHeader.Render("Global variables"))
	for i, name := range m.names {
		m.inputs[i].Width = maxInt(width-nameWidth-6, 10)
		marker := "  "
		if i == m.focus {
			marker = s.Cursor.Render("▶ ")
		}
		fmt.Fprintf(b, "\n%s%s  %s", marker, s.ArgName.Render(fmt.Sprintf("%-*s", nameWidth, name)), m.inputs[i].View())
	}
	return s.Border.Padding(0, 1).Render(b.String())
}
