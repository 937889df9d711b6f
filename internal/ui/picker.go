package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/cheater/internal/pathcomp"
	"github.com/gubarz/cheater/internal/resolve"
	"github.com/gubarz/cheater/internal/search"
)

// pickerModel browses the filesystem from the launch directory
type pickerModel struct {
	resolver *pathcomp.Resolver
	dir      string
	entries  []pathcomp.Entry
	nav      search.Navigator
}

func newPickerModel(resolver *pathcomp.Resolver, window int) *pickerModel {
	m := &pickerModel{resolver: resolver, nav: search.Navigator{Window: window}}
	m.open(resolver.Base)
	return m
}

func (m *pickerModel) open(dir string) {
	m.dir = filepath.Clean(dir)
	m.entries = m.resolver.ListDir(m.dir)
	m.nav.Reset(len(m.entries))
}

// handleKey descends into directories and returns a result when a file is
// picked or the picker is dismissed. Picked paths are relative to the launch directory.
func (m *pickerModel) handleKey(msg tea.KeyMsg, keys keyMap) (resolve.Result, bool) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return resolve.Result{Kind: resolve.Dismissed}, true
	case key.Matches(msg, keys.Commit):
		if len(m.entries) == 0 {
			return resolve.Result{}, false
		}
		entry := m.entries[m.nav.Position]
		full := filepath.Join(m.dir, entry.Name)
		if entry.Dir {
			m.open(full)
			return resolve.Result{}, false
		}
		return resolve.Result{Kind: resolve.Append, Value: m.resolver.Rel(full)}, true
	case key.Matches(msg, keys.Prev):
		m.nav.Move(-1)
	case key.Matches(msg, keys.Next):
		m.nav.Move(1)
	case key.Matches(msg, keys.PageUp):
		m.nav.MovePage(-1)
	case key.Matches(msg, keys.PageDown):
		m.nav.MovePage(1)
	}
	return resolve.Result{}, false
}

func (m *pickerModel) setWindow(window int) {
	m.nav.SetWindow(window)
}

func (m *pickerModel) view(s *StyleManager, width int) string {
	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(s.ArgName.Render(truncate(m.dir, width)))
	if len(m.entries) == 0 {
		b.WriteString("\n" + s.Dim.Render("(empty)"))
	}

	start, end := m.nav.Visible()
	for i := start; i < end; i++ {
		entry := m.entries[i]
		name := entry.Name
		if entry.Dir {
			name += string(filepath.Separator)
		}
		name = truncate(name, width-2)

		b.WriteString("\n")
		if i == m.nav.Position {
			b.WriteString(s.Cursor.Render("▶ ") + s.WithSelection(s.Header).Render(name))
		} else if entry.Dir {
			b.WriteString("  " + s.Header.Render(name))
		} else {
			b.WriteString("  " + name)
		}
	}
	return s.Border.Padding(0, 1).Render(b.String())
}
