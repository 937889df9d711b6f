package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/gubarz/cheater/internal/command"
	"github.com/gubarz/cheater/internal/config"
	"github.com/gubarz/cheater/internal/executor"
	"github.com/gubarz/cheater/internal/parser"
	"github.com/gubarz/cheater/internal/pathcomp"
	"github.com/gubarz/cheater/internal/resolve"
	"github.com/gubarz/cheater/internal/search"
	"github.com/gubarz/cheater/internal/store"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Options
// ============================================================================

// Columns holds list column widths
type Columns struct {
	Header int
	Desc   int
	Gap    int
	Tags   bool
}

// Options wires the TUI to its collaborators
type Options struct {
	Cheats     []*parser.Cheat
	Store      *store.Store
	Resolver   *pathcomp.Resolver
	Finder     Finder
	Policy     command.BuildPolicy
	Labels     map[string][]string // choice labels by argument name
	GlobalVars []string            // names shown in the global options form
	Wordlists  []string            // glob patterns for the fuzzy pick
	Keys       map[string][]string
	Styles     *StyleManager
	Columns    Columns
	Editor     string
	Query      string
	Auto       bool // select the only match of Query without showing the list
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// editorDoneMsg is sent when the external editor exits
type editorDoneMsg struct {
	err error
}

// ============================================================================
// Main Model - cheat list, argument popup and global options in one session
// ============================================================================

// uiPhase represents which screen the TUI shows
type uiPhase int

const (
	phaseList    uiPhase = iota // Selecting a cheat
	phaseArgs                   // Filling arguments
	phaseGlobals                // Editing global variables
)

const previewHeight = 6

// mainModel is the Bubble Tea model for the whole session.
// A single model keeps everything in one alt-screen session.
type mainModel struct {
	// Common state
	width     int
	height    int
	textInput textinput.Model
	quitting  bool
	styles    *StyleManager
	keys      keyMap
	opts      Options

	phase uiPhase

	// Cheat selection state
	cheats   []*parser.Cheat
	filtered []*parser.Cheat
	nav      search.Navigator

	// Argument resolution state (phaseArgs)
	selected *parser.Cheat
	engine   *resolve.Engine
	choice   *choiceModel
	picker   *pickerModel
	status   string

	globals *globalsModel

	// Final command, empty when the session was abandoned
	output string
}

// newMainModel creates a new mainModel from opts
func newMainModel(opts Options) mainModel {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	if opts.Styles == nil {
		opts.Styles = DefaultStyles()
	}
	if opts.Keys == nil {
		opts.Keys = config.DefaultKeys()
	}
	if opts.Columns.Header <= 0 {
		opts.Columns.Header = 40
	}
	if opts.Columns.Desc <= 0 {
		opts.Columns.Desc = 40
	}

	m := mainModel{
		textInput: ti,
		styles:    opts.Styles,
		keys:      newKeyMap(opts.Keys),
		opts:      opts,
		phase:     phaseList,
		cheats:    opts.Cheats,
		filtered:  opts.Cheats,
		nav:       search.Navigator{Window: 10},
	}
	m.nav.Reset(len(m.filtered))
	return m
}

// Init implements tea.Model
func (m mainModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsMsg.Width
		m.height = wsMsg.Height
		m.textInput.Width = wsMsg.Width - 4
		m.nav.SetWindow(m.listHeight())
		if m.picker != nil {
			m.picker.setWindow(m.popupListHeight())
		}
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Quit) {
		m.quitting = true
		m.output = ""
		return m, tea.Quit
	}

	if done, ok := msg.(editorDoneMsg); ok {
		if done.err != nil {
			log.Warn("editor failed", "err", done.err)
		}
		return m, nil
	}

	switch m.phase {
	case phaseArgs:
		return m.updateArgs(msg)
	case phaseGlobals:
		return m.updateGlobals(msg)
	default:
		return m.updateList(msg)
	}
}

// ============================================================================
// Cheat list
// ============================================================================

// updateList handles updates during cheat selection
func (m mainModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleListKey(msg); handled {
			return m, cmd
		}
	case filterMsg:
		m.filterCheats()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleListKey processes keyboard input during cheat selection
func (m *mainModel) handleListKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keys.Commit):
		if cheat := m.current(); cheat != nil {
			return m.startArgs(cheat), true
		}
		return nil, true
	case key.Matches(msg, m.keys.Prev):
		m.nav.Move(-1)
		return nil, true
	case key.Matches(msg, m.keys.Next):
		m.nav.Move(1)
		return nil, true
	case key.Matches(msg, m.keys.PageUp):
		m.nav.MovePage(-1)
		return nil, true
	case key.Matches(msg, m.keys.PageDown):
		m.nav.MovePage(1)
		return nil, true
	case key.Matches(msg, m.keys.Autocomplete):
		query := search.CommonCommandPrefix(m.cheats, m.textInput.Value())
		m.textInput.SetValue(query)
		m.textInput.CursorEnd()
		m.filterCheats()
		return nil, true
	case key.Matches(msg, m.keys.Globals):
		vars := map[string]string{}
		if m.opts.Store != nil {
			vars = m.opts.Store.Vars()
		}
		m.globals = newGlobalsModel(m.opts.GlobalVars, vars)
		m.phase = phaseGlobals
		return nil, true
	case key.Matches(msg, m.keys.OpenFile):
		if cheat := m.current(); cheat != nil {
			return m.openFile(cheat.Filename), true
		}
		return nil, true
	}
	return nil, false
}

// current returns the highlighted cheat
func (m *mainModel) current() *parser.Cheat {
	if m.nav.Position < len(m.filtered) {
		return m.filtered[m.nav.Position]
	}
	return nil
}

// filterCheats filters the cheat list based on the search query
func (m *mainModel) filterCheats() {
	m.filtered = search.Filter(m.cheats, m.textInput.Value())
	m.nav.Reset(len(m.filtered))
}

// openFile opens the cheat source in the editor (suspending the TUI) or in the system viewer
func (m *mainModel) openFile(path string) tea.Cmd {
	cmd := executor.OpenCommand(m.opts.Editor, path)
	if m.opts.Editor != "" {
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorDoneMsg{err: err}
		})
	}
	if err := cmd.Start(); err != nil {
		log.Warn("open file failed", "file", path, "err", err)
	}
	return nil
}

// ============================================================================
// Argument resolution
// ============================================================================

// startArgs parses cheat and opens the argument popup. A command without
// arguments finishes the session at once.
func (m *mainModel) startArgs(cheat *parser.Cheat) tea.Cmd {
	globals := map[string]string{}
	if m.opts.Store != nil {
		globals = m.opts.Store.Vars()
	}

	cmd := command.Parse(cheat, globals, m.opts.Labels)
	var completer resolve.Completer
	if m.opts.Resolver != nil {
		completer = m.opts.Resolver
	}

	m.selected = cheat
	m.engine = resolve.NewEngine(cmd, m.opts.Policy, completer)
	m.status = ""

	if m.engine.State() == resolve.Committed {
		m.output = m.engine.Output()
		m.quitting = true
		return tea.Quit
	}
	m.phase = phaseArgs
	return nil
}

// backToList leaves the argument popup without side effects
func (m *mainModel) backToList() {
	m.phase = phaseList
	m.selected = nil
	m.engine = nil
	m.choice = nil
	m.picker = nil
	m.status = ""
}

// updateArgs handles updates while filling arguments
func (m mainModel) updateArgs(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fuzzyResultMsg:
		m.engine.Apply(msg.result)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleArgsKey(msg)
	}
	return m, nil
}

// handleArgsKey routes keys to the open sub-flow, or to the engine
func (m *mainModel) handleArgsKey(msg tea.KeyMsg) tea.Cmd {
	switch m.engine.State() {
	case resolve.ChoicePopup:
		if result, done := m.choice.handleKey(msg, m.keys); done {
			m.engine.Apply(result)
			m.choice = nil
		}
		return nil
	case resolve.FilePicker:
		if result, done := m.picker.handleKey(msg, m.keys); done {
			m.engine.Apply(result)
			m.picker = nil
		}
		return nil
	case resolve.FuzzyPick:
		return nil
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.engine.Cancel()
		m.backToList()
	case key.Matches(msg, m.keys.Commit):
		if m.engine.Commit() {
			m.output = m.engine.Output()
			m.quitting = true
			return tea.Quit
		}
		m.status = "missing value: " + strings.Join(m.engine.Command().Missing(), ", ")
	case key.Matches(msg, m.keys.Next):
		m.engine.Next()
	case key.Matches(msg, m.keys.Prev):
		m.engine.Prev()
	case key.Matches(msg, m.keys.Autocomplete):
		m.engine.Autocomplete()
	case key.Matches(msg, m.keys.Choices):
		if m.engine.OpenChoices() {
			choice, _ := m.engine.Choice()
			slot := m.engine.Command().Slots[m.engine.Index()]
			m.choice = newChoiceModel(slot.Name, choice, slot.Value)
		}
	case key.Matches(msg, m.keys.FilePicker):
		if m.opts.Resolver != nil && m.engine.OpenFilePicker() {
			m.picker = newPickerModel(m.opts.Resolver, m.popupListHeight())
		}
	case key.Matches(msg, m.keys.Fuzzy):
		return m.openFuzzy()
	default:
		m.editArg(msg)
	}
	return nil
}

// editArg applies text editing keys to the active value
func (m *mainModel) editArg(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyBackspace:
		m.engine.Backspace()
	case tea.KeyDelete:
		m.engine.Delete()
	case tea.KeyLeft:
		m.engine.Left()
	case tea.KeyRight:
		m.engine.Right()
	case tea.KeyHome, tea.KeyCtrlA:
		m.engine.Home()
	case tea.KeyEnd, tea.KeyCtrlE:
		m.engine.End()
	case tea.KeySpace:
		m.engine.Insert(" ")
	case tea.KeyRunes:
		m.engine.Insert(string(msg.Runes))
	}
}

// openFuzzy expands the wordlists and hands the terminal to the finder.
// Without a finder or any wordlist the key does nothing.
func (m *mainModel) openFuzzy() tea.Cmd {
	if m.opts.Finder == nil || m.opts.Resolver == nil {
		return nil
	}
	files, err := m.opts.Resolver.Wordlists(m.opts.Wordlists)
	if err != nil {
		log.Debug("wordlists unavailable", "err", err)
	}
	if !m.engine.OpenFuzzy(err == nil) {
		return nil
	}
	return runFinder(m.opts.Finder, files)
}

// ============================================================================
// Global options
// ============================================================================

// updateGlobals handles the global options form
func (m mainModel) updateGlobals(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	done, save, cmd := m.globals.handleKey(keyMsg, m.keys)
	if !done {
		return m, cmd
	}

	if save && m.opts.Store != nil {
		m.opts.Store.Replace(m.globals.values())
		if err := m.opts.Store.Save(); err != nil {
			log.Error("saving global variables failed", "err", err)
		}
	}
	m.globals = nil
	m.phase = phaseList
	return m, nil
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m mainModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseArgs:
		return m.renderArgs()
	case phaseGlobals:
		width, height := maxInt(m.width, 40), maxInt(m.height, 12)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.globals.view(m.styles, width-4))
	default:
		return m.renderCheatSelect()
	}
}

// listHeight is the number of list rows between the preview and the input
func (m mainModel) listHeight() int {
	inputLines := 3 // divider + info + input
	return maxInt(m.height-previewHeight-1-inputLines, 3)
}

// popupListHeight is the number of rows a popup list shows
func (m mainModel) popupListHeight() int {
	return maxInt(m.height-6, 3)
}

// renderCheatSelect builds the cheat selection view
func (m mainModel) renderCheatSelect() string {
	width := maxInt(m.width, 80)
	height := maxInt(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview)

	inputLines := 3
	list := m.renderList(width)
	listLines := countLines(list)

	padding := maxInt(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderPreview renders the preview section for the highlighted cheat
func (m mainModel) renderPreview(width int) string {
	s := m.styles
	b := getBuilder()
	defer putBuilder(b)
	lines := 0

	if cheat := m.current(); cheat != nil {
		header := s.PreviewHeader.Render(cheat.Name)
		if cheat.Title != "" {
			header += s.Dim.Render("  " + cheat.Title + " • " + filepath.Base(cheat.Filename))
		}
		b.WriteString(header)
		b.WriteString("\n")
		lines++

		if cheat.Description != "" {
			desc := truncateLines(cheat.Description, 2, width)
			b.WriteString(s.PreviewDesc.Render(desc))
			b.WriteString("\n")
			lines += countLines(desc)
		}

		b.WriteString("\n")
		lines++

		cmd := truncateLines(cheat.Command, maxInt(previewHeight-lines, 1), width)
		b.WriteString(s.PreviewCmd.Render(cmd))
		b.WriteString("\n")
		lines += countLines(cmd)
	}

	// Pad to fixed height
	for lines < previewHeight {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(s.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the visible window of the filtered cheats
func (m mainModel) renderList(width int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := m.nav.Visible()
	gap := strings.Repeat(" ", maxInt(m.opts.Columns.Gap, 1))

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.nav.Position, gap, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderListItem renders one cheat as name, tags and command columns
func (m mainModel) renderListItem(cheat *parser.Cheat, selected bool, gap string, width int) string {
	s := m.styles
	hStyle, dStyle, cStyle := s.Header, s.Tags, s.Command
	if selected {
		hStyle, dStyle, cStyle = s.WithSelection(hStyle), s.WithSelection(dStyle), s.WithSelection(cStyle)
	}

	cols := m.opts.Columns
	used := 2 + cols.Header + len(gap)
	line := hStyle.Render(pad(truncate(cheat.Name, cols.Header), cols.Header)) + gap

	if cols.Tags {
		tags := strings.TrimSpace(cheat.Tags() + " " + cheat.TagLabels())
		line += dStyle.Render(pad(truncate(tags, cols.Desc), cols.Desc)) + gap
		used += cols.Desc + len(gap)
	}

	line += cStyle.Render(truncate(cheat.PrintableCommand(), maxInt(width-used, 10)))
	if selected {
		return s.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// renderInput renders the input section at the bottom
func (m mainModel) renderInput(width int) string {
	s := m.styles
	b := getBuilder()
	defer putBuilder(b)

	launchDir := ""
	if m.opts.Resolver != nil {
		launchDir = m.opts.Resolver.Base
	}

	b.WriteString(s.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(s.Dim.Render(fmt.Sprintf("  %s  %d/%d", launchDir, len(m.filtered), len(m.cheats))))
	b.WriteString(" • ")
	b.WriteString(s.Dim.Render(hint(m.keys.Globals)))
	b.WriteString(" • ")
	b.WriteString(s.Dim.Render(hint(m.keys.OpenFile)))
	b.WriteString(" • ")
	b.WriteString(s.Dim.Render(hint(m.keys.Cancel)))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// If stdout is not a terminal (piped or captured by $()), use /dev/tty
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Run launches the TUI and returns the resolved command, or "" when the
// user left without choosing one.
func Run(opts Options) (string, error) {
	if len(opts.Cheats) == 0 {
		return "", parser.ErrNoCheats
	}

	m := newMainModel(opts)

	if opts.Query != "" {
		m.textInput.SetValue(opts.Query)
		m.filterCheats()

		if opts.Auto && len(m.filtered) == 1 {
			m.startArgs(m.filtered[0])
			if m.quitting {
				return m.output, nil
			}
		}
	}

	ttyIn, ttyOut, cleanup := getTTY()
	if opts.Styles == nil {
		// Load after getTTY so colors are detected on the right terminal
		m.styles = NewStyles()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	cleanup()

	if err != nil {
		return "", fmt.Errorf("run tui: %w", err)
	}
	return finalModel.(mainModel).output, nil
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// maxInt returns the larger of a and b
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// truncate cuts s to width display cells with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// pad right-pads s with spaces to width display cells
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// truncateLines keeps at most maxLines lines, each cut to maxLen cells
func truncateLines(text string, maxLines int, maxLen int) string {
	lines := strings.Split(text, "\n")
	more := len(lines) > maxLines
	if more {
		lines = lines[:maxLines]
	}
	if maxLen > 0 {
		for i, line := range lines {
			lines[i] = truncate(line, maxLen)
		}
	}
	text = strings.Join(lines, "\n")
	if more {
		text += "…"
	}
	return text
}
