// Package resolve drives the interactive filling of a command's arguments.
//
// The Engine owns the Command being resolved, the active slot and the text
// buffer editing its value. Sub-flows (choice popup, file picker, fuzzy
// pick) are run by the caller; the engine only records which one is open
// and applies the Result it eventually returns.
package resolve

import (
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/gubarz/cheater/internal/command"
	"github.com/gubarz/cheater/internal/editor"
)

// State is the engine state
type State int

const (
	Editing State = iota
	ChoicePopup
	FilePicker
	FuzzyPick
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case ChoicePopup:
		return "choice"
	case FilePicker:
		return "picker"
	case FuzzyPick:
		return "fuzzy"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ResultKind tells how a sub-flow result changes the active value
type ResultKind int

const (
	Replace ResultKind = iota
	Append
	Dismissed
	// Unavailable reports a sub-flow that could not run. The value is untouched.
	Unavailable
)

// Result is what a sub-flow hands back to the engine
type Result struct {
	Kind  ResultKind
	Value string
}

// Completer extends a partial path
type Completer interface {
	Complete(value string) (string, bool)
}

// Engine is the argument resolution state machine
type Engine struct {
	cmd       *command.Command
	policy    command.BuildPolicy
	completer Completer

	state  State
	index  int
	buf    *editor.Buffer
	output string
}

// NewEngine starts resolving cmd. A command without arguments is committed at once.
func NewEngine(cmd *command.Command, policy command.BuildPolicy, completer Completer) *Engine {
	e := &Engine{
		cmd:       cmd,
		policy:    policy,
		completer: completer,
		buf:       editor.NewBuffer(""),
	}
	if len(cmd.Slots) == 0 {
		e.Commit()
		return e
	}
	e.load()
	return e
}

// Command returns the command being resolved
func (e *Engine) Command() *command.Command { return e.cmd }

// State returns the current state
func (e *Engine) State() State { return e.state }

// Index returns the active slot index
func (e *Engine) Index() int { return e.index }

// Buffer returns the buffer editing the active value
func (e *Engine) Buffer() *editor.Buffer { return e.buf }

// Output returns the built command once Committed
func (e *Engine) Output() string { return e.output }

// Done reports whether the engine reached a final state
func (e *Engine) Done() bool {
	return e.state == Committed || e.state == Cancelled
}

// load points the buffer at the active slot
func (e *Engine) load() {
	e.buf.Set(e.cmd.Slots[e.index].Value)
}

// sync mirrors the buffer into the active slot. Every occurrence of the
// name renders from that one slot.
func (e *Engine) sync() {
	e.cmd.SetValue(e.index, e.buf.String())
}

func (e *Engine) editing() bool {
	return e.state == Editing && len(e.cmd.Slots) > 0
}

// Next selects the next slot, wrapping around
func (e *Engine) Next() {
	e.step(1)
}

// Prev selects the previous slot, wrapping around
func (e *Engine) Prev() {
	e.step(-1)
}

// step moves to the next slot whose name has not appeared at a lower index
func (e *Engine) step(dir int) {
	if !e.editing() {
		return
	}
	n := len(e.cmd.Slots)
	start := e.index
	for {
		e.index = (e.index + dir + n) % n
		if e.index == start || e.firstOfName(e.index) {
			break
		}
	}
	e.load()
}

func (e *Engine) firstOfName(i int) bool {
	name := e.cmd.Slots[i].Name
	for j := 0; j < i; j++ {
		if e.cmd.Slots[j].Name == name {
			return false
		}
	}
	return true
}

// Commit builds the command. With a strict policy and a missing value the
// engine stays in Editing and false is returned.
func (e *Engine) Commit() bool {
	if e.state != Editing {
		return false
	}
	out, ok := e.cmd.Build(e.policy)
	if !ok {
		return false
	}
	e.output = out
	e.state = Committed
	return true
}

// Cancel abandons resolution
func (e *Engine) Cancel() {
	if e.Done() {
		return
	}
	e.state = Cancelled
}

// ============================================================================
// Text editing
// ============================================================================

// Insert types s at the cursor
func (e *Engine) Insert(s string) {
	if !e.editing() {
		return
	}
	e.buf.Insert(s)
	e.sync()
}

// Backspace deletes before the cursor
func (e *Engine) Backspace() {
	if e.editing() && e.buf.Backspace() {
		e.sync()
	}
}

// Delete deletes under the cursor
func (e *Engine) Delete() {
	if e.editing() && e.buf.Delete() {
		e.sync()
	}
}

// Left moves the cursor left
func (e *Engine) Left() {
	if e.editing() {
		e.buf.Left()
	}
}

// Right moves the cursor right
func (e *Engine) Right() {
	if e.editing() {
		e.buf.Right()
	}
}

// Home moves the cursor to the start of the value
func (e *Engine) Home() {
	if e.editing() {
		e.buf.Home()
	}
}

// End moves the cursor to the end of the value
func (e *Engine) End() {
	if e.editing() {
		e.buf.End()
	}
}

// SetValue replaces the active value
func (e *Engine) SetValue(v string) {
	if !e.editing() {
		return
	}
	e.buf.Set(v)
	e.sync()
}

// Autocomplete completes the active value as a path. An empty value moves
// to the next slot instead.
func (e *Engine) Autocomplete() {
	if !e.editing() {
		return
	}
	value := e.buf.String()
	if value == "" {
		e.Next()
		return
	}
	if e.completer == nil {
		return
	}
	if completed, ok := e.completer.Complete(value); ok && completed != value {
		e.SetValue(completed)
	}
}

// ============================================================================
// Sub-flows
// ============================================================================

// Choice returns the constraint of the active slot, if any
func (e *Engine) Choice() (command.Choice, bool) {
	return e.cmd.Choice(e.index)
}

// OpenChoices enters the choice popup when the active slot has options
func (e *Engine) OpenChoices() bool {
	if !e.editing() {
		return false
	}
	if _, ok := e.Choice(); !ok {
		return false
	}
	e.state = ChoicePopup
	return true
}

// OpenFilePicker enters the file picker
func (e *Engine) OpenFilePicker() bool {
	if !e.editing() {
		return false
	}
	e.state = FilePicker
	return true
}

// OpenFuzzy enters fuzzy pick. It does nothing when the finder is not available.
func (e *Engine) OpenFuzzy(available bool) bool {
	if !e.editing() || !available {
		return false
	}
	e.state = FuzzyPick
	return true
}

// Apply folds a sub-flow result into the active value and returns to Editing
func (e *Engine) Apply(r Result) {
	switch e.state {
	case ChoicePopup, FilePicker, FuzzyPick:
	default:
		return
	}
	e.state = Editing

	switch r.Kind {
	case Replace:
		e.SetValue(r.Value)
	case Append:
		e.SetValue(appendValue(e.buf.String(), r.Value))
	case Unavailable:
		log.Debug("sub-flow unavailable", "slot", e.cmd.Slots[e.index].Name)
	}
}

// appendValue joins with a space unless current is empty or ends in whitespace
func appendValue(current, v string) string {
	if current == "" {
		return v
	}
	if last, _ := utf8.DecodeLastRuneInString(current); unicode.IsSpace(last) {
		return current + v
	}
	return current + " " + v
}
