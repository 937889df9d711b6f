package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every configurable binding. Actions are scoped by phase, so
// one key may serve different actions in the list and in the argument popup.
type keyMap struct {
	Commit       key.Binding
	Cancel       key.Binding
	Quit         key.Binding
	Next         key.Binding
	Prev         key.Binding
	PageDown     key.Binding
	PageUp       key.Binding
	Autocomplete key.Binding
	FilePicker   key.Binding
	Choices      key.Binding
	Fuzzy        key.Binding
	Globals      key.Binding
	OpenFile     key.Binding
}

var keyHelp = map[string]string{
	"commit":       "accept",
	"cancel":       "back",
	"quit":         "quit",
	"next":         "next",
	"prev":         "previous",
	"page_down":    "page down",
	"page_up":      "page up",
	"autocomplete": "complete",
	"file_picker":  "browse files",
	"choices":      "options",
	"fuzzy":        "wordlists",
	"globals":      "global vars",
	"open_file":    "open file",
}

// newKeyMap builds bindings from an action -> keys map
func newKeyMap(keys map[string][]string) keyMap {
	bind := func(action string) key.Binding {
		bound := make([]string, 0, len(keys[action]))
		for _, k := range keys[action] {
			bound = append(bound, normalizeKey(k))
		}
		help := ""
		if len(bound) > 0 {
			help = bound[0]
		}
		return key.NewBinding(key.WithKeys(bound...), key.WithHelp(help, keyHelp[action]))
	}

	return keyMap{
		Commit:       bind("commit"),
		Cancel:       bind("cancel"),
		Quit:         bind("quit"),
		Next:         bind("next"),
		Prev:         bind("prev"),
		PageDown:     bind("page_down"),
		PageUp:       bind("page_up"),
		Autocomplete: bind("autocomplete"),
		FilePicker:   bind("file_picker"),
		Choices:      bind("choices"),
		Fuzzy:        bind("fuzzy"),
		Globals:      bind("globals"),
		OpenFile:     bind("open_file"),
	}
}

// normalizeKey accepts "Ctrl, G" / "Ctrl+G" / "ctrl+g" and returns the
// bubbletea key name
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, ", ", "+")
	k = strings.ReplaceAll(k, ",", "+")
	k = strings.ReplaceAll(k, " ", "")
	switch k {
	case "return":
		return "enter"
	case "escape":
		return "esc"
	case "pagedown":
		return "pgdown"
	case "pageup":
		return "pgup"
	}
	return k
}

// hint renders "key action" for the footer
func hint(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
