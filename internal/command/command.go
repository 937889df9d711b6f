// Package command turns a cheat's raw template into an ordered set of named
// argument slots and rebuilds the final command line from their values.
package command

import (
	"regexp"
	"sort"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/gubarz/cheater/internal/parser"
)

// markerRegex matches a placeholder: no nested angle brackets inside
var markerRegex = regexp.MustCompile(`<([^<>]+)>`)

// Slot is one named argument. Repeated names share a single slot.
type Slot struct {
	Name  string
	Value string
}

// Choice constrains a slot to a fixed option list
type Choice struct {
	Options []string
	Labels  []string // parallel to Options, may be nil
}

// Label returns the display text of option i
func (c Choice) Label(i int) string {
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return c.Options[i]
}

// Command is a parsed cheat ready for argument resolution
type Command struct {
	Template      string // placeholders reduced to <name>
	Description   string
	Slots         []Slot
	Choices       map[int]Choice
	LineCountCmd  int
	LineCountDesc int
}

// Parse builds a Command from cheat. Defaults come from the inline value,
// then globals, then the cheat's own variables. labels is keyed by slot name
// (exact or lower-cased). The cheat is not modified.
func Parse(cheat *parser.Cheat, globals map[string]string, labels map[string][]string) *Command {
	cmd := &Command{
		Description:  describe(cheat),
		Choices:      make(map[int]Choice),
		LineCountCmd: len(strings.Split(cheat.Command, "\n")),
	}
	if cheat.Description != "" {
		cmd.LineCountDesc = len(strings.Split(cheat.Description, "\n"))
	}

	seen := make(map[string]int)
	var template strings.Builder
	last := 0

	for _, m := range markerRegex.FindAllStringSubmatchIndex(cheat.Command, -1) {
		template.WriteString(cheat.Command[last:m[0]])
		last = m[1]

		raw := cheat.Command[m[2]:m[3]]
		name, options, inline := splitMarker(raw)
		if name == "" {
			template.WriteString(cheat.Command[m[0]:m[1]])
			continue
		}
		template.WriteString("<" + name + ">")

		if _, ok := seen[name]; ok {
			continue
		}

		value := ""
		if len(options) > 0 {
			value = options[0]
		}
		if value == "" {
			if v, ok := globals[name]; ok {
				value = v
			} else if v, ok := cheat.Variables[name]; ok {
				value = v
			}
		}

		idx := len(cmd.Slots)
		seen[name] = idx
		cmd.Slots = append(cmd.Slots, Slot{Name: name, Value: value})

		if inline && len(options) > 1 {
			choice := Choice{Options: options}
			if l := lookupLabels(labels, name); len(l) == len(options) {
				choice.Labels = l
			}
			cmd.Choices[idx] = choice
		}
	}
	template.WriteString(cheat.Command[last:])
	cmd.Template = template.String()

	return cmd
}

// splitMarker splits name|opt|opt. Options are trimmed, empties and repeats dropped.
func splitMarker(raw string) (name string, options []string, inline bool) {
	if !strings.Contains(raw, "|") {
		return strings.TrimSpace(raw), nil, false
	}

	segments := strings.Split(raw, "|")
	name = strings.TrimSpace(segments[0])
	seen := make(map[string]bool)
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" || seen[seg] {
			continue
		}
		seen[seg] = true
		options = append(options, seg)
	}
	return name, options, true
}

func lookupLabels(labels map[string][]string, name string) []string {
	if l, ok := labels[name]; ok {
		return l
	}
	return labels[strings.ToLower(name)]
}

// describe prefixes the description with the command tag labels
func describe(cheat *parser.Cheat) string {
	keys := make([]string, 0, len(cheat.CommandTags))
	for k := range cheat.CommandTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString("[" + cheat.CommandTags[k] + "] ")
	}
	if sb.Len() > 0 && cheat.Description != "" {
		sb.WriteString("\n-----\n")
	}
	sb.WriteString(cheat.Description)
	return sb.String()
}

// Index returns the slot index of name, or -1
func (c *Command) Index(name string) int {
	for i, s := range c.Slots {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// SetValue sets the value of slot i, which every occurrence of its name renders
func (c *Command) SetValue(i int, value string) {
	if i >= 0 && i < len(c.Slots) {
		c.Slots[i].Value = value
	}
}

// Choice returns the constraint of slot i, if any
func (c *Command) Choice(i int) (Choice, bool) {
	choice, ok := c.Choices[i]
	return choice, ok
}

// Parts splits the template on every marker of a known slot. It returns
// len(occurrences)+1 literal pieces and the slot index of each occurrence.
func (c *Command) Parts() ([]string, []int) {
	index := make(map[string]int, len(c.Slots))
	for i, s := range c.Slots {
		index[s.Name] = i
	}

	var (
		parts       []string
		occurrences []int
		last        int
	)
	for _, m := range markerRegex.FindAllStringSubmatchIndex(c.Template, -1) {
		i, ok := index[c.Template[m[2]:m[3]]]
		if !ok {
			continue
		}
		parts = append(parts, c.Template[last:m[0]])
		occurrences = append(occurrences, i)
		last = m[1]
	}
	parts = append(parts, c.Template[last:])
	return parts, occurrences
}

// DisplayValue returns the value of slot i, or its <name> marker when empty
func (c *Command) DisplayValue(i int) string {
	if v := c.Slots[i].Value; v != "" {
		return v
	}
	return "<" + c.Slots[i].Name + ">"
}

// WrapDescription word-wraps each description line to width columns.
// Words longer than width are broken. Empty lines are dropped.
func (c *Command) WrapDescription(width int) []string {
	var lines []string
	for _, line := range strings.Split(c.Description, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if width <= 0 {
			lines = append(lines, line)
			continue
		}
		wrapped := wrap.String(wordwrap.String(line, width), width)
		for _, l := range strings.Split(wrapped, "\n") {
			if l = strings.TrimRight(l, " "); l != "" {
				lines = append(lines, l)
			}
		}
	}
	return lines
}
