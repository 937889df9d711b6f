package command

import (
	"fmt"
	"strings"
)

// BuildPolicy decides how empty slot values are treated
type BuildPolicy int

const (
	// Permissive omits empty values and always succeeds
	Permissive BuildPolicy = iota
	// Strict fails when any slot value is empty
	Strict
)

func (p BuildPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "permissive"
}

// ParseBuildPolicy maps a config value to a BuildPolicy
func ParseBuildPolicy(s string) (BuildPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("unknown build policy %q", s)
	}
}

// Build interleaves the template pieces with slot values. It never
// modifies the command, so repeated calls return the same result.
func (c *Command) Build(policy BuildPolicy) (string, bool) {
	parts, occurrences := c.Parts()

	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(part)
		if i >= len(occurrences) {
			break
		}
		value := c.Slots[occurrences[i]].Value
		if value == "" && policy == Strict {
			return "", false
		}
		sb.WriteString(value)
	}
	return sb.String(), true
}

// Missing returns the names of slots without a value
func (c *Command) Missing() []string {
	var names []string
	for _, s := range c.Slots {
		if s.Value == "" {
			names = append(names, s.Name)
		}
	}
	return names
}
