// Package search filters the cheat list and keeps the list cursor and page in view.
package search

import (
	"sort"
	"strings"

	"github.com/gubarz/cheater/internal/parser"
)

// Match reports whether cheat satisfies every token of query.
// A token prefixed with ! must not appear; other tokens must appear in the
// title, name, file tags, tag labels or command. A query starting with >
// only matches internal commands.
func Match(cheat *parser.Cheat, query string) bool {
	if strings.HasPrefix(query, ">") && !cheat.IsInternal() {
		return false
	}

	fields := []string{
		strings.ToLower(cheat.Title),
		strings.ToLower(cheat.Name),
		strings.ToLower(cheat.Tags()),
		strings.ToLower(joinLabels(cheat)),
		strings.ToLower(cheat.Command),
	}

	for _, token := range strings.Split(strings.ToLower(query), " ") {
		excluded := false
		if strings.HasPrefix(token, "!") && len(token) > 1 {
			token = token[1:]
			excluded = true
		}

		found := false
		for _, f := range fields {
			if strings.Contains(f, token) {
				found = true
				break
			}
		}
		if found == excluded {
			return false
		}
	}
	return true
}

// Filter returns the cheats matching query in their original order
func Filter(cheats []*parser.Cheat, query string) []*parser.Cheat {
	if query == "" {
		return cheats
	}
	out := make([]*parser.Cheat, 0, len(cheats))
	for _, c := range cheats {
		if Match(c, query) {
			out = append(out, c)
		}
	}
	return out
}

// CommonCommandPrefix returns the longest common prefix of the commands that
// start with query, or query itself when none do.
func CommonCommandPrefix(cheats []*parser.Cheat, query string) string {
	var prefix string
	found := false
	for _, c := range cheats {
		if !strings.HasPrefix(c.Command, query) {
			continue
		}
		if !found {
			prefix = c.Command
			found = true
			continue
		}
		prefix = commonPrefix(prefix, c.Command)
	}
	if !found {
		return query
	}
	return prefix
}

func joinLabels(cheat *parser.Cheat) string {
	keys := make([]string, 0, len(cheat.CommandTags))
	for k := range cheat.CommandTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(cheat.CommandTags[k])
	}
	return sb.String()
}

func commonPrefix(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return string(ra[:n])
}
