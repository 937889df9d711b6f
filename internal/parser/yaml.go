package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlSheet struct {
	Title     string            `yaml:"title"`
	Tags      []string          `yaml:"tags"`
	Variables map[string]string `yaml:"variables"`
	Cheats    []yamlCheat       `yaml:"cheats"`
}

type yamlCheat struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Command     string            `yaml:"command"`
	Tags        map[string]string `yaml:"tags"`
	Variables   map[string]string `yaml:"variables"`
}

// parseYAML extracts cheats from a YAML cheatsheet. Entry variables override file variables.
func parseYAML(path string, data []byte) ([]*Cheat, error) {
	var sheet yamlSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cheats := make([]*Cheat, 0, len(sheet.Cheats))
	for _, entry := range sheet.Cheats {
		command := strings.TrimSpace(entry.Command)
		if command == "" {
			continue
		}

		variables := copyMap(sheet.Variables)
		for k, v := range entry.Variables {
			variables[k] = v
		}

		cheats = append(cheats, &Cheat{
			Filename:    path,
			Title:       sheet.Title,
			Name:        entry.Name,
			Description: strings.TrimSpace(entry.Description),
			Command:     command,
			CommandTags: copyMap(entry.Tags),
			FileTags:    sheet.Tags,
			Variables:   variables,
		})
	}
	return cheats, nil
}
