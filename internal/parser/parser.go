package parser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ErrNoCheats is returned when none of the given paths produced a cheat
var ErrNoCheats = errors.New("no cheats found")

// Cheat represents a single command template entry
type Cheat struct {
	Filename    string            // Source file path
	Title       string            // File title (# heading)
	Name        string            // Entry name (## heading)
	Description string            // Free text between heading and command
	Command     string            // Raw command template with <placeholders>
	CommandTags map[string]string // #key/label tags attached to the entry
	FileTags    []string          // % tags of the file (or its directories)
	Variables   map[string]string // = name: value defaults of the file
}

// Tags returns the file tags as a single searchable string
func (c *Cheat) Tags() string {
	return strings.Join(c.FileTags, ", ")
}

// TagLabels returns the command tag labels joined in key order
func (c *Cheat) TagLabels() string {
	keys := make([]string, 0, len(c.CommandTags))
	for k := range c.CommandTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, c.CommandTags[k])
	}
	return strings.Join(labels, " ")
}

// PrintableCommand returns the command flattened on one line
func (c *Cheat) PrintableCommand() string {
	return strings.Join(strings.Split(c.Command, "\n"), " ; ")
}

// IsInternal reports whether the command is an internal (>) command
func (c *Cheat) IsInternal() bool {
	return strings.HasPrefix(c.Command, ">")
}

// CheatIndex holds all parsed cheats in load order
type CheatIndex struct {
	Cheats []*Cheat
	Files  int
}

// NewCheatIndex creates an empty cheat index
func NewCheatIndex() *CheatIndex {
	return &CheatIndex{
		Cheats: make([]*Cheat, 0),
	}
}

// Options controls which files are considered cheatsheets
type Options struct {
	Formats      []string // extensions without dot
	ExcludeFiles []string // base names to skip
	ExcludeDirs  []string // directory names to skip
}

var (
	headerRegex    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	codeBlockStart = regexp.MustCompile("^```(\\S*)\\s*$")
	codeBlockEnd   = regexp.MustCompile("^```\\s*$")
	blockquoteRe   = regexp.MustCompile(`^>\s?(.*)$`)
	fileTagsRegex  = regexp.MustCompile(`^%\s*(.+)$`)
	cmdTagRegex    = regexp.MustCompile(`^#([^\s/#]+)/(\S+)$`)
	varRegex       = regexp.MustCompile(`^=\s*([^:\s]+)\s*:\s*(.*)$`)
)

// Parser handles cheatsheet file parsing
type Parser struct {
	fs    afero.Fs
	opts  Options
	index *CheatIndex
}

// NewParser creates a new parser reading from fs
func NewParser(fs afero.Fs, opts Options) *Parser {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{"md"}
	}
	return &Parser{
		fs:    fs,
		opts:  opts,
		index: NewCheatIndex(),
	}
}

// ParsePaths parses every directory or file in paths. Missing paths are skipped.
func (p *Parser) ParsePaths(paths []string) (*CheatIndex, error) {
	for _, path := range paths {
		info, err := p.fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debug("cheat path missing", "path", path)
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			if err := p.parseDirectory(path); err != nil {
				return nil, err
			}
		} else if err := p.parseFile(path, ""); err != nil {
			return nil, err
		}
	}

	if len(p.index.Cheats) == 0 {
		return p.index, ErrNoCheats
	}
	return p.index, nil
}

// parseDirectory recursively parses all cheatsheet files
func (p *Parser) parseDirectory(dir string) error {
	return afero.Walk(p.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Debug("walk failed", "path", path, "err", err)
			return nil
		}
		if info.IsDir() {
			if path != dir && contains(p.opts.ExcludeDirs, info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.accepts(info.Name()) {
			return nil
		}
		return p.parseFile(path, dir)
	})
}

// accepts reports whether a file name has a configured format and is not excluded
func (p *Parser) accepts(name string) bool {
	if contains(p.opts.ExcludeFiles, name) {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return contains(p.opts.Formats, ext)
}

func (p *Parser) parseFile(path, root string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" || ext == ".yaml" {
		data, err := afero.ReadFile(p.fs, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		cheats, err := parseYAML(path, data)
		if err != nil {
			log.Warn("skipping malformed cheatsheet", "file", path, "err", err)
			return nil
		}
		p.add(cheats, path, root)
		return nil
	}

	file, err := p.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	p.add(parseMarkdown(path, lines), path, root)
	return nil
}

func (p *Parser) add(cheats []*Cheat, path, root string) {
	p.index.Files++
	for _, cheat := range cheats {
		if len(cheat.FileTags) == 0 {
			cheat.FileTags = extractTags(path, root)
		}
		p.index.Cheats = append(p.index.Cheats, cheat)
	}
}

// parseMarkdown extracts cheats from markdown lines
func parseMarkdown(path string, lines []string) []*Cheat {
	var (
		title       string
		name        string
		fileTags    []string
		cmdTags     map[string]string
		description strings.Builder
		inCodeBlock bool
		codeContent strings.Builder
		cheats      []*Cheat
	)
	variables := make(map[string]string)

	for _, line := range lines {
		if inCodeBlock {
			if codeBlockEnd.MatchString(line) {
				inCodeBlock = false
				content := strings.TrimSpace(codeContent.String())
				if content != "" {
					cheats = append(cheats, &Cheat{
						Filename:    path,
						Title:       title,
						Name:        name,
						Description: strings.TrimSpace(description.String()),
						Command:     content,
						CommandTags: copyMap(cmdTags),
						FileTags:    fileTags,
					})
				}
				continue
			}
			codeContent.WriteString(line + "\n")
			continue
		}

		trimmed := strings.TrimSpace(line)

		if codeBlockStart.MatchString(trimmed) {
			inCodeBlock = true
			codeContent.Reset()
			continue
		}

		if tags, ok := parseCommandTags(trimmed); ok {
			if cmdTags == nil {
				cmdTags = make(map[string]string)
			}
			for k, v := range tags {
				cmdTags[k] = v
			}
			continue
		}

		if matches := headerRegex.FindStringSubmatch(trimmed); matches != nil {
			if len(matches[1]) == 1 {
				title = strings.TrimSpace(matches[2])
			} else {
				name = strings.TrimSpace(matches[2])
			}
			description.Reset()
			cmdTags = nil
			continue
		}

		if matches := fileTagsRegex.FindStringSubmatch(trimmed); matches != nil {
			fileTags = splitTags(matches[1])
			continue
		}

		if matches := varRegex.FindStringSubmatch(trimmed); matches != nil {
			variables[matches[1]] = strings.TrimSpace(matches[2])
			continue
		}

		if matches := blockquoteRe.FindStringSubmatch(trimmed); matches != nil {
			trimmed = matches[1]
		}

		if trimmed == "" {
			continue
		}
		if description.Len() > 0 {
			description.WriteString("\n")
		}
		description.WriteString(trimmed)
	}

	// File variables apply to every entry of the file, wherever they are declared
	for _, cheat := range cheats {
		cheat.Variables = copyMap(variables)
	}
	return cheats
}

// parseCommandTags parses a line made only of #key/label tokens
func parseCommandTags(line string) (map[string]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	tags := make(map[string]string, len(fields))
	for _, field := range fields {
		matches := cmdTagRegex.FindStringSubmatch(field)
		if matches == nil {
			return nil, false
		}
		tags[matches[1]] = matches[2]
	}
	return tags, true
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// extractTags derives tags from the directories between root and the file
func extractTags(path, root string) []string {
	dir := filepath.Dir(path)
	if root != "" {
		if rel, err := filepath.Rel(root, dir); err == nil {
			dir = rel
		}
	} else {
		dir = filepath.Base(dir)
	}

	var tags []string
	for _, part := range strings.Split(dir, string(filepath.Separator)) {
		if part != "" && part != "." && part != ".." {
			tags = append(tags, strings.ToLower(part))
		}
	}
	return tags
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
