// Package pathcomp answers filesystem questions relative to an explicit base
// directory: path autocompletion, picker listings and wordlist expansion.
package pathcomp

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ErrNoWordlists is returned when no wordlist pattern matched a file
var ErrNoWordlists = errors.New("no wordlists found")

const sep = string(filepath.Separator)

// Resolver resolves relative paths against Base. The process working
// directory is never used or changed.
type Resolver struct {
	Fs   afero.Fs
	Base string
	Home string // used to expand ~ in wordlist patterns
}

// New returns a resolver over the real filesystem
func New(base string) *Resolver {
	home, _ := os.UserHomeDir()
	return &Resolver{Fs: afero.NewOsFs(), Base: base, Home: home}
}

// Entry is one row of a directory listing
type Entry struct {
	Name string
	Dir  bool
}

func (r *Resolver) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.Base, path)
}

// Complete extends value to the longest common prefix of the entries it
// matches. A unique directory match gets a trailing separator. The typed
// directory part is kept verbatim. Returns false when nothing matches.
func (r *Resolver) Complete(value string) (string, bool) {
	typedDir, prefix := "", value
	if i := strings.LastIndex(value, sep); i >= 0 {
		typedDir, prefix = value[:i+1], value[i+1:]
	}

	lookup := r.Base
	if typedDir != "" {
		lookup = r.abs(typedDir)
	}

	infos, err := afero.ReadDir(r.Fs, lookup)
	if err != nil {
		log.Debug("autocomplete read dir failed", "dir", lookup, "err", err)
		return value, false
	}

	var matches []os.FileInfo
	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, info)
		}
	}
	if len(matches) == 0 {
		return value, false
	}

	common := matches[0].Name()
	for _, m := range matches[1:] {
		common = commonPrefix(common, m.Name())
	}
	if len(matches) == 1 && matches[0].IsDir() {
		common += sep
	}
	return typedDir + common, true
}

// ListDir lists dir with directories first, each group sorted. A ".." entry
// leads the list unless dir is the root. Read errors give an empty listing.
func (r *Resolver) ListDir(dir string) []Entry {
	dir = r.abs(dir)
	infos, err := afero.ReadDir(r.Fs, dir)
	if err != nil {
		log.Debug("picker read dir failed", "dir", dir, "err", err)
		return nil
	}

	var dirs, files []Entry
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, Entry{Name: info.Name(), Dir: true})
		} else {
			files = append(files, Entry{Name: info.Name()})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	entries := make([]Entry, 0, len(dirs)+len(files)+1)
	if filepath.Clean(dir) != sep {
		entries = append(entries, Entry{Name: "..", Dir: true})
	}
	entries = append(entries, dirs...)
	return append(entries, files...)
}

// Rel returns path relative to Base, or path unchanged if it cannot be
func (r *Resolver) Rel(path string) string {
	rel, err := filepath.Rel(r.Base, r.abs(path))
	if err != nil {
		return path
	}
	return rel
}

// Wordlists expands the glob patterns (** allowed, ~ expanded) and returns
// the union of matching files without duplicates.
func (r *Resolver) Wordlists(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		pattern = r.expandHome(pattern)
		base, pat := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = r.abs(filepath.FromSlash(base))

		fsys := afero.NewIOFS(afero.NewBasePathFs(r.Fs, base))
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			log.Debug("wordlist glob failed", "pattern", pattern, "err", err)
			continue
		}
		for _, m := range matches {
			full := filepath.Join(base, filepath.FromSlash(m))
			if !seen[full] {
				seen[full] = true
				files = append(files, full)
			}
		}
	}

	if len(files) == 0 {
		return nil, ErrNoWordlists
	}
	return files, nil
}

func (r *Resolver) expandHome(pattern string) string {
	if r.Home == "" || !strings.HasPrefix(pattern, "~") {
		return pattern
	}
	return filepath.Join(r.Home, pattern[1:])
}

func commonPrefix(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return string(ra[:n])
}
