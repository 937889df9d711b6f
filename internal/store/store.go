// Package store persists user variables (global options, the command prefix)
// as a flat JSON object.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Store is the key/value variable file loaded in memory
type Store struct {
	fs   afero.Fs
	path string
	vars map[string]string
}

// Open loads path from fs. A missing file yields an empty store.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fs, path: path, vars: make(map[string]string)}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read vars file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.vars); err != nil {
		return nil, fmt.Errorf("parse vars file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Get returns the value of key
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Vars returns a copy of every variable
func (s *Store) Vars() map[string]string {
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// Keys returns the variable names in sorted order
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under key. An empty value removes the key.
func (s *Store) Set(key, value string) {
	if value == "" {
		delete(s.vars, key)
		return
	}
	s.vars[key] = value
}

// Replace sets every entry of vars, removing keys given an empty value
func (s *Store) Replace(vars map[string]string) {
	for k, v := range vars {
		s.Set(k, v)
	}
}

// Save writes the store with 2-space indentation and owner-only permissions
func (s *Store) Save() error {
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		if v != "" {
			out[k] = v
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vars: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create vars dir: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("write vars file: %w", err)
	}
	log.Debug("saved vars", "path", s.path, "count", len(out))
	return nil
}
