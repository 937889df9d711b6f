package ui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/gubarz/cheater/internal/resolve"
)

// Finder picks one of items interactively
type Finder interface {
	Find(items []string, prompt string) (int, error)
}

// FuzzyFinder is the go-fuzzyfinder backed Finder
type FuzzyFinder struct{}

// Find runs the full-screen fuzzy finder over items
func (FuzzyFinder) Find(items []string, prompt string) (int, error) {
	return fuzzyfinder.Find(items, func(i int) string {
		return items[i]
	}, fuzzyfinder.WithPromptString(prompt))
}

// fuzzyResultMsg carries the wordlist pick back into Update
type fuzzyResultMsg struct {
	result resolve.Result
}

// pickWordlist runs finder. An abort is a dismissed result; a finder that
// cannot run, or nothing to pick from, is an unavailable one.
func pickWordlist(finder Finder, files []string) resolve.Result {
	if len(files) == 0 {
		return resolve.Result{Kind: resolve.Unavailable}
	}
	idx, err := finder.Find(files, "wordlist> ")
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return resolve.Result{Kind: resolve.Dismissed}
	}
	if err != nil {
		log.Debug("fuzzy finder failed", "err", err)
		return resolve.Result{Kind: resolve.Unavailable}
	}
	if idx < 0 || idx >= len(files) {
		return resolve.Result{Kind: resolve.Dismissed}
	}
	return resolve.Result{Kind: resolve.Replace, Value: files[idx]}
}

// finderExec runs the finder while bubbletea has released the terminal.
// go-fuzzyfinder opens the terminal itself, so the streams are unused.
type finderExec struct {
	finder Finder
	files  []string
	result resolve.Result
}

func (f *finderExec) Run() error {
	f.result = pickWordlist(f.finder, f.files)
	return nil
}

func (f *finderExec) SetStdin(io.Reader)  {}
func (f *finderExec) SetStdout(io.Writer) {}
func (f *finderExec) SetStderr(io.Writer) {}

// runFinder suspends the program and reports the pick as a fuzzyResultMsg
func runFinder(finder Finder, files []string) tea.Cmd {
	ex := &finderExec{finder: finder, files: files}
	return tea.Exec(ex, func(err error) tea.Msg {
		if err != nil {
			log.Debug("fuzzy exec failed", "err", err)
			return fuzzyResultMsg{result: resolve.Result{Kind: resolve.Unavailable}}
		}
		return fuzzyResultMsg{result: ex.result}
	})
}
