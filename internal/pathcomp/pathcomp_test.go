package pathcomp

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := []string{
		"/work/project/main.go",
		"/work/project/main_test.go",
		"/work/project/docs/readme.txt",
		"/work/project/.hidden",
		"/work/notes.txt",
		"/home/u/wordlists/small.txt",
		"/usr/share/wordlists/rockyou.txt",
		"/usr/share/wordlists/dirb/common.txt",
		"/usr/share/wordlists/dirb/README",
	}
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/work/project/empty", 0o755))
	return &Resolver{Fs: fs, Base: "/work/project", Home: "/home/u"}
}

func TestComplete(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{"common prefix", "ma", "main", true},
		{"unique file", "main_", "main_test.go", true},
		{"unique dir gets separator", "do", "docs/", true},
		{"inside typed dir", "docs/r", "docs/readme.txt", true},
		{"parent dir kept verbatim", "../no", "../notes.txt", true},
		{"absolute", "/work/n", "/work/notes.txt", true},
		{"hidden skipped", "", "", true},
		{"hidden when asked", ".h", ".hidden", true},
		{"no match", "zzz", "zzz", false},
		{"missing dir", "nope/x", "nope/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Complete(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListDir(t *testing.T) {
	r := newResolver(t)

	entries := r.ListDir(".")
	assert.Equal(t, []Entry{
		{Name: "..", Dir: true},
		{Name: "docs", Dir: true},
		{Name: "empty", Dir: true},
		{Name: ".hidden"},
		{Name: "main.go"},
		{Name: "main_test.go"},
	}, entries)

	root := r.ListDir("/")
	require.NotEmpty(t, root)
	assert.NotEqual(t, "..", root[0].Name)

	assert.Empty(t, r.ListDir("/does/not/exist"))
}

func TestRel(t *testing.T) {
	r := newResolver(t)
	assert.Equal(t, "docs/readme.txt", r.Rel("/work/project/docs/readme.txt"))
	assert.Equal(t, "../notes.txt", r.Rel("/work/notes.txt"))
}

func TestWordlists(t *testing.T) {
	r := newResolver(t)

	files, err := r.Wordlists([]string{
		"/usr/share/wordlists/**/*.txt",
		"/usr/share/wordlists/*.txt",
		"~/wordlists/**/*.txt",
		"/missing/**/*.txt",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/usr/share/wordlists/rockyou.txt",
		"/usr/share/wordlists/dirb/common.txt",
		"/home/u/wordlists/small.txt",
	}, files)

	_, err = r.Wordlists([]string{"/missing/*.txt"})
	assert.True(t, errors.Is(err, ErrNoWordlists))
}
