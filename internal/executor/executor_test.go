package executor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fakeRunner struct {
	executed []string
}

func (f *fakeRunner) RunShell(command string) (string, error) { return "", nil }

func (f *fakeRunner) Execute(command string) error {
	f.executed = append(f.executed, command)
	return nil
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		name    string
		command string
		prefix  string
		want    string
	}{
		{"no prefix", "id", "", "id"},
		{"prefixed", "id", "proxychains -q", "proxychains -q id"},
		{"internal command", "> cd /tmp", "proxychains -q", "> cd /tmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithPrefix(tt.command, tt.prefix))
		})
	}
}

func TestParseOutputMode(t *testing.T) {
	assert.Equal(t, OutputCopy, ParseOutputMode("copy"))
	assert.Equal(t, OutputExec, ParseOutputMode("EXEC"))
	assert.Equal(t, OutputPrint, ParseOutputMode("print"))
	assert.Equal(t, OutputPrint, ParseOutputMode("bogus"))
}

func TestOutputWithMode(t *testing.T) {
	t.Run("print applies hooks", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		e := NewExecutor("/bin/sh").WithOutput(&stdout, &stderr).WithHooks("time ", " | tee out")

		require.NoError(t, e.OutputWithMode("id", OutputPrint))
		assert.Equal(t, "time id | tee out\n", stdout.String())
	})

	t.Run("copy", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		clip := &fakeClipboard{}
		e := NewExecutor("/bin/sh").WithOutput(&stdout, &stderr).WithClipboard(clip)

		require.NoError(t, e.OutputWithMode("whoami", OutputCopy))
		assert.Equal(t, "whoami", clip.text)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Copied")
	})

	t.Run("copy falls back to print", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		clip := &fakeClipboard{err: errors.New("no xclip")}
		e := NewExecutor("/bin/sh").WithOutput(&stdout, &stderr).WithClipboard(clip)

		require.NoError(t, e.OutputWithMode("whoami", OutputCopy))
		assert.Equal(t, "whoami\n", stdout.String())
	})

	t.Run("exec", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		runner := &fakeRunner{}
		e := NewExecutor("/bin/sh").WithOutput(&stdout, &stderr).WithRunner(runner)

		require.NoError(t, e.OutputWithMode("uname -a", OutputExec))
		assert.Equal(t, []string{"uname -a"}, runner.executed)
		assert.Contains(t, stderr.String(), "Executing")
	})
}

func TestOpenCommand(t *testing.T) {
	cmd := OpenCommand("vim", "/cheats/nmap.md")
	assert.Equal(t, []string{"vim", "/cheats/nmap.md"}, cmd.Args)

	viewer := OpenCommand("", "/cheats/nmap.md")
	assert.Equal(t, "/cheats/nmap.md", viewer.Args[len(viewer.Args)-1])
}
