package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
)

// ============================================================================
// Shell Runner Interface
// ============================================================================

// ShellRunner defines the interface for shell command execution
type ShellRunner interface {
	RunShell(command string) (string, error)
	Execute(command string) error
}

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard on top of atotto/clipboard
type systemClipboard struct{}

// Copy copies text to the system clipboard
func (systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Executor
// ============================================================================

// Executor emits resolved commands: printed, copied or run in a shell
type Executor struct {
	shell     string
	preHook   string
	postHook  string
	clipboard Clipboard
	runner    ShellRunner
	stdout    io.Writer
	stderr    io.Writer
}

// NewExecutor creates a new executor using shell for exec mode
func NewExecutor(shell string) *Executor {
	e := &Executor{
		shell:     shell,
		clipboard: systemClipboard{},
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	e.runner = e
	return e
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Executor) WithClipboard(c Clipboard) *Executor {
	e.clipboard = c
	return e
}

// WithRunner sets a custom shell runner (useful for testing)
func (e *Executor) WithRunner(r ShellRunner) *Executor {
	e.runner = r
	return e
}

// WithOutput redirects printed commands and status lines
func (e *Executor) WithOutput(stdout, stderr io.Writer) *Executor {
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// WithHooks sets text prepended and appended to every emitted command
func (e *Executor) WithHooks(pre, post string) *Executor {
	e.preHook = pre
	e.postHook = post
	return e
}

// Shell returns the configured shell
func (e *Executor) Shell() string {
	return e.shell
}

// ============================================================================
// Command Execution
// ============================================================================

// RunShell executes a shell command and returns stdout
func (e *Executor) RunShell(command string) (string, error) {
	cmd := exec.Command(e.shell, "-c", command)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("shell error: %w: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Execute runs a command interactively with inherited stdin/stdout/stderr
func (e *Executor) Execute(command string) error {
	cmd := exec.Command(e.shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	return cmd.Run()
}

// ============================================================================
// Command Building
// ============================================================================

// WithPrefix prepends prefix to command, except for internal (>) commands
func WithPrefix(command, prefix string) string {
	if prefix == "" || strings.HasPrefix(command, ">") {
		return command
	}
	return prefix + " " + command
}

// ============================================================================
// Output Handling
// ============================================================================

// OutputMode represents how the final command should be handled
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputCopy  OutputMode = "copy"
	OutputExec  OutputMode = "exec"
)

// ParseOutputMode maps a flag or config value to an OutputMode, defaulting to print
func ParseOutputMode(s string) OutputMode {
	switch OutputMode(strings.ToLower(s)) {
	case OutputCopy:
		return OutputCopy
	case OutputExec:
		return OutputExec
	default:
		return OutputPrint
	}
}

// OutputWithMode applies the hooks and handles the command with an explicit mode
func (e *Executor) OutputWithMode(command string, mode OutputMode) error {
	finalCmd := e.preHook + command + e.postHook
	log.Debug("emitting command", "mode", mode, "command", finalCmd)

	switch mode {
	case OutputExec:
		fmt.Fprintf(e.stderr, "\033[1;32m▶ Executing:\033[0m %s\n", finalCmd)
		return e.runner.Execute(finalCmd)
	case OutputCopy:
		if err := e.clipboard.Copy(finalCmd); err != nil {
			log.Warn("clipboard unavailable, printing instead", "err", err)
			fmt.Fprintln(e.stdout, finalCmd)
			return nil
		}
		fmt.Fprintf(e.stderr, "\033[1;33m✓ Copied to clipboard\033[0m\n")
		return nil
	default: // print
		fmt.Fprintln(e.stdout, finalCmd)
		return nil
	}
}

// OpenCommand returns the command opening path in editor, or in the system
// viewer when editor is empty
func OpenCommand(editor, path string) *exec.Cmd {
	if editor != "" {
		return exec.Command(editor, path)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default: // linux, freebsd, etc.
		return exec.Command("xdg-open", path)
	}
}
