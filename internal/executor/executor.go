// Package executor handles user confirmation and shell command execution.
// Commands always run in an explicit working directory — the same one the
// boundary check resolved relative arguments against, so the verdict and
// the execution agree on what "relative" means.
package executor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pathfence/pathfence/internal/platform"
)

// MaxOutputBytes is the maximum captured output size before truncation.
const MaxOutputBytes = 8192

// Confirm prompts the user for yes/no confirmation.
// defaultYes controls what happens when the user presses Enter without input.
// in and out are injectable for testing.
func Confirm(prompt string, defaultYes bool, in io.Reader, out io.Writer) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	_, _ = fmt.Fprintf(out, "%s %s: ", prompt, hint)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	input := strings.TrimSpace(strings.ToLower(scanner.Text()))

	switch input {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Run executes a shell command in dir, inheriting stdin/stdout/stderr.
// The exit code is returned as data; err is reserved for failures to
// start the process at all.
func Run(command, dir string) (exitCode int, err error) {
	shell := platform.Shell()
	cmd := exec.Command(shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if runErr := cmd.Run(); runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("executing command: %w", runErr)
	}
	return 0, nil
}

// RunCapture executes a command in dir, showing output in real time while
// also capturing it for the audit trail. Output is truncated at
// MaxOutputBytes. Non-zero exit codes are returned as data, not as Go errors.
func RunCapture(command, dir string) (output string, exitCode int, err error) {
	shell := platform.Shell()
	cmd := exec.Command(shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin

	var buf bytes.Buffer
	cmd.Stdout = io.MultiWriter(os.Stdout, &buf)
	cmd.Stderr = io.MultiWriter(os.Stderr, &buf)

	runErr := cmd.Run()

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return "", 0, fmt.Errorf("executing command: %w", runErr)
		}
	}

	out := buf.String()
	if len(out) > MaxOutputBytes {
		out = out[:MaxOutputBytes] + "\n[output truncated]"
	}
	return out, exitCode, nil
}
