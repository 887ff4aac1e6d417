package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// execPF runs the CLI with the given args, capturing stdout. Flags are
// reset first because cobra flag values persist across Execute calls.
func execPF(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dirFlag, cwdFlag, verboseFlag, yesFlag = "", "", false, false

	var out bytes.Buffer
	origOut := ioOut
	ioOut = &out
	t.Cleanup(func() { ioOut = origOut })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func withInput(t *testing.T, input string) {
	t.Helper()
	origIn := ioIn
	ioIn = strings.NewReader(input)
	t.Cleanup(func() { ioIn = origIn })
}

type capturedRun struct {
	command string
	dir     string
}

func withFakeRunCommand(t *testing.T, exitCode int) *[]capturedRun {
	t.Helper()
	var runs []capturedRun
	orig := runCommand
	runCommand = func(command, dir string) (int, error) {
		runs = append(runs, capturedRun{command: command, dir: dir})
		return exitCode, nil
	}
	t.Cleanup(func() { runCommand = orig })
	return &runs
}

// newRoot gives a canonical temp dir so symlinked temp locations (macOS
// /var -> /private/var) don't break containment comparisons.
func newRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestCheckAllowed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)

	out, err := execPF(t, "--dir", root, "--cwd", root, "--", "rm", "-rf", "./build")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Allowed:") {
		t.Errorf("output = %q, want allowed verdict", out)
	}
	if !strings.Contains(out, "destructive") {
		t.Errorf("output = %q, want destructive risk noted", out)
	}
}

func TestCheckDenied(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)

	out, err := execPF(t, "--dir", root, "--cwd", root, "--", "rm", "-rf", "../outside")
	if !errors.Is(err, errDenied) {
		t.Fatalf("Execute = %v, want errDenied", err)
	}
	if !strings.Contains(out, "Directory boundary violation") {
		t.Errorf("output = %q, want boundary violation reason", out)
	}
}

func TestCheckReadOnlyAllowed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)

	out, err := execPF(t, "--dir", root, "--cwd", root, "--", "cat", "/etc/hosts")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Allowed:") {
		t.Errorf("output = %q, want allowed verdict", out)
	}
}

func TestCheckNoApprovedDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := execPF(t, "--", "rm", "-rf", "./build")
	if err == nil || !strings.Contains(err.Error(), "no approved directory") {
		t.Errorf("Execute = %v, want missing-directory error", err)
	}
}

func TestRunExecutesAllowed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)
	runs := withFakeRunCommand(t, 0)

	_, err := execPF(t, "run", "--dir", root, "--cwd", root, "--", "mkdir", "sub")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(*runs) != 1 || (*runs)[0].command != "mkdir sub" || (*runs)[0].dir != root {
		t.Errorf("runs = %+v, want one mkdir in %q", *runs, root)
	}
}

func TestRunDeniedBlocked(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)
	runs := withFakeRunCommand(t, 0)

	out, err := execPF(t, "run", "--dir", root, "--cwd", root, "--", "rm", "-rf", "../outside")
	if !errors.Is(err, errDenied) {
		t.Fatalf("Execute = %v, want errDenied", err)
	}
	if len(*runs) != 0 {
		t.Errorf("denied command was executed: %+v", *runs)
	}
	if !strings.Contains(out, "Denied:") {
		t.Errorf("output = %q, want denial", out)
	}
}

func TestRunDestructiveDeclined(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)
	runs := withFakeRunCommand(t, 0)
	withInput(t, "n\n")

	out, err := execPF(t, "run", "--dir", root, "--cwd", root, "--", "rm", "stale.txt")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(*runs) != 0 {
		t.Errorf("declined destructive command was executed: %+v", *runs)
	}
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("output = %q, want cancellation", out)
	}
}

func TestRunYesSkipsConfirmation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)
	runs := withFakeRunCommand(t, 0)

	_, err := execPF(t, "run", "--yes", "--dir", root, "--cwd", root, "--", "rm", "stale.txt")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(*runs) != 1 {
		t.Errorf("--yes should run without prompting, runs = %+v", *runs)
	}
}

func TestRunReportsNonZeroExit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRoot(t)
	withFakeRunCommand(t, 3)

	out, err := execPF(t, "run", "--dir", root, "--cwd", root, "--", "mkdir", "sub")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "(exit 3)") {
		t.Errorf("output = %q, want exit code", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execPF(t, "version")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "pathfence dev") {
		t.Errorf("output = %q, want version line", out)
	}
}
