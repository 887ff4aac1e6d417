// Package shellenv gathers the user's current shell environment for the
// explain prompt and `pf status` output. All gathering is best-effort:
// individual failures produce empty fields, never errors.
package shellenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/pathfence/pathfence/internal/platform"
)

const cmdTimeout = 2 * time.Second

// Snapshot holds the user's current environment state.
type Snapshot struct {
	CWD         string
	ApprovedDir string // containment root for boundary checks
	OS          string // runtime.GOOS
	Shell       string // $SHELL
	Arch        string // runtime.GOARCH
	GitBranch   string // empty if not a git repo
	GitDirty    bool   // has uncommitted changes
}

// execCommandFn is injectable for testing. Default calls exec.Command().Output().
var execCommandFn = defaultExecCommand

func defaultExecCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Gather collects the current environment snapshot. approvedDir is the
// containment root the caller is enforcing; it is carried through verbatim.
func Gather(approvedDir string) Snapshot {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	s := Snapshot{
		ApprovedDir: approvedDir,
		OS:          runtime.GOOS,
		Shell:       platform.Shell(),
		Arch:        runtime.GOARCH,
	}

	s.CWD, _ = os.Getwd()
	s.GitBranch = gatherGitBranch(ctx)
	s.GitDirty = gatherGitDirty(ctx)

	return s
}

// Format renders the snapshot as a string for embedding in the system prompt.
func (s Snapshot) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "OS: %s (%s)\n", s.OS, s.Arch)
	fmt.Fprintf(&b, "Shell: %s\n", s.Shell)

	if s.CWD != "" {
		fmt.Fprintf(&b, "Working directory: %s\n", s.CWD)
	}
	if s.ApprovedDir != "" {
		fmt.Fprintf(&b, "Approved directory (writes must stay inside): %s\n", s.ApprovedDir)
	}

	if s.GitBranch != "" {
		status := "clean"
		if s.GitDirty {
			status = "dirty"
		}
		fmt.Fprintf(&b, "Git branch: %s (%s)\n", s.GitBranch, status)
	}

	return b.String()
}

func gatherGitBranch(ctx context.Context) string {
	out, err := execCommandFn(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func gatherGitDirty(ctx context.Context) bool {
	out, err := execCommandFn(ctx, "git", "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}
