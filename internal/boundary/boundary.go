// Package boundary decides whether a shell command may run given a working
// directory and an approved directory its filesystem writes must not escape.
// Check is deterministic and side-effect free apart from the stat calls
// implied by symlink resolution, so it is safe to call concurrently.
//
// The check is advisory: only a curated set of filesystem-mutating commands
// is gated, everything else is allowed through. An OS-level sandbox below
// this layer is assumed as the backstop for anything the tokenizer or the
// command sets don't cover.
package boundary

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Decision is the outcome of a boundary check.
type Decision int

const (
	Allow Decision = iota
	Deny
)

func (d Decision) String() string {
	if d == Deny {
		return "deny"
	}
	return "allow"
}

// Verdict is the result of checking one command. Reason is set only when
// Decision is Deny. Note is advisory metadata on an Allow verdict (currently
// only set when the command could not be tokenized and was let through);
// callers may log it but must not treat it as a third decision state.
type Verdict struct {
	Decision Decision
	Reason   string
	Note     string
}

// Allowed reports whether the command may proceed.
func (v Verdict) Allowed() bool { return v.Decision == Allow }

// readOnlyCommands never modify the filesystem; their arguments are not
// path-checked at all.
var readOnlyCommands = set(
	"cat", "ls", "head", "tail", "less", "more", "which", "whoami", "pwd",
	"echo", "printf", "env", "printenv", "date", "wc", "sort", "uniq",
	"diff", "file", "stat", "du", "df", "tree", "realpath", "dirname",
	"basename",
)

// mutatingCommands modify the filesystem; every non-flag argument is
// resolved and containment-tested against the approved directory.
var mutatingCommands = set(
	"mkdir", "touch", "cp", "mv", "rm", "rmdir", "ln", "install", "tee",
)

// findMutatingActions are the find(1) expressions that turn a pure query
// into a filesystem-mutating command.
var findMutatingActions = set("-delete", "-exec", "-execdir", "-ok", "-okdir")

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Check inspects a raw shell command and decides whether it may run.
// workingDir anchors relative arguments; approvedDir is the containment
// root. Both should be absolute paths.
//
// Unparseable commands fail open (the OS sandbox catches genuinely
// malformed input), while unresolvable paths fail closed — an argument
// that cannot be canonicalized is itself suspicious. The asymmetry is
// deliberate; see Verdict.Note for how fail-open surfaces to callers.
func Check(command, workingDir, approvedDir string) Verdict {
	tokens, err := shlex.Split(command)
	if err != nil {
		return Verdict{
			Decision: Allow,
			Note:     fmt.Sprintf("command could not be tokenized (%v); allowed without path checks", err),
		}
	}
	if len(tokens) == 0 {
		return Verdict{Decision: Allow}
	}

	base := filepath.Base(tokens[0])

	if _, ok := readOnlyCommands[base]; ok {
		return Verdict{Decision: Allow}
	}

	// find is only dangerous when it carries a mutating action.
	if base == "find" {
		if !hasMutatingAction(tokens[1:]) {
			return Verdict{Decision: Allow}
		}
	} else if _, ok := mutatingCommands[base]; !ok {
		return Verdict{Decision: Allow}
	}

	root, err := canonicalRoot(approvedDir)
	if err != nil {
		return Verdict{
			Decision: Deny,
			Reason:   fmt.Sprintf("approved directory '%s' could not be resolved: %v", approvedDir, err),
		}
	}

	for _, tok := range tokens[1:] {
		// Flags are never paths.
		if strings.HasPrefix(tok, "-") {
			continue
		}

		// Anchor relative arguments on the working directory so traversal
		// like ../../evil resolves to its true target instead of being
		// judged lexically.
		target := tok
		if !filepath.IsAbs(target) {
			target = filepath.Join(workingDir, target)
		}

		resolved, err := resolveLenient(target)
		if err != nil {
			return Verdict{
				Decision: Deny,
				Reason: fmt.Sprintf("Path resolution failure: '%s' targets '%s' which could not be resolved under approved directory '%s': %v",
					base, tok, root, err),
			}
		}

		if !contains(root, resolved) {
			return Verdict{
				Decision: Deny,
				Reason: fmt.Sprintf("Directory boundary violation: '%s' targets '%s' which is outside approved directory '%s'",
					base, tok, root),
			}
		}
	}

	return Verdict{Decision: Allow}
}

func hasMutatingAction(args []string) bool {
	for _, a := range args {
		if _, ok := findMutatingActions[a]; ok {
			return true
		}
	}
	return false
}
