// Package repl implements the guarded interactive shell for `pf shell`.
// Every entered line is boundary-checked and risk-classified before it
// runs; denied commands are blocked (or warned about, per policy) and
// every decision lands in the audit trail.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pathfence/pathfence/internal/audit"
	"github.com/pathfence/pathfence/internal/boundary"
	"github.com/pathfence/pathfence/internal/config"
	"github.com/pathfence/pathfence/internal/executor"
	"github.com/pathfence/pathfence/internal/safety"
)

// Options bundles one session's gate configuration.
type Options struct {
	WorkingDir  string
	ApprovedDir string
	OnDenial    string // config.DenialBlock or config.DenialWarn
	Trail       *audit.Trail
}

// Package-level function variables for testability.
// Tests override these to avoid real command execution.
var (
	checkBoundary = boundary.Check
	runCapture    = executor.RunCapture
)

// Run starts the guarded shell loop.
func Run(opts Options, in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintf(out, "PathFence shell — writes confined to %s\n", opts.ApprovedDir)
	_, _ = fmt.Fprintln(out, "Type 'exit' or 'quit' to end the session. Ctrl+D also works.")
	_, _ = fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)

	for {
		_, _ = fmt.Fprint(out, "pf> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				_, _ = fmt.Fprintf(out, "\nInput error: %v\n", err)
				return err
			}
			_, _ = fmt.Fprintln(out)
			break // EOF (Ctrl+D)
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			_, _ = fmt.Fprintln(out, "Bye!")
			return nil
		}

		handleCommand(input, opts, scanner, out)
	}

	return nil
}

func handleCommand(command string, opts Options, scanner *bufio.Scanner, out io.Writer) {
	verdict := checkBoundary(command, opts.WorkingDir, opts.ApprovedDir)
	risk := safety.Classify(command)

	rec := audit.Record{
		Command:     command,
		WorkingDir:  opts.WorkingDir,
		ApprovedDir: opts.ApprovedDir,
		Decision:    verdict.Decision.String(),
		Reason:      verdict.Reason,
		Note:        verdict.Note,
		Risk:        risk.Risk.String(),
		RiskRule:    risk.Rule,
	}

	if verdict.Note != "" {
		slog.Warn("boundary check bypassed", "command", command, "note", verdict.Note)
	}

	if !verdict.Allowed() {
		_, _ = fmt.Fprintf(out, "  Denied: %s\n", verdict.Reason)
		if opts.OnDenial != config.DenialWarn {
			opts.Trail.Append(rec)
			return
		}
		_, _ = fmt.Fprintln(out, "  Policy is 'warn': the command may still run.")
	}

	if risk.Risk == safety.Destructive || !verdict.Allowed() {
		if risk.Risk == safety.Destructive {
			_, _ = fmt.Fprintf(out, "  Warning: destructive command (rule %s)\n", risk.Rule)
		}
		if !confirm(scanner, out) {
			_, _ = fmt.Fprintln(out, "  Skipped.")
			opts.Trail.Append(rec)
			return
		}
	}

	_, _ = fmt.Fprintln(out)
	_, exitCode, err := runCapture(command, opts.WorkingDir)
	if err != nil {
		_, _ = fmt.Fprintf(out, "  Execution error: %v\n", err)
		opts.Trail.Append(rec)
		return
	}

	rec.Executed = true
	rec.ExitCode = exitCode
	opts.Trail.Append(rec)

	if exitCode != 0 {
		_, _ = fmt.Fprintf(out, "  (exit %d)\n", exitCode)
	}
}

// confirm shares the session scanner instead of executor.Confirm so no
// buffered input is lost between prompts.
func confirm(scanner *bufio.Scanner, out io.Writer) bool {
	_, _ = fmt.Fprint(out, "  Run anyway? [y/N]: ")
	if !scanner.Scan() {
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes"
}
