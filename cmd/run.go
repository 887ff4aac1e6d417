package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pathfence/pathfence/internal/config"
	"github.com/pathfence/pathfence/internal/executor"
	"github.com/pathfence/pathfence/internal/safety"
	"github.com/spf13/cobra"
)

var yesFlag bool

var runCmd = &cobra.Command{
	Use:   "run [command...]",
	Short: "Check a command and execute it if it passes",
	Long: `Check the command against the directory boundary, then execute it in
the working directory. Destructive commands prompt for confirmation;
denied commands are blocked unless on_denial is set to "warn".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExecute,
}

func init() {
	runCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompts")
	rootCmd.AddCommand(runCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	workDir, approvedDir, err := resolveDirs(cfg)
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	verdict := checkBoundary(command, workDir, approvedDir)
	risk := safety.Classify(command)

	trail := newTrail(cfg)
	rec := newRecord(command, workDir, approvedDir, verdict, risk)

	if verdict.Note != "" {
		slog.Warn("boundary check bypassed", "command", command, "note", verdict.Note)
		_, _ = fmt.Fprintf(ioOut, "Note: %s\n", verdict.Note)
	}

	if !verdict.Allowed() {
		_, _ = fmt.Fprintf(ioOut, "Denied: %s\n", verdict.Reason)
		if cfg.OnDenial != config.DenialWarn {
			trail.Append(rec)
			return errDenied
		}
		_, _ = fmt.Fprintln(ioOut, "Policy is 'warn': the command may still be run.")
	}

	needsConfirm := !verdict.Allowed() || risk.Risk == safety.Destructive
	if needsConfirm && !yesFlag {
		if risk.Risk == safety.Destructive {
			_, _ = fmt.Fprintf(ioOut, "This command looks destructive (%s).\n", risk.Rule)
		}
		if !executor.Confirm("Run anyway?", false, ioIn, ioOut) {
			_, _ = fmt.Fprintln(ioOut, "Cancelled.")
			trail.Append(rec)
			return nil
		}
	}

	exitCode, err := runCommand(command, workDir)
	if err != nil {
		trail.Append(rec)
		return fmt.Errorf("running command: %w", err)
	}

	rec.Executed = true
	rec.ExitCode = exitCode
	trail.Append(rec)

	if exitCode != 0 {
		_, _ = fmt.Fprintf(ioOut, "(exit %d)\n", exitCode)
	}
	return nil
}
