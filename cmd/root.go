package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pathfence/pathfence/internal/boundary"
	"github.com/pathfence/pathfence/internal/executor"
	"github.com/pathfence/pathfence/internal/provider"
	"github.com/pathfence/pathfence/internal/safety"
	"github.com/spf13/cobra"
)

var (
	dirFlag     string
	cwdFlag     string
	verboseFlag bool
)

// Package-level function variables for testability.
// Tests override these to avoid real execution/provider calls.
var (
	checkBoundary           = boundary.Check
	runCommand              = executor.Run
	newAdvisor              = provider.NewFromConfig
	ioIn          io.Reader = os.Stdin
	ioOut         io.Writer = os.Stdout
)

// errDenied signals a denial verdict through cobra so main exits non-zero.
// The verdict is already printed by the time it is returned.
var errDenied = errors.New("command denied")

var rootCmd = &cobra.Command{
	Use:   "pf [command...]",
	Short: "Check shell commands against a directory boundary",
	Long: `PathFence (pf) inspects a shell command before execution and decides
whether its filesystem writes stay inside an approved directory.

Examples:
  pf -- rm -rf ./build
  pf run -- mkdir -p dist/assets
  pf shell --dir ~/projects/demo`,
	Args:              cobra.ArbitraryArgs,
	RunE:              runCheck,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "approved directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cwdFlag, "cwd", "", "working directory for resolving relative paths (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errDenied) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// runCheck is the root command: check the given command and report the
// verdict without executing anything.
func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg := loadConfigOrDefault()
	workDir, approvedDir, err := resolveDirs(cfg)
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	verdict := checkBoundary(command, workDir, approvedDir)
	risk := safety.Classify(command)

	trail := newTrail(cfg)
	trail.Append(newRecord(command, workDir, approvedDir, verdict, risk))

	if verdict.Note != "" {
		slog.Warn("boundary check bypassed", "command", command, "note", verdict.Note)
	}

	if !verdict.Allowed() {
		_, _ = fmt.Fprintf(ioOut, "Denied: %s\n", verdict.Reason)
		return errDenied
	}

	_, _ = fmt.Fprintf(ioOut, "Allowed: %s (risk: %s)\n", command, risk.Risk)
	return nil
}
