package cmd

import (
	"fmt"

	"github.com/pathfence/pathfence/internal/config"
	"github.com/pathfence/pathfence/internal/shellenv"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current environment and boundary settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrDefault()

		// Unlike check/run, status is useful even before an approved
		// directory is configured.
		approvedDir := dirFlag
		if approvedDir == "" {
			approvedDir = cfg.ApprovedDirectory
		}

		snap := shellenv.Gather(approvedDir)
		_, _ = fmt.Fprint(ioOut, snap.Format())

		if approvedDir == "" {
			_, _ = fmt.Fprintln(ioOut, "Approved directory: (not set — pass --dir or run 'pf setup')")
		}

		_, _ = fmt.Fprintf(ioOut, "Denial policy: %s\n", cfg.OnDenial)
		if cfg.Audit.Enabled {
			_, _ = fmt.Fprintf(ioOut, "Audit trail: %s\n", valueOr(cfg.Audit.Path, config.DefaultAuditPath()))
		} else {
			_, _ = fmt.Fprintln(ioOut, "Audit trail: disabled")
		}
		_, _ = fmt.Fprintf(ioOut, "Advisor: %s (%s)\n", cfg.Provider, cfg.Model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
