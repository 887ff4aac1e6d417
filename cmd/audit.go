package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var auditLimitFlag int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent boundary decisions",
	Long:  `Print the most recent entries from the audit trail, oldest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrDefault()
		trail := newTrail(cfg)
		if !trail.Enabled() {
			_, _ = fmt.Fprintln(ioOut, "Audit trail is disabled. Enable it with: pf config set audit.enabled true")
			return nil
		}

		records, err := trail.Tail(auditLimitFlag)
		if err != nil {
			return fmt.Errorf("reading audit trail: %w", err)
		}
		if len(records) == 0 {
			_, _ = fmt.Fprintln(ioOut, "No audit entries yet.")
			return nil
		}

		for _, r := range records {
			ran := " "
			if r.Executed {
				ran = "x"
			}
			_, _ = fmt.Fprintf(ioOut, "%s  %-5s  %-11s  [%s]  %s\n", r.Time, r.Decision, r.Risk, ran, r.Command)
			if r.Reason != "" {
				_, _ = fmt.Fprintf(ioOut, "    %s\n", r.Reason)
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimitFlag, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(auditCmd)
}
