package cmd

import (
	"github.com/pathfence/pathfence/internal/repl"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start a guarded interactive shell",
	Long: `Start a REPL where every command is boundary-checked before it runs.
Allowed commands execute in the working directory; denied commands are
blocked (or warned about, per the on_denial policy).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfigOrDefault()
		workDir, approvedDir, err := resolveDirs(cfg)
		if err != nil {
			return err
		}

		return repl.Run(repl.Options{
			WorkingDir:  workDir,
			ApprovedDir: approvedDir,
			OnDenial:    cfg.OnDenial,
			Trail:       newTrail(cfg),
		}, ioIn, ioOut)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
