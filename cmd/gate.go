package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pathfence/pathfence/internal/audit"
	"github.com/pathfence/pathfence/internal/boundary"
	"github.com/pathfence/pathfence/internal/config"
	"github.com/pathfence/pathfence/internal/safety"
)

// loadConfigOrDefault falls back to defaults so `pf --dir X` works without
// a config file.
func loadConfigOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.Default()
	}
	return cfg
}

// resolveDirs returns the absolute working and approved directories from
// flags and config. The approved directory must come from somewhere; the
// working directory defaults to the process cwd.
func resolveDirs(cfg *config.Config) (workDir, approvedDir string, err error) {
	approvedDir = dirFlag
	if approvedDir == "" {
		approvedDir = cfg.ApprovedDirectory
	}
	if approvedDir == "" {
		return "", "", fmt.Errorf("no approved directory configured: pass --dir or run 'pf setup'")
	}
	approvedDir, err = filepath.Abs(approvedDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving approved directory: %w", err)
	}

	workDir = cwdFlag
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("determining working directory: %w", err)
		}
	}
	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving working directory: %w", err)
	}

	return workDir, approvedDir, nil
}

func newTrail(cfg *config.Config) *audit.Trail {
	if !cfg.Audit.Enabled {
		return audit.New("", nil)
	}
	path := cfg.Audit.Path
	if path == "" {
		path = config.DefaultAuditPath()
	}
	return audit.New(path, slog.Default())
}

func newRecord(command, workDir, approvedDir string, verdict boundary.Verdict, risk safety.Result) audit.Record {
	return audit.Record{
		Command:     command,
		WorkingDir:  workDir,
		ApprovedDir: approvedDir,
		Decision:    verdict.Decision.String(),
		Reason:      verdict.Reason,
		Note:        verdict.Note,
		Risk:        risk.Risk.String(),
		RiskRule:    risk.Rule,
	}
}
