// Package setup handles first-run onboarding: choosing the approved
// directory, audit settings, and optionally the LLM advisor. It only ever
// probes for Ollama — it never installs anything.
package setup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pathfence/pathfence/internal/config"
	"github.com/pathfence/pathfence/internal/platform"
	"github.com/pathfence/pathfence/internal/provider"
)

const probeTimeout = 3 * time.Second

// probeAdvisor is injectable for testing.
var probeAdvisor = defaultProbeAdvisor

func defaultProbeAdvisor(host, model string) error {
	p, err := provider.NewOllama(host, model)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return p.Available(ctx)
}

// Run executes the interactive setup flow.
// in and out are injectable for testability.
func Run(in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintln(out, "PathFence Setup")
	_, _ = fmt.Fprintln(out, "===============")
	_, _ = fmt.Fprintf(out, "Platform: %s\n\n", platform.OS())

	// One scanner for the whole flow: a second reader on in would drop
	// buffered input between prompts.
	scanner := bufio.NewScanner(in)
	cfg := config.Default()

	dir, err := askApprovedDir(scanner, out)
	if err != nil {
		return err
	}
	cfg.ApprovedDirectory = dir

	cfg.Audit.Enabled = confirm(scanner, out, "Record decisions to an audit log?", true)

	if confirm(scanner, out, "Configure the LLM advisor for 'pf explain'? (requires Ollama)", false) {
		if err := probeAdvisor(cfg.Ollama.Host, cfg.Model); err != nil {
			_, _ = fmt.Fprintf(out, "[!!] Advisor probe failed: %v\n", err)
			_, _ = fmt.Fprintln(out, "     Saved anyway; adjust with 'pf config set' once Ollama is running.")
		} else {
			_, _ = fmt.Fprintln(out, "[ok] Ollama is reachable")
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	_, _ = fmt.Fprintf(out, "\nConfig saved to %s\n", config.Path())
	_, _ = fmt.Fprintln(out, "Ready! Try: pf -- rm -rf ./build")
	return nil
}

func askApprovedDir(scanner *bufio.Scanner, out io.Writer) (string, error) {
	def, _ := os.Getwd()

	for {
		_, _ = fmt.Fprintf(out, "Approved directory (writes confined here) [%s]: ", def)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("setup aborted")
		}

		dir := strings.TrimSpace(scanner.Text())
		if dir == "" {
			dir = def
		}
		if dir == "" {
			_, _ = fmt.Fprintln(out, "[!!] A directory is required.")
			continue
		}
		if !filepath.IsAbs(dir) {
			_, _ = fmt.Fprintf(out, "[!!] %q is not an absolute path.\n", dir)
			continue
		}

		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return dir, nil
		case err == nil:
			_, _ = fmt.Fprintf(out, "[!!] %q is not a directory.\n", dir)
		case os.IsNotExist(err):
			if confirm(scanner, out, fmt.Sprintf("%q does not exist. Create it?", dir), true) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					_, _ = fmt.Fprintf(out, "[!!] Could not create it: %v\n", err)
					continue
				}
				return dir, nil
			}
		default:
			_, _ = fmt.Fprintf(out, "[!!] Cannot inspect %q: %v\n", dir, err)
		}
	}
}

func confirm(scanner *bufio.Scanner, out io.Writer, prompt string, defaultYes bool) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	_, _ = fmt.Fprintf(out, "%s %s: ", prompt, hint)

	if !scanner.Scan() {
		return false
	}

	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}
