package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pathfence/pathfence/internal/prompt"
	"github.com/pathfence/pathfence/internal/provider"
	"github.com/pathfence/pathfence/internal/shellenv"
	"github.com/spf13/cobra"
)

const explainTimeout = 60 * time.Second

var explainCmd = &cobra.Command{
	Use:   "explain [command...]",
	Short: "Explain a boundary verdict using the configured LLM advisor",
	Long: `Check the command, then ask the configured LLM to explain the verdict
in plain language. For denied commands the advisor suggests in-bounds
alternatives; each suggestion is itself boundary-checked before display.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	workDir, approvedDir, err := resolveDirs(cfg)
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	verdict := checkBoundary(command, workDir, approvedDir)

	p, err := newAdvisor(provider.BuildConfig{
		Name:         cfg.Provider,
		Model:        cfg.Model,
		OllamaHost:   cfg.Ollama.Host,
		OpenAIHost:   cfg.OpenAI.Host,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		AFMCommand:   cfg.AFM.Command,
	})
	if err != nil {
		return fmt.Errorf("building advisor: %w", err)
	}

	_, _ = fmt.Fprintf(ioOut, "Verdict: %s", verdict.Decision)
	if verdict.Reason != "" {
		_, _ = fmt.Fprintf(ioOut, " (%s)", verdict.Reason)
	}
	_, _ = fmt.Fprintln(ioOut)

	env := shellenv.Gather(approvedDir)

	ctx, cancel := context.WithTimeout(cmd.Context(), explainTimeout)
	defer cancel()

	advice, err := p.Advise(ctx, provider.Exchange{
		System: prompt.ExplainSystemPrompt(env.Format()),
		User:   prompt.ExplainUserPrompt(command, verdict.Decision.String(), verdict.Reason),
	})
	if err != nil {
		return fmt.Errorf("advisor (%s): %w", p.Name(), err)
	}

	parsed := prompt.ParseResponse(advice.Text)
	_, _ = fmt.Fprintf(ioOut, "\n%s\n", parsed.Text)

	// Suggestions are LLM output: re-check each one before presenting it
	// as an in-bounds alternative.
	for _, s := range parsed.Suggestions {
		sv := checkBoundary(s, workDir, approvedDir)
		marker := "[ok]"
		if !sv.Allowed() {
			marker = "[!!]"
		}
		_, _ = fmt.Fprintf(ioOut, "\n%s suggestion: %s\n", marker, s)
	}

	return nil
}
