package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pathfence/pathfence/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pathfence configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if errors.Is(err, config.ErrNotFound) {
			_, _ = fmt.Fprintln(ioOut, "No config file found. Run 'pf setup' to create one.")
			return nil
		}
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(ioOut, "Config file: %s\n\n", config.Path())
		_, _ = fmt.Fprintf(ioOut, "approved_directory: %s\n", valueOr(cfg.ApprovedDirectory, "(not set)"))
		_, _ = fmt.Fprintf(ioOut, "on_denial:          %s\n", cfg.OnDenial)
		_, _ = fmt.Fprintf(ioOut, "audit.enabled:      %v\n", cfg.Audit.Enabled)
		_, _ = fmt.Fprintf(ioOut, "audit.path:         %s\n", valueOr(cfg.Audit.Path, config.DefaultAuditPath()))
		_, _ = fmt.Fprintf(ioOut, "provider:           %s\n", cfg.Provider)
		_, _ = fmt.Fprintf(ioOut, "model:              %s\n", cfg.Model)
		_, _ = fmt.Fprintf(ioOut, "ollama.host:        %s\n", cfg.Ollama.Host)
		_, _ = fmt.Fprintf(ioOut, "openai.host:        %s\n", cfg.OpenAI.Host)
		if cfg.AFM.Command != "" {
			_, _ = fmt.Fprintf(ioOut, "afm.command:        %s\n", cfg.AFM.Command)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys:
  approved_directory, on_denial, audit.enabled, audit.path,
  provider, model, ollama.host, openai.host, afm.command`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if errors.Is(err, config.ErrNotFound) {
			cfg = config.Default()
		} else if err != nil {
			return err
		}

		key, value := args[0], args[1]
		if err := applyConfigKey(cfg, key, value); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(ioOut, "Set %s = %s\n", key, value)
		return nil
	},
}

func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "approved_directory":
		cfg.ApprovedDirectory = value
	case "on_denial":
		cfg.OnDenial = value
	case "audit.enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("audit.enabled must be true or false, got %q", value)
		}
		cfg.Audit.Enabled = enabled
	case "audit.path":
		cfg.Audit.Path = value
	case "provider":
		cfg.Provider = value
		applyProviderDefaults(cfg)
	case "model":
		cfg.Model = value
	case "ollama.host":
		cfg.Ollama.Host = value
	case "openai.host":
		cfg.OpenAI.Host = value
	case "afm.command":
		cfg.AFM.Command = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// applyProviderDefaults fills in host defaults when switching providers so
// a bare `pf config set provider openai` leaves a working config.
func applyProviderDefaults(cfg *config.Config) {
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = config.DefaultOllamaHost
	}
	if cfg.OpenAI.Host == "" {
		cfg.OpenAI.Host = config.DefaultOpenAIHost
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
