// Package config manages the pathfence configuration file at
// ~/.pathfence/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config file not found")

// Denial policy values for Config.OnDenial.
const (
	DenialBlock = "block"
	DenialWarn  = "warn"
)

// Defaults applied by Default and by setup.
const (
	DefaultProvider   = "ollama"
	DefaultModel      = "llama3.2:latest"
	DefaultOllamaHost = "http://localhost:11434"
	DefaultOpenAIHost = "https://api.openai.com/v1"
)

type Config struct {
	// ApprovedDirectory is the default containment root for boundary
	// checks. Flags override it per invocation.
	ApprovedDirectory string `yaml:"approved_directory"`

	// OnDenial controls what `pf run` and `pf shell` do with a denied
	// command: "block" refuses to run it, "warn" prints the reason and
	// runs it anyway (relying on the OS sandbox beneath).
	OnDenial string `yaml:"on_denial"`

	Audit Audit `yaml:"audit"`

	// LLM advisor settings for `pf explain`.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Ollama   Ollama `yaml:"ollama"`
	OpenAI   OpenAI `yaml:"openai"`
	AFM      AFM    `yaml:"afm"`
}

type Audit struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Ollama struct {
	Host string `yaml:"host"`
}

type OpenAI struct {
	Host string `yaml:"host"`
}

type AFM struct {
	Command string `yaml:"command"`
}

// Dir returns the config directory path (~/.pathfence).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pathfence")
}

// Path returns the config file path (~/.pathfence/config.yaml).
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultAuditPath returns the default audit log path (~/.pathfence/audit.jsonl).
func DefaultAuditPath() string {
	return filepath.Join(Dir(), "audit.jsonl")
}

// Exists checks if the config file exists.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads and parses the config file. Returns ErrNotFound if it doesn't exist.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return saveTo(cfg, Path())
}

func saveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks invariants that Save and config-set must uphold.
func (c *Config) Validate() error {
	if c.ApprovedDirectory != "" && !filepath.IsAbs(c.ApprovedDirectory) {
		return fmt.Errorf("approved_directory must be an absolute path, got %q", c.ApprovedDirectory)
	}
	switch c.OnDenial {
	case DenialBlock, DenialWarn:
	default:
		return fmt.Errorf("on_denial must be %q or %q, got %q", DenialBlock, DenialWarn, c.OnDenial)
	}
	return nil
}

// Default returns a config with sensible defaults. The approved directory
// is intentionally left empty — setup or a flag must provide it.
func Default() *Config {
	return &Config{
		OnDenial: DenialBlock,
		Audit: Audit{
			Enabled: true,
			Path:    DefaultAuditPath(),
		},
		Provider: DefaultProvider,
		Model:    DefaultModel,
		Ollama:   Ollama{Host: DefaultOllamaHost},
		OpenAI:   OpenAI{Host: DefaultOpenAIHost},
	}
}
