package provider

import (
	"fmt"
	"strings"
)

// BuildConfig carries the backend settings from the config file plus the
// API key from the environment (never stored on disk).
type BuildConfig struct {
	Name         string
	Model        string
	OllamaHost   string
	OpenAIHost   string
	OpenAIAPIKey string
	AFMCommand   string
}

// builders keeps backend registration in one place; NewFromConfig is the
// only way callers construct a Provider.
var builders = map[string]func(BuildConfig) (Provider, error){
	"ollama": func(c BuildConfig) (Provider, error) { return NewOllama(c.OllamaHost, c.Model) },
	"openai": func(c BuildConfig) (Provider, error) { return NewOpenAI(c.OpenAIHost, c.Model, c.OpenAIAPIKey) },
	"afm":    func(c BuildConfig) (Provider, error) { return NewAFM(c.Model, c.AFMCommand) },
}

// NewFromConfig builds the configured backend.
func NewFromConfig(cfg BuildConfig) (Provider, error) {
	build, ok := builders[strings.ToLower(strings.TrimSpace(cfg.Name))]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q (want ollama, openai, or afm)", cfg.Name)
	}
	return build(cfg)
}

// modelOrDefault picks the per-exchange model override, falling back to
// the backend's configured model.
func modelOrDefault(requested, configured string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	return configured
}
