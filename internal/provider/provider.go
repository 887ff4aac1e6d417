// Package provider implements the LLM backends behind `pf explain`. The
// advisor is strictly optional — nothing in the boundary check or execution
// path depends on a backend being configured.
package provider

import "context"

// Exchange is a single advisor turn: a system prompt carrying the
// environment context and a user prompt carrying the verdict to explain.
// The advisor never holds conversation state.
type Exchange struct {
	System string
	User   string
	Model  string // empty means the backend's configured default
}

// TokenCount is token usage metadata when the backend reports it.
type TokenCount struct {
	Input  int
	Output int
	Total  int
}

// Advice is a normalized backend response.
type Advice struct {
	Text         string // assistant content for display and parsing
	FinishReason string // backend stop reason, when available
	Tokens       TokenCount
}

// Provider answers advisor exchanges against one LLM backend.
type Provider interface {
	// Advise sends the exchange and returns the normalized response.
	Advise(ctx context.Context, ex Exchange) (Advice, error)

	// Name returns the backend name (e.g., "ollama").
	Name() string

	// Available checks whether the backend is ready to use.
	Available(ctx context.Context) error
}
