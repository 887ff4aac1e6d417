package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const ollamaTimeout = 60 * time.Second

// Ollama advises via a local Ollama instance.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama returns an Ollama backend for the given host and model.
func NewOllama(host, model string) (*Ollama, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host URL: %w", err)
	}
	return &Ollama{
		client: api.NewClient(base, &http.Client{Timeout: ollamaTimeout}),
		model:  model,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Available reports whether Ollama is reachable and serves the configured model.
func (o *Ollama) Available(ctx context.Context) error {
	list, err := o.client.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach Ollama: %w", err)
	}
	for _, m := range list.Models {
		if m.Name == o.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not found in Ollama", o.model)
}

func (o *Ollama) Advise(ctx context.Context, ex Exchange) (Advice, error) {
	stream := false
	req := &api.ChatRequest{
		Model: modelOrDefault(ex.Model, o.model),
		Messages: []api.Message{
			{Role: "system", Content: ex.System},
			{Role: "user", Content: ex.User},
		},
		Stream: &stream,
	}

	var last api.ChatResponse
	if err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	}); err != nil {
		return Advice{}, fmt.Errorf("ollama chat: %w", err)
	}

	text := strings.TrimSpace(last.Message.Content)
	if text == "" {
		return Advice{}, fmt.Errorf("empty response from model")
	}

	return Advice{
		Text:         text,
		FinishReason: last.DoneReason,
		Tokens: TokenCount{
			Input:  last.PromptEvalCount,
			Output: last.EvalCount,
			Total:  last.PromptEvalCount + last.EvalCount,
		},
	}, nil
}
