package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	openAITimeout        = 60 * time.Second
	openAIErrorBodyLimit = 512
)

// OpenAI advises via the Chat Completions API, or any compatible endpoint.
type OpenAI struct {
	client *http.Client
	host   string
	model  string
	apiKey string
}

// NewOpenAI returns an OpenAI backend for the given host and model.
func NewOpenAI(host, model, apiKey string) (*OpenAI, error) {
	host = strings.TrimSpace(host)
	switch {
	case host == "":
		return nil, fmt.Errorf("openai host cannot be empty")
	case strings.TrimSpace(model) == "":
		return nil, fmt.Errorf("model cannot be empty")
	case strings.TrimSpace(apiKey) == "":
		return nil, fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}
	if _, err := url.ParseRequestURI(host); err != nil {
		return nil, fmt.Errorf("parsing openai host URL: %w", err)
	}

	return &OpenAI{
		client: &http.Client{Timeout: openAITimeout},
		host:   strings.TrimRight(host, "/"),
		model:  model,
		apiKey: apiKey,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Available reports whether the endpoint is reachable and lists the
// configured model.
func (o *OpenAI) Available(ctx context.Context) error {
	resp, err := o.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return fmt.Errorf("checking openai availability: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("openai availability check failed: %s", readErrorBody(resp.Body))
	}

	var decoded struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decoding openai models response: %w", err)
	}
	for _, m := range decoded.Data {
		if m.ID == o.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not found in OpenAI models list", o.model)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAI) Advise(ctx context.Context, ex Exchange) (Advice, error) {
	body, err := json.Marshal(struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{
		Model: modelOrDefault(ex.Model, o.model),
		Messages: []chatMessage{
			{Role: "system", Content: ex.System},
			{Role: "user", Content: ex.User},
		},
	})
	if err != nil {
		return Advice{}, fmt.Errorf("encoding openai chat request: %w", err)
	}

	resp, err := o.do(ctx, http.MethodPost, "/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Advice{}, fmt.Errorf("openai chat: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return Advice{}, fmt.Errorf("openai chat failed: %s", readErrorBody(resp.Body))
	}

	var decoded struct {
		Choices []struct {
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Advice{}, fmt.Errorf("decoding openai chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Advice{}, fmt.Errorf("empty response from model")
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return Advice{}, fmt.Errorf("empty response from model")
	}

	tokens := TokenCount{
		Input:  decoded.Usage.PromptTokens,
		Output: decoded.Usage.CompletionTokens,
		Total:  decoded.Usage.TotalTokens,
	}
	if tokens.Total == 0 {
		tokens.Total = tokens.Input + tokens.Output
	}

	return Advice{
		Text:         text,
		FinishReason: decoded.Choices[0].FinishReason,
		Tokens:       tokens,
	}, nil
}

func (o *OpenAI) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, o.host+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return o.client.Do(req)
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, openAIErrorBodyLimit))
	if text := strings.TrimSpace(string(b)); text != "" {
		return text
	}
	return "unknown error"
}
