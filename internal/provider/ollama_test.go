package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaBadHost(t *testing.T) {
	if _, err := NewOllama("://bad", "llama3.2:latest"); err == nil {
		t.Error("want error for unparseable host")
	}
}

func TestOllamaAdvise(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Stream *bool `json:"stream"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model": "llama3.2:latest", "message": {"role": "assistant", "content": "The verdict stands."}, "done": true, "done_reason": "stop", "prompt_eval_count": 30, "eval_count": 8}`))
	}))
	defer srv.Close()

	p, err := NewOllama(srv.URL, "llama3.2:latest")
	if err != nil {
		t.Fatal(err)
	}

	advice, err := p.Advise(context.Background(), Exchange{System: "guard rules", User: "explain"})
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if gotReq.Model != "llama3.2:latest" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Stream == nil || *gotReq.Stream {
		t.Error("stream should be explicitly false")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "explain" {
		t.Errorf("messages = %+v, want system then user", gotReq.Messages)
	}
	if advice.Text != "The verdict stands." {
		t.Errorf("Text = %q", advice.Text)
	}
	if advice.FinishReason != "stop" {
		t.Errorf("FinishReason = %q", advice.FinishReason)
	}
	if advice.Tokens.Total != 38 {
		t.Errorf("Tokens.Total = %d, want 38", advice.Tokens.Total)
	}
}

func TestOllamaAdviseModelOverride(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "ok"}, "done": true}`))
	}))
	defer srv.Close()

	p, err := NewOllama(srv.URL, "llama3.2:latest")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Advise(context.Background(), Exchange{User: "hi", Model: "qwen2.5:7b"}); err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if gotModel != "qwen2.5:7b" {
		t.Errorf("model = %q, want per-exchange override", gotModel)
	}
}

func TestOllamaAdviseEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "   "}, "done": true}`))
	}))
	defer srv.Close()

	p, err := NewOllama(srv.URL, "llama3.2:latest")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Advise(context.Background(), Exchange{User: "hi"}); err == nil {
		t.Error("want error for blank model output")
	}
}

func TestOllamaAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.2:latest"}, {"name": "qwen2.5:7b"}]}`))
	}))
	defer srv.Close()

	p, err := NewOllama(srv.URL, "llama3.2:latest")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Available(context.Background()); err != nil {
		t.Errorf("Available: %v", err)
	}

	missing, err := NewOllama(srv.URL, "mystery:latest")
	if err != nil {
		t.Fatal(err)
	}
	if err := missing.Available(context.Background()); err == nil {
		t.Error("Available should fail for a missing model")
	}
}

func TestOllamaAvailableUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	p, err := NewOllama(srv.URL, "llama3.2:latest")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Available(context.Background()); err == nil {
		t.Error("Available should fail when the host is down")
	}
}
