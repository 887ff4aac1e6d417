package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	afmStdoutLimit = 1 << 20 // 1 MiB
	afmStderrLimit = 16 << 10
)

// AFM advises via an external bridge executable — Apple Foundation Models
// have no Go SDK, so a small Swift helper translates.
//
// Bridge contract, one exchange per invocation:
//   - stdin:  {"model":"...","system":"...","prompt":"..."}
//   - stdout: {"text":"assistant response","finish_reason":"..."}
type AFM struct {
	model   string
	command string
}

// NewAFM returns an AFM backend that shells out to command per exchange.
func NewAFM(model, command string) (*AFM, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("afm command cannot be empty")
	}
	return &AFM{model: model, command: command}, nil
}

func (a *AFM) Name() string { return "afm" }

// Available checks that the bridge executable exists and is runnable.
func (a *AFM) Available(_ context.Context) error {
	if !filepath.IsAbs(a.command) {
		if _, err := exec.LookPath(a.command); err != nil {
			return fmt.Errorf("afm command %q not found in PATH: %w", a.command, err)
		}
		return nil
	}

	info, err := os.Stat(a.command)
	if err != nil {
		return fmt.Errorf("afm command %q not found: %w", a.command, err)
	}
	if info.IsDir() {
		return fmt.Errorf("afm command %q is a directory", a.command)
	}
	if info.Mode()&0o111 == 0 {
		return fmt.Errorf("afm command %q is not executable", a.command)
	}
	return nil
}

func (a *AFM) Advise(ctx context.Context, ex Exchange) (Advice, error) {
	input, err := json.Marshal(struct {
		Model  string `json:"model"`
		System string `json:"system"`
		Prompt string `json:"prompt"`
	}{
		Model:  modelOrDefault(ex.Model, a.model),
		System: ex.System,
		Prompt: ex.User,
	})
	if err != nil {
		return Advice{}, fmt.Errorf("encoding afm request: %w", err)
	}

	cmd := exec.CommandContext(ctx, a.command)
	cmd.Stdin = bytes.NewReader(input)

	stdout := &capWriter{max: afmStdoutLimit}
	stderr := &capWriter{max: afmStderrLimit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Advice{}, fmt.Errorf("afm bridge failed: %w: %s", err, msg)
		}
		return Advice{}, fmt.Errorf("afm bridge failed: %w", err)
	}
	if stdout.overflow || stderr.overflow {
		return Advice{}, fmt.Errorf("afm bridge output exceeded limit (%d bytes stdout, %d bytes stderr)",
			afmStdoutLimit, afmStderrLimit)
	}

	var decoded struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason,omitempty"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		return Advice{}, fmt.Errorf("decoding afm response: %w", err)
	}

	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return Advice{}, fmt.Errorf("empty response from model")
	}
	return Advice{Text: text, FinishReason: decoded.FinishReason}, nil
}

// capWriter buffers up to max bytes, discarding (but flagging) the rest.
// A misbehaving bridge must not balloon memory.
type capWriter struct {
	bytes.Buffer
	max      int
	overflow bool
}

func (w *capWriter) Write(p []byte) (int, error) {
	if room := w.max - w.Len(); len(p) > room {
		if room > 0 {
			w.Buffer.Write(p[:room])
		}
		w.overflow = true
		return len(p), nil
	}
	return w.Buffer.Write(p)
}
