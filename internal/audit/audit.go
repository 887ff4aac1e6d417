// Package audit records boundary decisions as an append-only JSONL trail.
// The checker itself is pure; auditing belongs to the calling layer, and it
// is best-effort — a failed write degrades to a log warning and never
// blocks or fails the command being gated.
package audit

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Record is one audited decision.
type Record struct {
	ID          string `json:"id"`
	Time        string `json:"time"` // UTC, RFC 3339
	Command     string `json:"command"`
	WorkingDir  string `json:"working_dir"`
	ApprovedDir string `json:"approved_dir"`
	Decision    string `json:"decision"` // "allow" or "deny"
	Reason      string `json:"reason,omitempty"`
	Note        string `json:"note,omitempty"` // advisory (e.g. tokenizer fail-open)
	Risk        string `json:"risk"`           // "safe" or "destructive"
	RiskRule    string `json:"risk_rule,omitempty"`
	Executed    bool   `json:"executed"`
	ExitCode    int    `json:"exit_code,omitempty"`
}

// Trail appends records to a JSONL file. The zero value (or New with an
// empty path) is a disabled trail whose methods are no-ops.
type Trail struct {
	path string
	log  *slog.Logger
}

// New returns a Trail writing to path. An empty path disables the trail.
func New(path string, log *slog.Logger) *Trail {
	if log == nil {
		log = slog.Default()
	}
	return &Trail{path: path, log: log}
}

// Enabled reports whether records will be written.
func (t *Trail) Enabled() bool {
	return t != nil && t.path != ""
}

// Append writes one record, filling in the event id and timestamp.
// Failures are logged, never returned.
func (t *Trail) Append(rec Record) {
	if !t.Enabled() {
		return
	}

	rec.ID = uuid.NewString()
	rec.Time = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(rec)
	if err != nil {
		t.log.Warn("audit record not written", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		t.log.Warn("audit record not written", "path", t.path, "error", err)
		return
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.log.Warn("audit record not written", "path", t.path, "error", err)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		t.log.Warn("audit record not written", "path", t.path, "error", err)
	}
}

// Tail returns the last n records, oldest first. Unparseable lines are
// skipped — the trail may contain records from older versions.
func (t *Trail) Tail(n int) ([]Record, error) {
	if !t.Enabled() || n <= 0 {
		return nil, nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
