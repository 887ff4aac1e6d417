package audit

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTrail(t *testing.T) (*Trail, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	return New(path, slog.New(slog.NewTextHandler(os.Stderr, nil))), path
}

func TestAppendAndTail(t *testing.T) {
	trail, _ := newTrail(t)

	trail.Append(Record{
		Command:     "rm -rf ../outside",
		WorkingDir:  "/work",
		ApprovedDir: "/work",
		Decision:    "deny",
		Reason:      "Directory boundary violation",
		Risk:        "destructive",
		RiskRule:    "rm",
	})
	trail.Append(Record{
		Command:     "mkdir sub",
		WorkingDir:  "/work",
		ApprovedDir: "/work",
		Decision:    "allow",
		Risk:        "safe",
		Executed:    true,
	})

	records, err := trail.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.ID == "" || first.Time == "" {
		t.Errorf("record missing id/time: %+v", first)
	}
	if first.Decision != "deny" || first.RiskRule != "rm" {
		t.Errorf("first record = %+v", first)
	}
	if records[1].Command != "mkdir sub" || !records[1].Executed {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestTailLimit(t *testing.T) {
	trail, _ := newTrail(t)

	for range 5 {
		trail.Append(Record{Command: "old", Decision: "allow", Risk: "safe"})
	}
	trail.Append(Record{Command: "newest", Decision: "allow", Risk: "safe"})

	records, err := trail.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[1].Command != "newest" {
		t.Errorf("Tail should keep the newest records, got %+v", records)
	}
}

func TestTailSkipsUnparseableLines(t *testing.T) {
	trail, path := newTrail(t)

	trail.Append(Record{Command: "good", Decision: "allow", Risk: "safe"})
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	trail.Append(Record{Command: "also good", Decision: "allow", Risk: "safe"})

	records, err := trail.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2 (garbage line skipped)", len(records))
	}
}

func TestDisabledTrail(t *testing.T) {
	trail := New("", nil)

	if trail.Enabled() {
		t.Error("empty-path trail should be disabled")
	}
	trail.Append(Record{Command: "anything"}) // must not panic

	records, err := trail.Tail(10)
	if err != nil || records != nil {
		t.Errorf("disabled Tail = (%v, %v), want (nil, nil)", records, err)
	}
}

func TestTailMissingFile(t *testing.T) {
	trail := New(filepath.Join(t.TempDir(), "never-written.jsonl"), nil)

	records, err := trail.Tail(5)
	if err != nil {
		t.Fatalf("Tail of missing file: %v", err)
	}
	if records != nil {
		t.Errorf("records = %+v, want nil", records)
	}
}

func TestAppendIsJSONL(t *testing.T) {
	trail, path := newTrail(t)
	trail.Append(Record{Command: "ls", Decision: "allow", Risk: "safe"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		t.Errorf("audit line is not a JSON object: %q", line)
	}
	if strings.Contains(line, "\n") {
		t.Errorf("record spans multiple lines: %q", line)
	}
}
