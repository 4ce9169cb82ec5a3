package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExtractTextStringContent(t *testing.T) {
	raw := json.RawMessage(`"fix the flaky test\nsecond line"`)
	if got := extractText(raw); got != "fix the flaky test" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextBlockContent(t *testing.T) {
	raw := json.RawMessage(`[{"type":"text","text":"<ide_selection>ignored</ide_selection>"},{"type":"text","text":"real question"}]`)
	if got := extractText(raw); got != "real question" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextFlattensWhitespace(t *testing.T) {
	raw := json.RawMessage(`"  a\tb  "`)
	if got := extractText(raw); got != "a b" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateTitle(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := truncateTitle(long)
	if want := strings.Repeat("x", 50) + "..."; got != want {
		t.Errorf("got %q", got)
	}
	if got := truncateTitle("short"); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestIsWarmupText(t *testing.T) {
	if !isWarmupText("Warmup") {
		t.Error("Warmup not detected")
	}
	if !isWarmupText("<ide_opened_file>foo</ide_opened_file>") {
		t.Error("ide noise not detected")
	}
	if isWarmupText("warm up the cache please") {
		t.Error("real message flagged as warmup")
	}
}

func TestReadConversationMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	writeLines(t, path,
		jsonlLine(t, "user", "sess-1", "2024-03-01T10:00:00Z", "Warmup"),
		jsonlLine(t, "user", "sess-1", "2024-03-01T10:01:00Z", "refactor the scanner"),
		`not valid json at all`,
		jsonlLine(t, "assistant", "sess-1", "2024-03-01T10:02:30Z", "done"),
	)

	meta, err := readConversationMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "refactor the scanner" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.LinkedSession != "sess-1" {
		t.Errorf("linked = %q", meta.LinkedSession)
	}
	want := time.Date(2024, 3, 1, 10, 2, 30, 0, time.UTC)
	if !meta.LastActive.Equal(want) {
		t.Errorf("lastActive = %v, want %v", meta.LastActive, want)
	}
	if meta.WarmupOnly() {
		t.Error("file with real user text reported warmup-only")
	}
}

func TestReadConversationMetaWarmupOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.jsonl")
	writeLines(t, path,
		jsonlLine(t, "user", "sess-2", "2024-03-01T09:00:00Z", "Warmup"),
		jsonlLine(t, "assistant", "sess-2", "2024-03-01T09:00:01Z", "ready"),
	)

	meta, err := readConversationMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.WarmupOnly() {
		t.Error("warmup-only file not detected")
	}
	if meta.Title != "" {
		t.Errorf("unexpected title %q", meta.Title)
	}
}

func TestReadConversationMetaAssistantOnly(t *testing.T) {
	// No user lines at all: not warmup, just untitled.
	path := filepath.Join(t.TempDir(), "a.jsonl")
	writeLines(t, path,
		jsonlLine(t, "assistant", "sess-3", "2024-03-01T09:00:00Z", "hello"),
	)

	meta, err := readConversationMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if meta.WarmupOnly() {
		t.Error("assistant-only file reported warmup-only")
	}
	if meta.Title != "" {
		t.Errorf("unexpected title %q", meta.Title)
	}
}

// jsonlLine builds one conversation record.
func jsonlLine(t *testing.T, typ, sessionID, ts, text string) string {
	t.Helper()
	rec := map[string]any{
		"type":      typ,
		"timestamp": ts,
		"sessionId": sessionID,
		"message":   map[string]any{"role": typ, "content": text},
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}
