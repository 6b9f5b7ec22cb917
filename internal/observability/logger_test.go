package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJSONLLoggerWritesValidJSONPerLine(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLLogger(&buf)

	l.LogInfo("starting up")
	l.LogStoreEvent("put", "bafy123", "document", 5*time.Millisecond)
	l.LogHookFailure("pre_store", "document", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(lines))
	}
	for _, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("expected valid JSON line, got %q: %v", line, err)
		}
		if entry.Timestamp == "" {
			t.Fatalf("expected a timestamp on every entry")
		}
	}
}

func TestJSONLLoggerDefaultsToStdoutWhenNilWriter(t *testing.T) {
	l := NewJSONLLogger(nil)
	if l.writer == nil {
		t.Fatalf("expected a non-nil default writer")
	}
}

func TestTextLoggerImplementsLogger(t *testing.T) {
	var _ Logger = NewTextLogger()
	var _ Logger = NewJSONLLogger(&bytes.Buffer{})
}
