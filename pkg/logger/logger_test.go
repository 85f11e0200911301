package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func captureLogger(buf *bytes.Buffer) *Logger {
	return New(Options{
		ServiceName: "test",
		Level:       zerolog.InfoLevel,
		Output:      buf,
	})
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}
	return entry
}

func TestInfoCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := captureLogger(&buf)

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithServiceKey(ctx, "oil_change")
	ctx = logg.WithRegion(ctx, "global")
	logg.Info(ctx, "resolved rate")

	entry := lastEntry(t, &buf)
	if entry["request_id"] != "req-1" {
		t.Fatalf("request_id missing: %v", entry)
	}
	if entry["service_key"] != "oil_change" || entry["region"] != "global" {
		t.Fatalf("domain fields missing: %v", entry)
	}
	if entry["service"] != "test" {
		t.Fatalf("service name missing: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line leaked through warn level: %s", buf.String())
	}

	logg.Warn(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Fatal("warn line missing")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" INFO ": zerolog.InfoLevel,
		"warn":   zerolog.WarnLevel,
		"":       zerolog.InfoLevel,
		"bogus":  zerolog.InfoLevel,
		"error":  zerolog.ErrorLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestErrorIncludesErrAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := captureLogger(&buf)

	logg.Error(context.Background(), "append failed", context.DeadlineExceeded)

	entry := lastEntry(t, &buf)
	if entry["error"] != context.DeadlineExceeded.Error() {
		t.Fatalf("error field missing: %v", entry)
	}
	if entry["stack"] == nil {
		t.Fatalf("stack field missing: %v", entry)
	}
}
