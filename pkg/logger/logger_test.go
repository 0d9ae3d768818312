package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := globalLogger
	SetOutput(&buf)
	t.Cleanup(func() { globalLogger = prev })
	return &buf
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLevels(t *testing.T) {
	buf := captureLogs(t)

	Info("file_uploaded", map[string]interface{}{"size": 3})
	WarnWithUser("user-1", "file_access_denied", nil)
	Error("storage_failed", errors.New("boom"), nil)

	entries := decodeEntries(t, buf)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Level != LevelInfo || entries[0].Action != "file_uploaded" || entries[0].UserID != nil {
		t.Errorf("unexpected info entry %+v", entries[0])
	}
	if entries[1].Level != LevelWarn || entries[1].UserID == nil || *entries[1].UserID != "user-1" {
		t.Errorf("unexpected warn entry %+v", entries[1])
	}
	if entries[2].Level != LevelError || entries[2].Error != "boom" {
		t.Errorf("unexpected error entry %+v", entries[2])
	}
}

func TestNoLoggerIsNoop(t *testing.T) {
	prev := globalLogger
	globalLogger = nil
	t.Cleanup(func() { globalLogger = prev })

	Info("ignored", nil)
	ErrorWithUser("u", "ignored", errors.New("x"), nil)
}

func TestInitWritesRotatedFile(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	path := filepath.Join(t.TempDir(), "logs", "clouddrive.log")
	Init(Config{FilePath: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	globalLogger.console = &bytes.Buffer{}

	InfoWithUser("user-2", "server_starting", nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"action":"server_starting"`) {
		t.Errorf("unexpected log file contents %q", data)
	}
}

func TestGetRequestBodySummary(t *testing.T) {
	app := fiber.New()

	tests := []struct {
		name        string
		body        string
		contentType string
		check       func(string) bool
	}{
		{"empty", "", "", func(s string) bool { return s == "empty" }},
		{"redacts password", `{"email":"a@b.co","password":"secret1"}`, "application/json", func(s string) bool {
			return strings.Contains(s, "[REDACTED]") && !strings.Contains(s, "secret1")
		}},
		{"binary", "not json", "text/plain", func(s string) bool { return s == "binary (8 bytes)" }},
		{"large", strings.Repeat("x", 2048), "text/plain", func(s string) bool { return s == "large (2048 bytes)" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
			defer app.ReleaseCtx(ctx)
			ctx.Request().SetBodyString(tt.body)
			if tt.contentType != "" {
				ctx.Request().Header.SetContentType(tt.contentType)
			}

			if got := GetRequestBodySummary(ctx); !tt.check(got) {
				t.Errorf("unexpected summary %q", got)
			}
		})
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
