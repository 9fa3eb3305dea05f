package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("默认记录器不应启用任何级别")
	}
}

func TestSetLoggerRoutesRecords(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Logger().Warn("font fallback", "family", "Nope")
	if !strings.Contains(buf.String(), "family=Nope") {
		t.Fatalf("日志未写入: %q", buf.String())
	}
}
