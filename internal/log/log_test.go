package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, slog.LevelWarn, ComponentApp)

	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "component=app") || !strings.Contains(out, "k=v") {
		t.Errorf("missing attributes: %s", out)
	}
}

func TestMiddlewareInjectsLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, slog.LevelInfo, ComponentHTTP)

	var got *Logger
	h := Middleware(l)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil {
		t.Fatal("logger not found in context")
	}
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("request id not attached: %s", buf.String())
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("expected fallback logger outside requests")
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(NewText(&buf, slog.LevelInfo, ComponentApp))
	ctx := context.Background()

	sl.LogWorkbookLoaded(ctx, "wb-1", "plan.xlsx", 2, 40)
	sl.LogExport(ctx, "csv", 3, 120)
	sl.LogError(ctx, "boom", errors.New("bad"), ComponentDashboard, OpView, NewFields().WithQuery("S", "", "", "2024-01", ""))

	out := buf.String()
	for _, want := range []string{"workbook_id=wb-1", "row_count=40", "format=csv", "error=bad", "month=2024-01", "sheet=S"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "city=") {
		t.Errorf("empty query fields should be skipped:\n%s", out)
	}
}
