package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/sweetpotato0/ai-reasoner/middleware"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewRequestLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := middleware.NewContext(context.Background(), "hello")
	ctx.Set("request_id", "req-1")
	if err := l.Execute(ctx, func(*middleware.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "query received") || !strings.Contains(out, "query completed") {
		t.Fatalf("missing log lines: %s", out)
	}
	if !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("missing request id: %s", out)
	}
}

func TestRequestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	l := NewRequestLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	sentinel := errors.New("boom")
	err := l.Execute(middleware.NewContext(context.Background(), "q"), func(*middleware.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if !strings.Contains(buf.String(), "query failed") {
		t.Fatalf("expected failure log: %s", buf.String())
	}
}
