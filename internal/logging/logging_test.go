package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v want %v", in, got, want)
		}
	}
}

func TestStartSpanPropagatesIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")
	ctx := WithLogger(context.Background(), logger)
	ctx = WithActionID(ctx, "action-1")

	ctx, parent := StartSpan(ctx, "parent")
	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		t.Fatal("expected trace id")
	}
	parentID := SpanIDFromContext(ctx)

	child, span := StartSpan(ctx, "child", slog.String("op", "login"))
	if TraceIDFromContext(child) != traceID {
		t.Fatal("child span should share the trace id")
	}
	if SpanIDFromContext(child) == parentID {
		t.Fatal("child span should have its own id")
	}
	if ActionIDFromContext(child) != "action-1" {
		t.Fatal("action id should survive span derivation")
	}

	span.Fail(errors.New("boom"))
	span.End()
	parent.End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines got %d: %s", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if first["msg"] != "span failed" || first["error"] != "boom" {
		t.Fatalf("unexpected child entry: %v", first)
	}
	if first["parent_span_id"] != parentID || first["op"] != "login" {
		t.Fatalf("missing span attributes: %v", first)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatal("expected default logger")
	}
	var nilSpan *Span
	nilSpan.Fail(errors.New("ignored"))
	nilSpan.End()
}
