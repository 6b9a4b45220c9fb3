package trace_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/bdobrica/futqa/common/trace"
)

func TestGenerateID(t *testing.T) {
	a, b := trace.GenerateID(), trace.GenerateID()
	if a == b {
		t.Fatalf("expected distinct IDs, got %q twice", a)
	}
	if !strings.HasPrefix(a, "q_") || len(a) != 34 {
		t.Errorf("unexpected ID shape %q", a)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := trace.FromContext(ctx); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}
	ctx = trace.WithTraceID(ctx, "q_abc")
	if got := trace.FromContext(ctx); got != "q_abc" {
		t.Errorf("FromContext = %q, want q_abc", got)
	}
}

func TestLoggerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	trace.Logger(trace.WithTraceID(context.Background(), "q_123"), base).Info("answered")
	if !strings.Contains(buf.String(), "trace_id=q_123") {
		t.Errorf("log line missing trace_id: %s", buf.String())
	}

	buf.Reset()
	trace.Logger(context.Background(), base).Info("answered")
	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("unexpected trace_id in %s", buf.String())
	}
}
