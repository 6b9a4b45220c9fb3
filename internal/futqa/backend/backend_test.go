package backend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bdobrica/futqa/common/retry"
	"github.com/bdobrica/futqa/internal/futqa/backend"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type stubProvider struct {
	name  string
	out   string
	errs  []error // returned in order, then nil
	calls atomic.Int32
	delay time.Duration
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, _ backend.Prompt) (string, error) {
	n := int(s.calls.Add(1)) - 1
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return "", s.errs[n]
	}
	return s.out, nil
}

var fastRetry = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

// ---------------------------------------------------------------------------
// OpenAI-compatible provider
// ---------------------------------------------------------------------------

func oaiBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return b
}

func TestOpenAI_Complete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write(oaiBody("  Binary search halves the range.  "))
	}))
	defer srv.Close()

	p := backend.NewOpenAI(backend.Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "m1"})
	out, err := p.Complete(context.Background(), backend.Prompt{System: "be brief", User: "what is binary search"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Binary search halves the range." {
		t.Errorf("out = %q", out)
	}
	if got.Model != "m1" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("request = %+v", got)
	}
}

func TestOpenAI_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		rateLimit bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, true},
		{"server error", http.StatusBadGateway, `upstream down`, false},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad model","type":"invalid"}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := backend.NewOpenAI(backend.Config{BaseURL: srv.URL}).Complete(context.Background(), backend.Prompt{User: "x"})
			var se *backend.StatusError
			if !errors.As(err, &se) || se.Code != tt.status {
				t.Fatalf("err = %v, want StatusError %d", err, tt.status)
			}
			if got := errors.Is(err, backend.ErrRateLimit); got != tt.rateLimit {
				t.Errorf("errors.Is(ErrRateLimit) = %v, want %v", got, tt.rateLimit)
			}
		})
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := backend.NewOpenAI(backend.Config{BaseURL: srv.URL}).Complete(context.Background(), backend.Prompt{User: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewGroq_Name(t *testing.T) {
	if got := backend.NewGroq("k", "").Name(); got != "groq" {
		t.Errorf("Name = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func TestChain_FallsThroughToNextProvider(t *testing.T) {
	bad := &stubProvider{name: "openai", errs: []error{&backend.StatusError{Provider: "openai", Code: 401}}}
	good := &stubProvider{name: "groq", out: "answer"}
	c := backend.NewChain(fastRetry, nil, bad, nil, good)

	out, err := c.Complete(context.Background(), backend.Prompt{User: "q"})
	if err != nil || out != "answer" {
		t.Fatalf("Complete = %q, %v", out, err)
	}
	if bad.calls.Load() != 1 {
		t.Errorf("401 should not be retried, calls = %d", bad.calls.Load())
	}
	if c.Name() != "chain(openai,groq)" {
		t.Errorf("Name = %q", c.Name())
	}
}

func TestChain_RetriesTransientErrors(t *testing.T) {
	flaky := &stubProvider{name: "openai", out: "ok", errs: []error{
		&backend.StatusError{Code: 503},
		&backend.StatusError{Code: 429},
	}}
	out, err := backend.NewChain(fastRetry, nil, flaky).Complete(context.Background(), backend.Prompt{User: "q"})
	if err != nil || out != "ok" {
		t.Fatalf("Complete = %q, %v", out, err)
	}
	if flaky.calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls.Load())
	}
}

func TestChain_AllFail(t *testing.T) {
	a := &stubProvider{name: "a", errs: []error{errors.New("x"), errors.New("x"), errors.New("x")}}
	b := &stubProvider{name: "b", errs: []error{&backend.StatusError{Code: 400}}}
	_, err := backend.NewChain(fastRetry, nil, a, b).Complete(context.Background(), backend.Prompt{User: "q"})
	if err == nil || !strings.Contains(err.Error(), "a:") || !strings.Contains(err.Error(), "b:") {
		t.Fatalf("err = %v, want both providers reported", err)
	}

	_, err = backend.NewChain(fastRetry, nil).Complete(context.Background(), backend.Prompt{User: "q"})
	if !errors.Is(err, backend.ErrNoProvider) {
		t.Errorf("empty chain err = %v, want ErrNoProvider", err)
	}
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

func TestGenerator_Disabled(t *testing.T) {
	var nilGen *backend.Generator
	if nilGen.Enabled() {
		t.Error("nil generator should be disabled")
	}
	if _, ok := nilGen.Complete(context.Background(), "q", "", 0); ok {
		t.Error("nil generator should never answer")
	}

	g := backend.NewGenerator(backend.NewChain(fastRetry, nil), backend.GeneratorConfig{}, nil)
	if g.Enabled() || g.Name() != "disabled" {
		t.Errorf("empty chain should disable the generator: %v %q", g.Enabled(), g.Name())
	}
}

func TestGenerator_Success(t *testing.T) {
	g := backend.NewGenerator(&stubProvider{name: "s", out: " hi "}, backend.GeneratorConfig{}, nil)
	out, ok := g.Complete(context.Background(), "q", "sys", time.Second)
	if !ok || out != "hi" {
		t.Errorf("Complete = %q, %v", out, ok)
	}
	if _, ok := g.Complete(context.Background(), "   ", "sys", time.Second); ok {
		t.Error("blank prompt should not be sent")
	}
}

func TestGenerator_TimeoutIsSwallowed(t *testing.T) {
	slow := &stubProvider{name: "slow", out: "late", delay: time.Second}
	g := backend.NewGenerator(slow, backend.GeneratorConfig{}, nil)

	start := time.Now()
	if _, ok := g.Complete(context.Background(), "q", "", 20*time.Millisecond); ok {
		t.Error("timed-out call should report no answer")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout was not enforced")
	}
}

func TestGenerator_RedactsSecretsInLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	failing := &stubProvider{name: "openai", errs: []error{errors.New("bad key sk-secret-123")}}
	g := backend.NewGenerator(failing, backend.GeneratorConfig{Secrets: []string{"sk-secret-123"}}, logger)

	if _, ok := g.Complete(context.Background(), "q", "", time.Second); ok {
		t.Fatal("failing provider should report no answer")
	}
	if strings.Contains(buf.String(), "sk-secret-123") {
		t.Errorf("secret leaked into logs:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("expected redaction marker in logs:\n%s", buf.String())
	}
}

func TestGenerator_RateLimitedPerSession(t *testing.T) {
	p := &stubProvider{name: "s", out: "answer"}
	g := backend.NewGenerator(p, backend.GeneratorConfig{Limiter: backend.NewRateLimiter(1, time.Minute)}, nil)

	alice := backend.WithSession(context.Background(), "alice")
	bob := backend.WithSession(context.Background(), "bob")
	if _, ok := g.Complete(alice, "q", "", time.Second); !ok {
		t.Fatal("first call should pass")
	}
	if _, ok := g.Complete(alice, "q", "", time.Second); ok {
		t.Error("second call for alice should be limited")
	}
	if _, ok := g.Complete(bob, "q", "", time.Second); !ok {
		t.Error("bob has his own quota")
	}
	if p.calls.Load() != 2 {
		t.Errorf("provider calls = %d, want 2", p.calls.Load())
	}
	if backend.SessionFromContext(bob) != "bob" || backend.SessionFromContext(context.Background()) != "" {
		t.Error("SessionFromContext mismatch")
	}
}
