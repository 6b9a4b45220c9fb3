package redact_test

import (
	"errors"
	"testing"

	"github.com/bdobrica/futqa/common/redact"
)

func TestString(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		sensitive []string
		want      string
	}{
		{"replaces key", "auth failed for sk-live-1234", []string{"sk-live-1234"}, "auth failed for [REDACTED]"},
		{"skips short values", "abc abc", []string{"abc"}, "abc abc"},
		{"multiple values", "k1=gsk_aaaa k2=sk_bbbb", []string{"gsk_aaaa", "sk_bbbb"}, "k1=[REDACTED] k2=[REDACTED]"},
		{"nothing to do", "plain text", nil, "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redact.String(tt.in, tt.sensitive...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	if got := redact.Error(nil, "secret"); got != "" {
		t.Errorf("nil error: got %q", got)
	}
	err := errors.New("POST failed: Bearer topsecret")
	if got := redact.Error(err, "topsecret"); got != "POST failed: Bearer [REDACTED]" {
		t.Errorf("got %q", got)
	}
}
