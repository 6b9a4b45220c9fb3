package backend

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bdobrica/futqa/common/redact"
	"github.com/bdobrica/futqa/common/trace"
)

type sessionKey struct{}

// WithSession tags ctx with the conversation session, which keys the
// generative rate limit.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session id set by WithSession, or "".
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	// Timeout bounds a Complete call when the caller passes none.
	// Default: 8 seconds.
	Timeout time.Duration
	// Limiter caps calls per session. Nil disables the limit.
	Limiter *RateLimiter
	// Secrets are redacted from logged errors.
	Secrets []string
}

// Generator is the engine's view of the generative backend. A nil
// *Generator, or one without a provider, is valid and never answers.
type Generator struct {
	provider Provider
	cfg      GeneratorConfig
	logger   *slog.Logger
}

// NewGenerator wraps provider, which may be nil.
func NewGenerator(provider Provider, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if c, ok := provider.(*Chain); ok && c.Len() == 0 {
		provider = nil
	}
	return &Generator{provider: provider, cfg: cfg, logger: logger}
}

// Enabled reports whether a provider is configured.
func (g *Generator) Enabled() bool {
	return g != nil && g.provider != nil
}

// Name describes the configured provider, or "disabled".
func (g *Generator) Name() string {
	if !g.Enabled() {
		return "disabled"
	}
	return g.provider.Name()
}

// Complete asks the backend for a completion of prompt under the system
// instructions, bounded by timeout (or the configured default when zero).
// It never returns an error: on any failure ok is false.
func (g *Generator) Complete(ctx context.Context, prompt, system string, timeout time.Duration) (string, bool) {
	if !g.Enabled() || strings.TrimSpace(prompt) == "" {
		return "", false
	}
	logger := trace.Logger(ctx, g.logger)

	if g.cfg.Limiter != nil {
		key := SessionFromContext(ctx)
		if !g.cfg.Limiter.Allow(key) {
			logger.Info("backend: generative call rate limited", "session_id", key)
			return "", false
		}
	}

	if timeout <= 0 {
		timeout = g.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := g.provider.Complete(ctx, Prompt{System: system, User: prompt})
	if err != nil {
		logger.Warn("backend: completion failed",
			"provider", g.provider.Name(),
			"duration", time.Since(start),
			"err", redact.Error(err, g.cfg.Secrets...),
		)
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	logger.Debug("backend: completion ok", "provider", g.provider.Name(), "duration", time.Since(start))
	return out, true
}
