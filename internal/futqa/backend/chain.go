package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bdobrica/futqa/common/retry"
)

// Chain tries its providers in order until one answers. Each provider gets
// its own retry budget for transient failures.
type Chain struct {
	providers []Provider
	retry     retry.Config
	logger    *slog.Logger
}

var _ Provider = (*Chain)(nil)

// NewChain returns a chain over providers, skipping nil entries. A zero
// retry config uses retry.DefaultConfig.
func NewChain(retryCfg retry.Config, logger *slog.Logger, providers ...Provider) *Chain {
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig
	}
	retryCfg.ShouldRetry = retryable
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{retry: retryCfg, logger: logger}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Name lists the chained providers.
func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Len is the number of providers in the chain.
func (c *Chain) Len() int { return len(c.providers) }

// Complete returns the first successful completion. When every provider
// fails the errors are joined.
func (c *Chain) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvider
	}
	var errs []error
	for _, p := range c.providers {
		var out string
		err := retry.Do(ctx, c.retry, func() error {
			var err error
			out, err = p.Complete(ctx, prompt)
			return err
		})
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
		c.logger.Debug("backend: provider failed, trying next", "provider", p.Name(), "err", err)
	}
	return "", errors.Join(errs...)
}
