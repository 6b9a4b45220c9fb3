// Package backend talks to the generative completion APIs the engine may
// use as a last resort for questions no knowledge strategy can answer.
//
// Providers return errors. The Generator on top of them never does: a
// failure, timeout or rate limit is logged and reported as "no answer" so
// the engine carries on with its next strategy.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrRateLimit is returned by a Provider when the upstream API reports a
// rate-limiting condition (HTTP 429).
var ErrRateLimit = errors.New("backend: upstream rate limit exceeded")

// ErrNoProvider is returned by a Chain with no providers configured.
var ErrNoProvider = errors.New("backend: no provider configured")

// Prompt is one completion request.
type Prompt struct {
	System string
	User   string
	// MaxTokens caps the completion length. Zero uses the provider default.
	MaxTokens int
}

// Provider produces a completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// StatusError is a non-2xx answer from a completion API.
type StatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s: HTTP %d", e.Provider, e.Code)
	}
	return fmt.Sprintf("backend: %s: HTTP %d: %s", e.Provider, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrRateLimit) match a 429.
func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimit && e.Code == http.StatusTooManyRequests
}

// retryable reports whether a failed call is worth repeating: transport
// errors, rate limits and server errors are; other client errors are not.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
