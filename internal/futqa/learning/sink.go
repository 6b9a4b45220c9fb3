package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bdobrica/futqa/internal/futqa/store"
)

// Sink is the append-only persistence of interactions.
type Sink interface {
	Record(ctx context.Context, it Interaction) error
	// Feedback attaches feedback to a recorded interaction. It returns
	// ErrUnknownInteraction when the sink has no such record.
	Feedback(ctx context.Context, id, feedback string) error
}

// NoopSink discards everything.
type NoopSink struct{}

var _ Sink = NoopSink{}

func (NoopSink) Record(context.Context, Interaction) error { return nil }

// Feedback reports every interaction as unknown since nothing was kept.
func (NoopSink) Feedback(context.Context, string, string) error { return ErrUnknownInteraction }

// SQLiteSink writes interactions through a store.Store.
type SQLiteSink struct {
	store *store.Store
}

var _ Sink = (*SQLiteSink)(nil)

func NewSQLiteSink(s *store.Store) *SQLiteSink {
	return &SQLiteSink{store: s}
}

func (s *SQLiteSink) Record(ctx context.Context, it Interaction) error {
	pattern, err := json.Marshal(it.Pattern)
	if err != nil {
		return fmt.Errorf("learning: marshal pattern: %w", err)
	}
	return s.store.InsertInteraction(ctx, &store.Interaction{
		ID:         it.ID,
		Timestamp:  it.At,
		TraceID:    it.TraceID,
		SessionID:  it.SessionID,
		Question:   it.Question,
		Answer:     it.Answer,
		Strategy:   it.Strategy,
		Category:   it.Category,
		Confidence: it.Confidence,
		Success:    it.Success,
		Entities:   it.Entities,
		Pattern:    pattern,
	})
}

func (s *SQLiteSink) Feedback(ctx context.Context, id, feedback string) error {
	err := s.store.AddFeedback(ctx, store.Feedback{InteractionID: id, Feedback: feedback})
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownInteraction, id)
	}
	return err
}
