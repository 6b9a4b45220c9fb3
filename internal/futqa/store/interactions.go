package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Interaction is one persisted question and answer.
type Interaction struct {
	ID         string
	Timestamp  time.Time
	TraceID    string
	SessionID  string
	Question   string
	Answer     string
	Strategy   string
	Category   string
	Confidence float64
	Success    bool
	Entities   []string
	// Pattern is an opaque JSON document describing how the question was
	// phrased.
	Pattern json.RawMessage
}

// Feedback is a student's verdict on an earlier answer.
type Feedback struct {
	InteractionID string
	Timestamp     time.Time
	Feedback      string
}

// InsertInteraction stores it. The ID must be unique.
func (s *Store) InsertInteraction(ctx context.Context, it *Interaction) error {
	var entities sql.NullString
	if len(it.Entities) > 0 {
		b, err := json.Marshal(it.Entities)
		if err != nil {
			return fmt.Errorf("store: marshal entities: %w", err)
		}
		entities = sql.NullString{String: string(b), Valid: true}
	}
	var pattern sql.NullString
	if len(it.Pattern) > 0 {
		pattern = sql.NullString{String: string(it.Pattern), Valid: true}
	}
	ts := it.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, ts, trace_id, session_id, question, answer, strategy, category, confidence, success, entities_json, pattern_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, ts.UTC(), it.TraceID, it.SessionID, it.Question, it.Answer, it.Strategy, it.Category,
		it.Confidence, it.Success, entities, pattern)
	if err != nil {
		return fmt.Errorf("store: insert interaction %s: %w", it.ID, err)
	}
	return nil
}

const interactionColumns = `id, ts, trace_id, session_id, question, answer, strategy, category, confidence, success, entities_json, pattern_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (*Interaction, error) {
	var (
		it       Interaction
		entities sql.NullString
		pattern  sql.NullString
	)
	if err := row.Scan(&it.ID, &it.Timestamp, &it.TraceID, &it.SessionID, &it.Question, &it.Answer,
		&it.Strategy, &it.Category, &it.Confidence, &it.Success, &entities, &pattern); err != nil {
		return nil, err
	}
	if entities.Valid {
		if err := json.Unmarshal([]byte(entities.String), &it.Entities); err != nil {
			return nil, fmt.Errorf("decode entities of %s: %w", it.ID, err)
		}
	}
	if pattern.Valid {
		it.Pattern = json.RawMessage(pattern.String)
	}
	return &it, nil
}

// GetInteraction returns the interaction with id, or ErrNotFound.
func (s *Store) GetInteraction(ctx context.Context, id string) (*Interaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+interactionColumns+` FROM interactions WHERE id = ?`, id)
	it, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: interaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get interaction %s: %w", id, err)
	}
	return it, nil
}

// ListInteractions returns the most recent interactions, newest first.
func (s *Store) ListInteractions(ctx context.Context, limit int) ([]*Interaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query interactions: %w", err)
	}
	defer rows.Close()

	var out []*Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan interaction: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate interactions: %w", err)
	}
	return out, nil
}

// InteractionCount is the number of stored interactions.
func (s *Store) InteractionCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interactions").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count interactions: %w", err)
	}
	return n, nil
}

// Totals aggregates the interaction log.
type Totals struct {
	Interactions int
	Successful   int
	Feedback     int
	ByStrategy   map[string]int
	ByCategory   map[string]int
}

// Totals aggregates every stored interaction.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	t := Totals{ByStrategy: map[string]int{}, ByCategory: map[string]int{}}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(success), 0), (SELECT COUNT(*) FROM feedback)
		FROM interactions
	`).Scan(&t.Interactions, &t.Successful, &t.Feedback)
	if err != nil {
		return Totals{}, fmt.Errorf("store: totals: %w", err)
	}
	if err := s.countBy(ctx, "strategy", t.ByStrategy); err != nil {
		return Totals{}, err
	}
	if err := s.countBy(ctx, "category", t.ByCategory); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// countBy fills into with interaction counts grouped by column, which must
// be a trusted column name.
func (s *Store) countBy(ctx context.Context, column string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM interactions GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("store: count by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("store: scan %s count: %w", column, err)
		}
		into[key] = n
	}
	return rows.Err()
}

// AddFeedback attaches feedback to an interaction. It returns ErrNotFound
// when the interaction does not exist.
func (s *Store) AddFeedback(ctx context.Context, f Feedback) error {
	ts := f.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (interaction_id, ts, feedback)
		SELECT id, ?, ? FROM interactions WHERE id = ?
	`, ts.UTC(), f.Feedback, f.InteractionID)
	if err != nil {
		return fmt.Errorf("store: add feedback for %s: %w", f.InteractionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("store: interaction %s: %w", f.InteractionID, ErrNotFound)
	}
	return nil
}

// ListFeedback returns the feedback for one interaction, oldest first.
func (s *Store) ListFeedback(ctx context.Context, interactionID string) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT interaction_id, ts, feedback FROM feedback WHERE interaction_id = ? ORDER BY id ASC
	`, interactionID)
	if err != nil {
		return nil, fmt.Errorf("store: query feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.InteractionID, &f.Timestamp, &f.Feedback); err != nil {
			return nil, fmt.Errorf("store: scan feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
