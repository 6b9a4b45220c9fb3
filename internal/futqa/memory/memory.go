// Package memory keeps the recent turns of a conversation so follow-up
// questions can be resolved against them.
//
// A Memory belongs to exactly one session and has a single writer, so it
// carries no lock. Sessions hands out one Memory per session and handles
// idle expiry and optional snapshots.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bdobrica/futqa/internal/futqa/intent"
)

// DefaultCapacity is the number of turns kept when New is given a
// non-positive capacity.
const DefaultCapacity = 10

// Turn is one completed exchange.
type Turn struct {
	Utterance  string          `json:"utterance"`
	Analysis   intent.Analysis `json:"analysis"`
	Summary    string          `json:"summary"`
	Strategy   string          `json:"strategy"`
	Confidence float64         `json:"confidence"`
	At         time.Time       `json:"at"`
}

// Resolved returns the entities the turn was about: its own entities, or
// for a follow-up the entities it inherited from context.
func (t Turn) Resolved() []string {
	if len(t.Analysis.Entities) > 0 {
		return t.Analysis.Entities
	}
	if t.Analysis.Category == intent.FollowUp {
		return t.Analysis.ContextEntities
	}
	return nil
}

// Memory is a bounded FIFO of turns, oldest first.
type Memory struct {
	capacity int
	turns    []Turn
}

// New returns an empty Memory holding at most capacity turns.
func New(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{capacity: capacity}
}

// Append adds t as the newest turn, evicting the oldest turns beyond
// capacity.
func (m *Memory) Append(t Turn) {
	m.turns = append(m.turns, t)
	if excess := len(m.turns) - m.capacity; excess > 0 {
		m.turns = slices.Clone(m.turns[excess:])
	}
}

// Recent returns up to n of the newest turns, oldest first. A non-positive
// n returns every turn.
func (m *Memory) Recent(n int) []Turn {
	if n <= 0 || n > len(m.turns) {
		n = len(m.turns)
	}
	return slices.Clone(m.turns[len(m.turns)-n:])
}

// Turns returns a copy of every stored turn, oldest first.
func (m *Memory) Turns() []Turn { return m.Recent(0) }

// Len is the number of stored turns.
func (m *Memory) Len() int { return len(m.turns) }

// Capacity is the maximum number of stored turns.
func (m *Memory) Capacity() int { return m.capacity }

// Reset drops every turn.
func (m *Memory) Reset() { m.turns = nil }

// Context returns the turns in the shape the classifier consumes.
func (m *Memory) Context() []intent.Turn {
	out := make([]intent.Turn, len(m.turns))
	for i, t := range m.turns {
		out[i] = intent.Turn{Text: t.Utterance, Entities: t.Resolved()}
	}
	return out
}

// summaryTurns is how many of the newest turns Summary lists.
const summaryTurns = 5

// Summary renders a short human-readable account of the conversation.
func (m *Memory) Summary() string {
	if len(m.turns) == 0 {
		return "No conversation history available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation summary (%d turns)\n", len(m.turns))

	var entities, categories []string
	for _, t := range m.turns {
		for _, e := range t.Analysis.Entities {
			if !slices.Contains(entities, e) {
				entities = append(entities, e)
			}
		}
		if c := string(t.Analysis.Category); !slices.Contains(categories, c) {
			categories = append(categories, c)
		}
	}
	if len(categories) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(categories, ", "))
	}
	if len(entities) > 0 {
		fmt.Fprintf(&b, "Courses and lecturers: %s\n", strings.Join(entities, ", "))
	}

	for i, t := range m.Recent(summaryTurns) {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, truncate(t.Utterance, 50))
		fmt.Fprintf(&b, "   strategy: %s, style: %s, user: %s, at: %s\n",
			t.Strategy, t.Analysis.Style, t.Analysis.UserType, t.At.UTC().Format(time.RFC3339))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
