// Package strategy holds the response generators the dispatcher chooses
// between. Each strategy reads the analysis and the knowledge store and
// either produces an answer or declines; none of them depends on another.
package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/memory"
)

// Knowledge sources reported in Result.Source.
const (
	SourceCourses       = "course_catalog"
	SourceLectureNotes  = "lecture_notes"
	SourcePastQuestions = "past_questions"
	SourceGuidance      = "guidance"
	SourceInstitution   = "institution_facts"
	SourceTemplates     = "templates"
	SourceContext       = "conversation_context"
	SourceGenerative    = "generative_backend"
)

// Request is everything a strategy may look at for one utterance.
type Request struct {
	Utterance string
	Analysis  intent.Analysis
	// Recent holds earlier turns of the session, oldest first.
	Recent []memory.Turn
	// SessionID identifies the conversation, if the host has one.
	SessionID string
}

// Result is one strategy's answer.
type Result struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy_used"`
	Source     string  `json:"source"`
}

// Strategy produces an answer for a request, or reports false to let the
// dispatcher try the next candidate.
type Strategy interface {
	Name() string
	Respond(ctx context.Context, req Request) (Result, bool)
}

// Set maps strategy names to implementations.
type Set struct {
	strategies map[string]Strategy
}

// NewSet registers strategies under their own names.
func NewSet(strategies ...Strategy) *Set {
	s := &Set{strategies: make(map[string]Strategy)}
	for _, st := range strategies {
		s.Register(st)
	}
	return s
}

// Register adds st, replacing any strategy with the same name.
func (s *Set) Register(st Strategy) {
	s.strategies[st.Name()] = st
}

// Get looks up a strategy by name.
func (s *Set) Get(name string) (Strategy, bool) {
	st, ok := s.strategies[name]
	return st, ok
}

// MustGet is Get for names the caller registered itself.
func (s *Set) MustGet(name string) Strategy {
	st, ok := s.strategies[name]
	if !ok {
		panic(fmt.Sprintf("strategy: %q not registered", name))
	}
	return st
}

// Names lists the registered strategies in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.strategies))
	for n := range s.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len is the number of registered strategies.
func (s *Set) Len() int { return len(s.strategies) }

func result(strategy, source string, confidence float64, answer string) (Result, bool) {
	return Result{Answer: answer, Confidence: confidence, Strategy: strategy, Source: source}, true
}
