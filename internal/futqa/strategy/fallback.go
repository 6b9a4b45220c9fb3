package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// scope is the list of things the assistant covers, shared by the
// boundary and general answers.
var scope = []string{
	"Course information: codes, lecturers, prerequisites and assessment",
	"Lecture notes, past questions and study materials",
	"Study tips and academic success strategies",
	"Programming and career guidance for CS students",
	"University information: admission, facilities, departments and contacts",
}

// Boundary rejects out-of-domain questions and restates what the assistant
// is for.
type Boundary struct {
	store knowledge.Store
}

var _ Strategy = (*Boundary)(nil)

func NewBoundary(store knowledge.Store) *Boundary {
	return &Boundary{store: store}
}

func (s *Boundary) Name() string { return intent.StrategyBoundary }

func (s *Boundary) Respond(_ context.Context, req Request) (Result, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "I'm a specialised assistant for Computer Science students at %s, so I can only help with:\n\n", shortName(s.store))
	bullets(&b, scope)
	if topics := req.Analysis.Topics; len(topics) > 0 {
		fmt.Fprintf(&b, "Questions about %s are outside what I can help with.\n\n", strings.Join(topics, ", "))
	} else {
		b.WriteString("Topics like cooking, travel, sports or entertainment are outside what I can help with.\n\n")
	}
	b.WriteString("How can I help you with your CS studies?")
	return result(s.Name(), SourceTemplates, intent.BoundaryConfidence, b.String())
}

// General is the capability overview. It always answers, and the
// dispatcher uses it as the guaranteed fallback.
type General struct {
	store knowledge.Store
}

var _ Strategy = (*General)(nil)

func NewGeneral(store knowledge.Store) *General {
	return &General{store: store}
}

func (s *General) Name() string { return intent.StrategyGeneral }

func (s *General) Respond(_ context.Context, _ Request) (Result, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "I'm your assistant for Computer Science at %s. I can help you with:\n\n", shortName(s.store))
	bullets(&b, scope)

	var examples []string
	for _, c := range s.store.ListCourses(0) {
		examples = append(examples, c.Code)
		if len(examples) == 3 {
			break
		}
	}
	b.WriteString("Try asking:\n")
	if len(examples) > 0 {
		fmt.Fprintf(&b, "- \"Tell me about %s\"\n", examples[0])
		fmt.Fprintf(&b, "- \"Who teaches %s?\"\n", examples[len(examples)-1])
	}
	b.WriteString("- \"List 100 level courses\"\n")
	b.WriteString("- \"What are the admission requirements?\"\n\n")
	b.WriteString("What would you like to know?")
	return result(s.Name(), SourceTemplates, 0.70, b.String())
}
