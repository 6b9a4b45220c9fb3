package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bdobrica/futqa/internal/futqa/intent"
)

// Completer is the generative backend as seen by the strategies. It
// reports false on any failure, timeout or rate limit.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, prompt, system string, timeout time.Duration) (string, bool)
}

const generativeSystem = `You are the Computer Science assistant of the Federal University of Technology, Minna (FUT Minna), School of ICT.
Answer questions from FUT Minna students about computer science courses, programming, study skills, careers and university life.
Be accurate and concise. If you are not sure about a FUT-specific fact (names, dates, fees), say so and suggest asking the department.
Politely decline anything unrelated to computer science or the university.`

// contextTurns is how many earlier turns are quoted in the prompt.
const contextTurns = 3

// Generative is the last-resort strategy: it asks the generative backend,
// giving it the recent conversation as context.
type Generative struct {
	backend Completer
	timeout time.Duration
}

var _ Strategy = (*Generative)(nil)

// NewGenerative wraps backend, which may be nil. A zero timeout uses the
// backend's default.
func NewGenerative(backend Completer, timeout time.Duration) *Generative {
	return &Generative{backend: backend, timeout: timeout}
}

func (s *Generative) Name() string { return intent.StrategyGenerative }

func (s *Generative) Respond(ctx context.Context, req Request) (Result, bool) {
	if s.backend == nil || !s.backend.Enabled() {
		return Result{}, false
	}
	out, ok := s.backend.Complete(ctx, buildPrompt(req), generativeSystem, s.timeout)
	if !ok {
		return Result{}, false
	}
	return result(s.Name(), SourceGenerative, 0.75, out)
}

func buildPrompt(req Request) string {
	var b strings.Builder
	recent := req.Recent
	if len(recent) > contextTurns {
		recent = recent[len(recent)-contextTurns:]
	}
	if len(recent) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "Student: %s\n", t.Utterance)
			if t.Summary != "" {
				fmt.Fprintf(&b, "Assistant (summary): %s\n", t.Summary)
			}
		}
		b.WriteString("\n")
	}
	if e := req.Analysis.ContextEntities; len(e) > 0 && len(req.Analysis.Entities) == 0 {
		fmt.Fprintf(&b, "The student was last asking about: %s\n\n", strings.Join(e, ", "))
	}
	fmt.Fprintf(&b, "Question: %s", strings.TrimSpace(req.Utterance))
	return b.String()
}
