package strategy

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/lexicon"
)

// Rand picks template variants. It is the engine's only shared mutable
// state across sessions, so it is guarded by a mutex.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a Rand seeded with seed. A zero seed picks a random one.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns one element of pool.
func (r *Rand) Pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.r.IntN(len(pool))]
}

// Template pools. Every entry is long enough to pass the dispatcher's
// acceptance threshold.
var (
	greetings = []string{
		"Hello! I'm your FUT Minna Computer Science assistant. I can help with courses, lecturers, materials, study tips and admission. How can I help you today?",
		"Hi there! Ask me anything about Computer Science at FUT Minna: course codes, lecturers, past questions, career advice and more.",
		"Hey! I'm here to help you get through your CS journey at FUT Minna. What would you like to know?",
	}
	thanks = []string{
		"You're very welcome! I'm here to help you succeed in your CS studies. Feel free to ask me anything else.",
		"My pleasure! Helping FUT Minna CS students is what I do. What else can I help you with?",
		"Glad I could help! Come back any time you have questions about your courses or the university.",
	}
	farewells = []string{
		"Goodbye! It was great helping you today. Good luck with your Computer Science studies at FUT Minna.",
		"See you later! Keep up the good work, and come back any time you need help with your courses.",
		"Take care! I hope I've been helpful. Best of luck on your CS journey at FUT Minna.",
	}
	smallTalk = []string{
		"I'm doing great, thanks for asking! I'm the FUT Minna CS assistant and I'm ready to help with courses, materials or anything about the university.",
		"All good here! I'm your Computer Science assistant for FUT Minna. What can I help you with today?",
	}
)

// Conversational answers greetings, thanks, farewells and small talk from
// fixed pools of templates.
type Conversational struct {
	rng *Rand
}

var _ Strategy = (*Conversational)(nil)

// NewConversational uses rng to choose templates; nil seeds one randomly.
func NewConversational(rng *Rand) *Conversational {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Conversational{rng: rng}
}

func (s *Conversational) Name() string { return intent.StrategyConversational }

func (s *Conversational) Respond(_ context.Context, req Request) (Result, bool) {
	var pool []string
	switch text := req.Utterance; {
	case lexicon.Greeting.Match(text):
		pool = greetings
	case lexicon.Thanks.Match(text):
		pool = thanks
	case lexicon.Farewell.Match(text):
		pool = farewells
	case lexicon.SmallTalk.Match(text):
		pool = smallTalk
	default:
		return Result{}, false
	}
	return result(s.Name(), SourceTemplates, 0.95, s.rng.Pick(pool))
}

// Adaptive answers in the register the student wrote in. Neutral wording
// gets no answer so the next strategy can run.
type Adaptive struct{}

var _ Strategy = Adaptive{}

func (Adaptive) Name() string { return intent.StrategyAdaptive }

func (Adaptive) Respond(_ context.Context, req Request) (Result, bool) {
	var answer string
	switch req.Analysis.Style {
	case intent.Colloquial:
		answer = "How far! Wetin you wan know about Computer Science for FUT Minna? I fit help you with course info, lecturers, materials and how to pass your exams. Just yarn me wetin you dey find."
	case intent.Casual:
		answer = "Hey! What's up with your CS studies? I can help with courses, lecturers, career stuff, study tips and all things Computer Science at FUT Minna. What do you need?"
	case intent.Formal:
		answer = "Good day. I would be pleased to assist with your enquiries about Computer Science at the Federal University of Technology, Minna. Please let me know what information you require."
	default:
		return Result{}, false
	}
	switch req.Analysis.UserType {
	case intent.StrugglingStudent:
		answer += "\n\nIf a course is giving you trouble, don't worry: many students recover well. Ask me for study tips or past questions for that course."
	case intent.NewStudent:
		answer += "\n\nNew to the department? A good place to start is \"list 100 level courses\"."
	}
	return result(intent.StrategyAdaptive, SourceTemplates, 0.85, answer)
}
