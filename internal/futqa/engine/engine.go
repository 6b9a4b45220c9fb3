// Package engine answers one utterance at a time: it classifies the
// utterance against the conversation so far, runs the prioritised response
// strategies, appends the exchange to the session's memory and records the
// interaction.
//
// Ask never returns an error. Every failure inside the pipeline degrades to
// a lower-priority strategy and, ultimately, to the general capability
// overview.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bdobrica/futqa/common/trace"
	"github.com/bdobrica/futqa/internal/futqa/backend"
	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/learning"
	"github.com/bdobrica/futqa/internal/futqa/memory"
	"github.com/bdobrica/futqa/internal/futqa/strategy"
)

// summaryLen caps the answer summary stored in a memory turn.
const summaryLen = 160

// Config holds the tunable thresholds of the pipeline.
type Config struct {
	// MinAnswerLen is the length a strategy's answer must exceed to be
	// accepted. Default: 50.
	MinAnswerLen int
	// FollowUp tunes follow-up detection.
	FollowUp intent.FollowUpConfig
	// Seed fixes the conversational template choice. Zero seeds randomly.
	Seed uint64
	// BackendTimeout bounds one generative call.
	BackendTimeout time.Duration
}

// Options are the collaborators of an Engine. Only Store is required.
type Options struct {
	Store knowledge.Store
	// Backend powers the generative strategy. Nil disables it.
	Backend strategy.Completer
	// Learning receives every interaction. Nil records nothing.
	Learning *learning.Logger
	// Strategies replaces the default strategy set.
	Strategies *strategy.Set
	// Rules replaces the default classification rule table.
	Rules  []intent.Rule
	Logger *slog.Logger
}

// Response is the outcome of one Ask.
type Response struct {
	Answer        string          `json:"answer"`
	Confidence    float64         `json:"confidence"`
	Strategy      string          `json:"strategy_used"`
	Source        string          `json:"source,omitempty"`
	Analysis      intent.Analysis `json:"analysis"`
	InteractionID string          `json:"interaction_id"`
}

// Engine is safe for concurrent use across sessions. A single Memory must
// not be passed to concurrent Ask calls.
type Engine struct {
	cfg        Config
	store      knowledge.Store
	classifier *intent.Classifier
	strategies *strategy.Set
	dispatcher *Dispatcher
	backend    strategy.Completer
	learning   *learning.Logger
	logger     *slog.Logger
	started    time.Time
	now        func() time.Time
}

// New builds an Engine.
func New(cfg Config, opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: knowledge store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinAnswerLen <= 0 {
		cfg.MinAnswerLen = DefaultMinAnswerLen
	}

	set := opts.Strategies
	if set == nil {
		set = strategy.Defaults(strategy.Deps{
			Store:          opts.Store,
			Rand:           strategy.NewRand(cfg.Seed),
			Backend:        opts.Backend,
			BackendTimeout: cfg.BackendTimeout,
		})
	}

	return &Engine{
		cfg:   cfg,
		store: opts.Store,
		classifier: intent.NewClassifier(opts.Store, intent.Options{
			Rules:    opts.Rules,
			FollowUp: cfg.FollowUp,
			Logger:   logger,
		}),
		strategies: set,
		dispatcher: NewDispatcher(set, cfg.MinAnswerLen, logger),
		backend:    opts.Backend,
		learning:   opts.Learning,
		logger:     logger,
		started:    time.Now(),
		now:        time.Now,
	}, nil
}

// Analyze classifies text against mem without answering it or changing
// mem. A nil mem means no prior turns.
func (e *Engine) Analyze(text string, mem *memory.Memory) intent.Analysis {
	var recent []intent.Turn
	if mem != nil {
		recent = mem.Context()
	}
	return e.classifier.Classify(text, recent)
}

// Ask answers text within the conversation held by mem and appends the
// exchange to it. A nil mem answers without any conversation context.
// The session ID for rate limiting and recording is taken from ctx (see
// backend.WithSession).
func (e *Engine) Ask(ctx context.Context, text string, mem *memory.Memory) Response {
	start := e.now()
	traceID := trace.FromContext(ctx)
	if traceID == "" {
		traceID = trace.GenerateID()
		ctx = trace.WithTraceID(ctx, traceID)
	}
	logger := trace.Logger(ctx, e.logger)
	if mem == nil {
		mem = memory.New(0)
	}
	sessionID := backend.SessionFromContext(ctx)

	a := e.Analyze(text, mem)
	logger.Debug("engine: classified",
		"category", a.Category,
		"rule", a.Rule,
		"entities", a.Entities,
		"priority", a.Priority,
	)

	res := e.dispatcher.Dispatch(ctx, strategy.Request{
		Utterance: text,
		Analysis:  a,
		Recent:    mem.Turns(),
		SessionID: sessionID,
	})

	at := e.now()
	mem.Append(memory.Turn{
		Utterance:  text,
		Analysis:   a,
		Summary:    summarize(res.Answer),
		Strategy:   res.Strategy,
		Confidence: res.Confidence,
		At:         at,
	})

	id := uuid.NewString()
	if e.learning != nil {
		e.learning.Log(ctx, learning.Interaction{
			ID:         id,
			TraceID:    traceID,
			SessionID:  sessionID,
			At:         at,
			Question:   text,
			Answer:     res.Answer,
			Strategy:   res.Strategy,
			Category:   string(a.Category),
			Confidence: res.Confidence,
			Entities:   a.Entities,
		})
	}

	logger.Info("engine: answered",
		"interaction_id", id,
		"category", a.Category,
		"strategy", res.Strategy,
		"confidence", res.Confidence,
		"duration", at.Sub(start),
	)
	return Response{
		Answer:        res.Answer,
		Confidence:    res.Confidence,
		Strategy:      res.Strategy,
		Source:        res.Source,
		Analysis:      a,
		InteractionID: id,
	}
}

// Feedback attaches free-text feedback to an earlier interaction.
func (e *Engine) Feedback(ctx context.Context, interactionID, feedback string) error {
	if e.learning == nil {
		return learning.ErrUnknownInteraction
	}
	return e.learning.Feedback(ctx, interactionID, feedback)
}

// Status describes what the engine has loaded.
type Status struct {
	Courses        int             `json:"courses"`
	Knowledge      map[string]int  `json:"knowledge,omitempty"`
	Rules          int             `json:"rules"`
	Strategies     []string        `json:"strategies"`
	Backend        string          `json:"backend,omitempty"`
	BackendEnabled bool            `json:"backend_enabled"`
	Uptime         string          `json:"uptime"`
	Learning       *learning.Stats `json:"learning,omitempty"`
}

// Status reports the engine's loaded knowledge, rules and strategies.
func (e *Engine) Status() Status {
	s := Status{
		Courses:    len(e.store.ListCourses(0)),
		Rules:      e.classifier.RuleCount(),
		Strategies: e.strategies.Names(),
		Uptime:     e.now().Sub(e.started).Round(time.Second).String(),
	}
	if st, ok := e.store.(interface{ Stats() map[string]int }); ok {
		s.Knowledge = st.Stats()
	}
	if e.backend != nil {
		s.BackendEnabled = e.backend.Enabled()
		if named, ok := e.backend.(interface{ Name() string }); ok {
			s.Backend = named.Name()
		}
	}
	if e.learning != nil {
		ls := e.learning.Stats()
		s.Learning = &ls
	}
	return s
}

// summarize reduces an answer to the first line of text, without markdown
// markers, for storage in memory.
func summarize(answer string) string {
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.NewReplacer("#", "", "*", "", "_", "").Replace(line))
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > summaryLen {
			return strings.TrimSpace(string(r[:summaryLen-3])) + "..."
		}
		return line
	}
	return ""
}
