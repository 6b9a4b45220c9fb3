package engine

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/bdobrica/futqa/common/trace"
	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/strategy"
)

// DefaultMinAnswerLen is the number of characters an answer must exceed
// to be accepted.
const DefaultMinAnswerLen = 50

// lastResort is returned when even the general strategy is missing or
// fails.
const lastResort = "I'm the FUT Minna Computer Science assistant. Ask me about courses, lecturers, materials, study tips or admission."

// Dispatcher runs the strategies named in an analysis' priority list and
// returns the first acceptable answer.
type Dispatcher struct {
	strategies   *strategy.Set
	minAnswerLen int
	logger       *slog.Logger
}

// NewDispatcher returns a Dispatcher over set. A non-positive minAnswerLen
// uses DefaultMinAnswerLen.
func NewDispatcher(set *strategy.Set, minAnswerLen int, logger *slog.Logger) *Dispatcher {
	if minAnswerLen <= 0 {
		minAnswerLen = DefaultMinAnswerLen
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{strategies: set, minAnswerLen: minAnswerLen, logger: logger}
}

// Dispatch always returns a result. Strategies are tried in priority order;
// the first whose answer is longer than the threshold wins. When none is
// accepted the general strategy answers without the threshold.
func (d *Dispatcher) Dispatch(ctx context.Context, req strategy.Request) strategy.Result {
	logger := trace.Logger(ctx, d.logger)
	for _, name := range req.Analysis.Priority {
		st, ok := d.strategies.Get(name)
		if !ok {
			logger.Debug("engine: strategy not registered", "strategy", name)
			continue
		}
		res, ok := d.try(ctx, st, req, logger)
		if !ok {
			continue
		}
		if n := len(strings.TrimSpace(res.Answer)); n <= d.minAnswerLen {
			logger.Debug("engine: answer below threshold", "strategy", name, "length", n)
			continue
		}
		return res
	}
	return d.fallback(ctx, req, logger)
}

func (d *Dispatcher) fallback(ctx context.Context, req strategy.Request, logger *slog.Logger) strategy.Result {
	if st, ok := d.strategies.Get(intent.StrategyGeneral); ok {
		if res, ok := d.try(ctx, st, req, logger); ok && strings.TrimSpace(res.Answer) != "" {
			return res
		}
	}
	return strategy.Result{Answer: lastResort, Confidence: 0.5, Strategy: intent.StrategyGeneral, Source: strategy.SourceTemplates}
}

// try runs one strategy, turning a panic into a declined answer.
func (d *Dispatcher) try(ctx context.Context, st strategy.Strategy, req strategy.Request, logger *slog.Logger) (res strategy.Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("engine: strategy panicked",
				"strategy", st.Name(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			res, ok = strategy.Result{}, false
		}
	}()
	res, ok = st.Respond(ctx, req)
	if ok && res.Strategy == "" {
		res.Strategy = st.Name()
	}
	return res, ok
}
