package learning

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bdobrica/futqa/common/trace"
)

// Config tunes a Logger.
type Config struct {
	// Keep is how many interactions are held in memory for Stats.
	// Default: 100.
	Keep int
	// Buffer is the capacity of the queue to the sink. When full, records
	// are dropped and counted. Default: 256.
	Buffer int
	// SinkTimeout bounds one sink call. Default: 5 seconds.
	SinkTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Keep <= 0 {
		c.Keep = 100
	}
	if c.Buffer <= 0 {
		c.Buffer = 256
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = 5 * time.Second
	}
	return c
}

// maxPatterns caps each list of remembered successful questions.
const maxPatterns = 50

type job struct {
	record   *Interaction
	id       string
	feedback string
	traceID  string
}

// Logger keeps the recent interactions in memory and forwards every record
// to a Sink from a background goroutine. It is safe for concurrent use.
type Logger struct {
	sink   Sink
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	recent   []Interaction
	total    int
	dropped  int
	patterns map[string][]string

	queue     chan job
	done      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// NewLogger starts a Logger writing to sink. A nil sink discards records.
// Close must be called to stop the background goroutine.
func NewLogger(sink Sink, cfg Config, logger *slog.Logger) *Logger {
	if sink == nil {
		sink = NoopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	l := &Logger{
		sink:     sink,
		cfg:      cfg,
		logger:   logger,
		patterns: make(map[string][]string),
		queue:    make(chan job, cfg.Buffer),
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

// Log records it. Pattern and Success are derived when unset; the sink
// write happens later and never blocks the caller.
func (l *Logger) Log(ctx context.Context, it Interaction) {
	if it.At.IsZero() {
		it.At = time.Now()
	}
	if it.Pattern.QuestionType == "" {
		it.Pattern = ExtractPattern(it.Question)
	}
	it.Success = Successful(it.Answer, it.Strategy)
	if it.TraceID == "" {
		it.TraceID = trace.FromContext(ctx)
	}

	l.mu.Lock()
	l.total++
	l.recent = append(l.recent, it)
	if over := len(l.recent) - l.cfg.Keep; over > 0 {
		l.recent = slices.Delete(l.recent, 0, over)
	}
	if it.Success {
		l.rememberPattern(it)
	}
	l.mu.Unlock()

	rec := it
	l.enqueue(job{record: &rec, traceID: it.TraceID})
}

// rememberPattern keeps the wording of successful course and career
// questions. Caller holds l.mu.
func (l *Logger) rememberPattern(it Interaction) {
	var group string
	switch it.Pattern.QuestionType {
	case CourseInquiry:
		group = "courses"
	case CareerInquiry:
		group = "careers"
	default:
		return
	}
	q := strings.ToLower(strings.TrimSpace(it.Question))
	if slices.Contains(l.patterns[group], q) {
		return
	}
	l.patterns[group] = append(l.patterns[group], q)
	if over := len(l.patterns[group]) - maxPatterns; over > 0 {
		l.patterns[group] = slices.Delete(l.patterns[group], 0, over)
	}
}

// Feedback attaches feedback to an interaction. For interactions still held
// in memory the sink is updated asynchronously, after the record itself;
// older ones are looked up in the sink directly.
func (l *Logger) Feedback(ctx context.Context, id, feedback string) error {
	l.mu.Lock()
	found := false
	for i := range l.recent {
		if l.recent[i].ID == id {
			l.recent[i].Feedback = feedback
			found = true
			break
		}
	}
	l.mu.Unlock()

	if found {
		l.enqueue(job{id: id, feedback: feedback, traceID: trace.FromContext(ctx)})
		return nil
	}
	return l.sink.Feedback(ctx, id, feedback)
}

func (l *Logger) enqueue(j job) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.dropped++
		return
	}
	select {
	case l.queue <- j:
	default:
		l.dropped++
		l.logger.Warn("learning: sink queue full, dropping record", "trace_id", j.traceID)
	}
}

func (l *Logger) run() {
	defer close(l.done)
	for j := range l.queue {
		l.write(j)
	}
}

func (l *Logger) write(j job) {
	ctx, cancel := context.WithTimeout(trace.WithTraceID(context.Background(), j.traceID), l.cfg.SinkTimeout)
	defer cancel()
	logger := trace.Logger(ctx, l.logger)

	if j.record != nil {
		if err := l.sink.Record(ctx, *j.record); err != nil {
			logger.Warn("learning: sink record failed", "interaction_id", j.record.ID, "err", err)
		}
		return
	}
	if err := l.sink.Feedback(ctx, j.id, j.feedback); err != nil && !errors.Is(err, ErrUnknownInteraction) {
		logger.Warn("learning: sink feedback failed", "interaction_id", j.id, "err", err)
	}
}

// Close stops accepting records and waits for queued ones to reach the
// sink, or for ctx to end.
func (l *Logger) Close(ctx context.Context) error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()
	})
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recent returns up to n of the most recent interactions, oldest first.
// n <= 0 returns all that are held.
func (l *Logger) Recent(n int) []Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.recent) {
		n = len(l.recent)
	}
	return slices.Clone(l.recent[len(l.recent)-n:])
}

// Stats summarises the interactions held in memory.
type Stats struct {
	Total         int                 `json:"total"`
	Window        int                 `json:"window"`
	Successful    int                 `json:"successful"`
	SuccessRate   float64             `json:"success_rate"`
	WithFeedback  int                 `json:"with_feedback"`
	Dropped       int                 `json:"dropped"`
	ByStrategy    map[string]int      `json:"by_strategy"`
	ByCategory    map[string]int      `json:"by_category"`
	QuestionTypes map[string]int      `json:"question_types"`
	Patterns      map[string][]string `json:"successful_patterns,omitempty"`
}

// Stats aggregates the in-memory window. Total counts every interaction
// logged since start.
func (l *Logger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{
		Total:         l.total,
		Window:        len(l.recent),
		Dropped:       l.dropped,
		ByStrategy:    map[string]int{},
		ByCategory:    map[string]int{},
		QuestionTypes: map[string]int{},
	}
	for _, it := range l.recent {
		s.ByStrategy[it.Strategy]++
		s.ByCategory[it.Category]++
		s.QuestionTypes[it.Pattern.QuestionType]++
		if it.Success {
			s.Successful++
		}
		if it.Feedback != "" {
			s.WithFeedback++
		}
	}
	if s.Window > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Window)
	}
	if len(l.patterns) > 0 {
		s.Patterns = make(map[string][]string, len(l.patterns))
		for k, v := range l.patterns {
			s.Patterns[k] = slices.Clone(v)
		}
	}
	return s
}
