package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned by a SnapshotStore when no snapshot
// exists for the requested session.
var ErrSnapshotNotFound = errors.New("memory: snapshot not found")

// Snapshot is the persisted form of a session.
type Snapshot struct {
	ID        string    `json:"id"`
	Capacity  int       `json:"capacity"`
	Turns     []Turn    `json:"turns"`
	StartedAt time.Time `json:"started_at"`
	LastAt    time.Time `json:"last_at"`
}

// SnapshotStore persists sessions so they survive a restart.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	// Load returns ErrSnapshotNotFound when there is nothing stored.
	Load(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// SessionsConfig holds configuration for Sessions.
type SessionsConfig struct {
	// Capacity is the number of turns each session remembers.
	// Default: DefaultCapacity.
	Capacity int

	// Cooldown is the idle time after which a session is sealed and its
	// memory discarded. Default: 30 minutes.
	Cooldown time.Duration
}

// DefaultSessionsConfig returns a SessionsConfig with the documented
// defaults.
func DefaultSessionsConfig() SessionsConfig {
	return SessionsConfig{
		Capacity: DefaultCapacity,
		Cooldown: 30 * time.Minute,
	}
}

// Sessions gives every conversation session its own Memory. It is safe
// for concurrent use; calls for the same session are serialised.
type Sessions struct {
	mu        sync.Mutex
	config    SessionsConfig
	sessions  map[string]*session
	snapshots SnapshotStore
	logger    *slog.Logger
}

type session struct {
	mu        sync.Mutex // serialises turns within the session
	id        string
	mem       *Memory
	startedAt time.Time
	lastAt    time.Time
}

// NewSessions creates a session manager. snapshots may be nil, in which
// case sessions live only in process memory.
func NewSessions(cfg SessionsConfig, snapshots SnapshotStore, logger *slog.Logger) *Sessions {
	def := DefaultSessionsConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		config:    cfg,
		sessions:  make(map[string]*session),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Do runs fn with exclusive access to the memory of session id and returns
// the id used. An empty id starts a new session. A session idle for longer
// than the cooldown starts over with empty memory.
func (s *Sessions) Do(ctx context.Context, id string, fn func(*Memory)) string {
	return s.doAt(ctx, id, time.Now(), fn)
}

// doAt is the time-injectable core of Do.
func (s *Sessions) doAt(ctx context.Context, id string, now time.Time, fn func(*Memory)) string {
	sess := s.acquire(ctx, id, now)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.mem)
	s.save(ctx, sess, now)
	return sess.id
}

// acquire returns the live session for id, restoring or creating it.
func (s *Sessions) acquire(ctx context.Context, id string, now time.Time) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}

	sess := s.sessions[id]
	if sess == nil {
		sess = s.restore(ctx, id)
	}
	if sess != nil && now.Sub(sess.lastAt) > s.config.Cooldown {
		s.logger.Debug("memory: session went stale, starting over", "session_id", id)
		sess = nil
	}
	if sess == nil {
		sess = &session{id: id, mem: New(s.config.Capacity), startedAt: now}
	}
	sess.lastAt = now
	s.sessions[id] = sess
	return sess
}

// restore loads a snapshot into a session. Must be called with mu held.
func (s *Sessions) restore(ctx context.Context, id string) *session {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			s.logger.Warn("memory: load snapshot failed", "session_id", id, "err", err)
		}
		return nil
	}
	mem := New(s.config.Capacity)
	for _, t := range snap.Turns {
		mem.Append(t)
	}
	return &session{id: id, mem: mem, startedAt: snap.StartedAt, lastAt: snap.LastAt}
}

// save writes a snapshot of sess as of now. Must be called with sess.mu
// held; lastAt belongs to s.mu and is not read here.
func (s *Sessions) save(ctx context.Context, sess *session, now time.Time) {
	if s.snapshots == nil {
		return
	}
	s.mu.Lock()
	live := s.sessions[sess.id] == sess
	s.mu.Unlock()
	if !live {
		// Sealed or deleted while fn ran.
		return
	}
	snap := Snapshot{
		ID:        sess.id,
		Capacity:  sess.mem.Capacity(),
		Turns:     sess.mem.Turns(),
		StartedAt: sess.startedAt,
		LastAt:    now,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Warn("memory: save snapshot failed", "session_id", sess.id, "err", err)
	}
}

// Get returns a copy of the turns of session id. ok is false when the
// session is unknown or idle for longer than the cooldown.
func (s *Sessions) Get(ctx context.Context, id string) (turns []Turn, summary string, ok bool) {
	return s.getAt(ctx, id, time.Now())
}

func (s *Sessions) getAt(ctx context.Context, id string, now time.Time) ([]Turn, string, bool) {
	s.mu.Lock()
	sess := s.sessions[id]
	if sess == nil {
		sess = s.restore(ctx, id)
	}
	if sess != nil && now.Sub(sess.lastAt) > s.config.Cooldown {
		sess = nil
	}
	s.mu.Unlock()
	if sess == nil {
		return nil, "", false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.mem.Turns(), sess.mem.Summary(), true
}

// Delete forgets session id, including its snapshot. It reports whether
// the session was live in this process.
func (s *Sessions) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	_, live := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, id); err != nil {
			s.logger.Warn("memory: delete snapshot failed", "session_id", id, "err", err)
		}
	}
	return live
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SealExpired drops every session idle for longer than the cooldown
// relative to now and returns their ids.
func (s *Sessions) SealExpired(ctx context.Context, now time.Time) []string {
	s.mu.Lock()
	var sealed []string
	for id, sess := range s.sessions {
		if now.Sub(sess.lastAt) > s.config.Cooldown {
			sealed = append(sealed, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	if s.snapshots != nil {
		for _, id := range sealed {
			if err := s.snapshots.Delete(ctx, id); err != nil {
				s.logger.Warn("memory: delete snapshot failed", "session_id", id, "err", err)
			}
		}
	}
	return sealed
}

// Run seals expired sessions every interval until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if sealed := s.SealExpired(ctx, now); len(sealed) > 0 {
				s.logger.Info("memory: sealed idle sessions", "count", len(sealed))
			}
		}
	}
}
