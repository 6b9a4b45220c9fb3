// Package app wires the FUT Minna QA engine to its outer surfaces: the
// knowledge file, the interaction database, the generative backends, the
// session manager and the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bdobrica/futqa/common/retry"
	"github.com/bdobrica/futqa/internal/futqa/backend"
	"github.com/bdobrica/futqa/internal/futqa/engine"
	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/learning"
	"github.com/bdobrica/futqa/internal/futqa/memory"
	"github.com/bdobrica/futqa/internal/futqa/store"
)

// sealInterval is how often idle sessions are swept.
const sealInterval = time.Minute

// App is the FUT Minna QA application.
type App struct {
	config    Config
	knowledge *knowledge.Catalog
	store     *store.Store
	redis     *redis.Client
	generator *backend.Generator
	learning  *learning.Logger
	engine    *engine.Engine
	sessions  *memory.Sessions
	server    *Server
	logger    *slog.Logger
}

// New builds the application from config. Optional parts (database, Redis,
// generative providers, HTTP server) are skipped when not configured.
func New(ctx context.Context, config Config, logger *slog.Logger) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{config: config, logger: logger}

	var err error
	if config.KnowledgePath != "" {
		a.knowledge, err = knowledge.Load(config.KnowledgePath)
	} else {
		a.knowledge, err = knowledge.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("app: load knowledge: %w", err)
	}
	logger.Info("knowledge loaded", "stats", a.knowledge.Stats())

	var sink learning.Sink
	if config.DatabasePath != "" {
		a.store, err = store.New(config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		sink = learning.NewSQLiteSink(a.store)
	}
	a.learning = learning.NewLogger(sink, learning.Config{}, logger)

	var snapshots memory.SnapshotStore
	if config.RedisURL != "" {
		a.redis, err = memory.DialRedis(ctx, config.RedisURL)
		if err != nil {
			a.Close(context.Background())
			return nil, fmt.Errorf("app: %w", err)
		}
		snapshots = memory.NewRedisSnapshots(a.redis, "", config.SessionCooldown)
	}
	a.sessions = memory.NewSessions(memory.SessionsConfig{
		Capacity: config.MemorySize,
		Cooldown: config.SessionCooldown,
	}, snapshots, logger)

	a.generator = newGenerator(config, logger)

	a.engine, err = engine.New(engine.Config{
		MinAnswerLen: config.MinAnswerLen,
		FollowUp: intent.FollowUpConfig{
			MinOverlap: config.FollowUpMinOverlap,
			Window:     config.FollowUpWindow,
		},
		Seed:           uint64(config.Seed),
		BackendTimeout: config.BackendTimeout,
	}, engine.Options{
		Store:    a.knowledge,
		Backend:  a.generator,
		Learning: a.learning,
		Logger:   logger,
	})
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}

	if config.HTTPAddr != "" {
		var counter interactionCounter
		if a.store != nil {
			counter = a.store
		}
		a.server = NewServer(config.HTTPAddr, a.engine, a.sessions, counter, logger)
	}
	return a, nil
}

// newGenerator builds the provider chain from whichever API keys are
// configured: OpenAI first, then Groq.
func newGenerator(config Config, logger *slog.Logger) *backend.Generator {
	var providers []backend.Provider
	if config.OpenAIAPIKey != "" {
		providers = append(providers, backend.NewOpenAI(backend.Config{
			APIKey:  config.OpenAIAPIKey,
			BaseURL: config.OpenAIBaseURL,
			Model:   config.OpenAIModel,
		}))
	}
	if config.GroqAPIKey != "" {
		providers = append(providers, backend.NewGroq(config.GroqAPIKey, config.GroqModel))
	}
	chain := backend.NewChain(retry.DefaultConfig, logger, providers...)
	g := backend.NewGenerator(chain, backend.GeneratorConfig{
		Timeout: config.BackendTimeout,
		Limiter: backend.NewRateLimiter(config.BackendRateLimit, time.Minute),
		Secrets: config.Secrets(),
	}, logger)
	logger.Info("generative backend", "provider", g.Name())
	return g
}

// Engine returns the answering engine.
func (a *App) Engine() *engine.Engine { return a.engine }

// Sessions returns the session manager.
func (a *App) Sessions() *memory.Sessions { return a.sessions }

// Store returns the interaction store, or nil when no database is
// configured.
func (a *App) Store() *store.Store { return a.store }

// Run serves the HTTP API and sweeps idle sessions until ctx is cancelled
// or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.sessions.Run(ctx, sealInterval)
	})
	if a.server != nil {
		g.Go(func() error {
			return a.server.Run(ctx)
		})
	}
	a.logger.Info("futqa is running")
	return g.Wait()
}

// Close flushes the learning logger and releases the database and Redis
// connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.learning != nil {
		if err := a.learning.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush learning log: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}
