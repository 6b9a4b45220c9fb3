package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bdobrica/futqa/common/environment"
	"github.com/bdobrica/futqa/internal/futqa/backend"
)

// Config holds application configuration. LoadConfig fills it from the
// environment; zero values mean "use the default" throughout.
type Config struct {
	// HTTPAddr is the listen address of the HTTP API (e.g. ":8080").
	// When empty the server is disabled.
	HTTPAddr string

	// DatabasePath is the SQLite file interactions are recorded in. When
	// empty interactions are only kept in memory.
	DatabasePath string

	// KnowledgePath is a YAML knowledge file replacing the embedded one.
	KnowledgePath string

	// MemorySize is the number of turns remembered per session.
	MemorySize int

	// MinAnswerLen is the dispatcher's acceptance threshold.
	MinAnswerLen int

	// FollowUpMinOverlap and FollowUpWindow tune follow-up detection.
	FollowUpMinOverlap int
	FollowUpWindow     int

	// SessionCooldown is the idle time after which a session is sealed.
	SessionCooldown time.Duration

	// Seed fixes the conversational template choice. Zero seeds randomly.
	Seed int64

	// BackendTimeout bounds one generative call.
	BackendTimeout time.Duration
	// BackendRateLimit caps generative calls per session per minute.
	BackendRateLimit int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GroqAPIKey    string
	GroqModel     string

	// RedisURL enables session snapshots when set.
	RedisURL string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() Config {
	return Config{
		HTTPAddr:           environment.StringOr("FUTQA_HTTP_ADDR", ":8080"),
		DatabasePath:       environment.StringOr("FUTQA_DB_PATH", "./futqa.db"),
		KnowledgePath:      environment.StringOr("FUTQA_KNOWLEDGE_PATH", ""),
		MemorySize:         environment.IntOr("FUTQA_MEMORY_SIZE", 10),
		MinAnswerLen:       environment.IntOr("FUTQA_MIN_ANSWER_LEN", 50),
		FollowUpMinOverlap: environment.IntOr("FUTQA_FOLLOWUP_MIN_OVERLAP", 2),
		FollowUpWindow:     environment.IntOr("FUTQA_FOLLOWUP_WINDOW", 3),
		SessionCooldown:    environment.DurationOr("FUTQA_SESSION_COOLDOWN", 30*time.Minute),
		Seed:               environment.Int64Or("FUTQA_SEED", 0),
		BackendTimeout:     environment.DurationOr("FUTQA_BACKEND_TIMEOUT", 8*time.Second),
		BackendRateLimit:   environment.IntOr("FUTQA_BACKEND_RATE_LIMIT", backend.DefaultRateLimit),
		OpenAIAPIKey:       environment.StringOr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      environment.StringOr("OPENAI_BASE_URL", ""),
		OpenAIModel:        environment.StringOr("OPENAI_MODEL", ""),
		GroqAPIKey:         environment.StringOr("GROQ_API_KEY", ""),
		GroqModel:          environment.StringOr("GROQ_MODEL", ""),
		RedisURL:           environment.StringOr("REDIS_URL", ""),
		LogLevel:           strings.ToLower(environment.StringOr("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(environment.StringOr("LOG_FORMAT", "text")),
	}
}

// Validate rejects settings that would make the engine misbehave rather
// than fall back to a default.
func (c Config) Validate() error {
	var errs []error
	if c.MemorySize < 0 {
		errs = append(errs, fmt.Errorf("memory size must not be negative, got %d", c.MemorySize))
	}
	if c.MinAnswerLen < 0 {
		errs = append(errs, fmt.Errorf("min answer length must not be negative, got %d", c.MinAnswerLen))
	}
	if c.FollowUpMinOverlap < 0 || c.FollowUpWindow < 0 {
		errs = append(errs, errors.New("follow-up overlap and window must not be negative"))
	}
	if c.SessionCooldown < 0 || c.BackendTimeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.BackendRateLimit < 0 {
		errs = append(errs, fmt.Errorf("backend rate limit must not be negative, got %d", c.BackendRateLimit))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		errs = append(errs, errors.New("redis url must start with redis:// or rediss://"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("app: invalid config: %w", err)
	}
	return nil
}

// Secrets returns the configured API keys, for log redaction.
func (c Config) Secrets() []string {
	var out []string
	for _, s := range []string{c.OpenAIAPIKey, c.GroqAPIKey} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
