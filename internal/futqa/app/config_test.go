package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"FUTQA_HTTP_ADDR", "FUTQA_MEMORY_SIZE", "FUTQA_SEED", "LOG_LEVEL", "OPENAI_API_KEY", "GROQ_API_KEY"} {
		t.Setenv(k, "")
	}
	c := LoadConfig()
	if c.HTTPAddr != ":8080" || c.MemorySize != 10 || c.MinAnswerLen != 50 {
		t.Errorf("defaults = %+v", c)
	}
	if c.FollowUpMinOverlap != 2 || c.FollowUpWindow != 3 || c.SessionCooldown != 30*time.Minute {
		t.Errorf("follow-up/session defaults = %+v", c)
	}
	if c.LogLevel != "info" || c.LogFormat != "text" {
		t.Errorf("logging defaults = %q %q", c.LogLevel, c.LogFormat)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("FUTQA_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("FUTQA_MEMORY_SIZE", "4")
	t.Setenv("FUTQA_SESSION_COOLDOWN", "5m")
	t.Setenv("FUTQA_SEED", "42")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GROQ_API_KEY", "gsk-secret")

	c := LoadConfig()
	if c.HTTPAddr != "127.0.0.1:9000" || c.MemorySize != 4 || c.SessionCooldown != 5*time.Minute || c.Seed != 42 {
		t.Errorf("config = %+v", c)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want lower-cased", c.LogLevel)
	}
	if got := c.Secrets(); len(got) != 1 || got[0] != "gsk-secret" {
		t.Errorf("Secrets = %v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative memory", func(c *Config) { c.MemorySize = -1 }, "memory size"},
		{"negative threshold", func(c *Config) { c.MinAnswerLen = -5 }, "min answer length"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
		{"bad redis", func(c *Config) { c.RedisURL = "localhost:6379" }, "redis url"},
		{"negative duration", func(c *Config) { c.BackendTimeout = -time.Second }, "durations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{}
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer
	logger := setupLogging(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}
