package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
)

// Config holds settings shared by all subcommands
type Config struct {
	Addr       string
	Skill      float64
	ThinkDelay time.Duration
	SessionTTL time.Duration
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// DefaultConfig returns a Config with defaults taken from the environment
func DefaultConfig() *Config {
	return &Config{
		Addr:       getEnvOrDefault("TTT_ADDR", ":8080"),
		Skill:      getEnvFloat("TTT_SKILL", ai.DefaultSkill),
		ThinkDelay: getEnvDuration("TTT_THINK_DELAY", app.DefaultThinkDelay),
		SessionTTL: getEnvDuration("TTT_SESSION_TTL", time.Hour),
		LogLevel:   getEnvOrDefault("TTT_LOG_LEVEL", "info"),
		LogFormat:  getEnvOrDefault("TTT_LOG_FORMAT", "text"),
		LogFile:    os.Getenv("TTT_LOG_FILE"),
	}
}

// Validate checks values that flags and env cannot constrain
func (c *Config) Validate() error {
	if !(c.Skill >= 0 && c.Skill <= 1) {
		return fmt.Errorf("skill must be within [0, 1], got %v", c.Skill)
	}
	if c.ThinkDelay < 0 {
		return fmt.Errorf("think delay must not be negative, got %v", c.ThinkDelay)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative, got %v", c.SessionTTL)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// NewLogger builds the process logger writing to w
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
