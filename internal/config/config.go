package config

import (
	"os"
	"strconv"
	"time"
)

// Settings is the resolved runtime configuration for one pipeline.
type Settings struct {
	Workers   int
	MaxTokens int
	Timeout   time.Duration
}

// FromEnv loads baseline runtime settings from environment with safe
// defaults. Manifest values, when present, win over these.
func FromEnv() Settings {
	s := Settings{
		Workers:   4,
		MaxTokens: 100,
		Timeout:   30 * time.Second,
	}

	if v := os.Getenv("PROMPTPIPE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Workers = n
		}
	}
	if v := os.Getenv("PROMPTPIPE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxTokens = n
		}
	}
	if v := os.Getenv("PROMPTPIPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.Timeout = d
		}
	}

	return s
}
