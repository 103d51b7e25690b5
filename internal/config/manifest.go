package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrManifestNoBackends     = errors.New("manifest: backends list is empty")
	ErrManifestUnknownKind    = errors.New("manifest: unknown backend kind")
	ErrManifestEmptyModelID   = errors.New("manifest: backend model_id is empty")
	ErrManifestUnknownBackoff = errors.New("manifest: unknown retry backoff")
)

// Manifest is the top-level pipeline manifest file.
type Manifest struct {
	Pipeline  PipelineSettings `yaml:"pipeline"`
	Strategy  StrategyConfig   `yaml:"strategy"`
	Backends  []BackendBinding `yaml:"backends"`
	Observers ObserverConfig   `yaml:"observers"`
}

// PipelineSettings configures the runtime pipeline.
type PipelineSettings struct {
	Timeout     string      `yaml:"timeout"`
	Workers     int         `yaml:"workers"`
	MaxTokens   int         `yaml:"max_tokens"`
	Temperature *float64    `yaml:"temperature"`
	Retry       RetryConfig `yaml:"retry"`
}

// RetryConfig declares retry options for backend invocations.
type RetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Backoff     string `yaml:"backoff"`
}

// StrategyConfig selects the active retrieval strategy and its corpus.
type StrategyConfig struct {
	Active    string           `yaml:"active"`
	Documents []DocumentConfig `yaml:"documents"`
}

// DocumentConfig is one corpus entry.
type DocumentConfig struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// BackendBinding declares one backend registration entry.
type BackendBinding struct {
	ModelID    string `yaml:"model_id"`
	Kind       string `yaml:"kind"`
	EntryPoint string `yaml:"entry_point"`
	BaseURL    string `yaml:"base_url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Model      string `yaml:"model"`
}

// ObserverConfig toggles the built-in observers.
type ObserverConfig struct {
	Console      bool   `yaml:"console"`
	AuditLogPath string `yaml:"audit_log_path"`
}

const (
	KindOpenAI    = "openai"
	KindAnthropic = "anthropic"
)

const (
	StrategyStatic  = "static"
	StrategyKeyword = "keyword"
)

// LoadManifest parses and validates a YAML manifest.
func LoadManifest(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %q: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: unmarshal %q: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks structural constraints and fills defaults.
func (m *Manifest) Validate() error {
	if len(m.Backends) == 0 {
		return ErrManifestNoBackends
	}
	for i := range m.Backends {
		b := &m.Backends[i]
		if b.ModelID == "" {
			return ErrManifestEmptyModelID
		}
		switch b.Kind {
		case KindOpenAI:
			if b.EntryPoint == "" {
				b.EntryPoint = "complete"
			}
		case KindAnthropic:
			if b.EntryPoint == "" {
				b.EntryPoint = "generate"
			}
		default:
			return fmt.Errorf("%w: %q", ErrManifestUnknownKind, b.Kind)
		}
	}

	switch m.Strategy.Active {
	case "", StrategyStatic, StrategyKeyword:
	default:
		return fmt.Errorf("manifest: unknown strategy %q", m.Strategy.Active)
	}

	switch m.Pipeline.Retry.Backoff {
	case "", "linear", "exponential", "exponential_jitter":
	default:
		return fmt.Errorf("%w: %q", ErrManifestUnknownBackoff, m.Pipeline.Retry.Backoff)
	}

	if m.Pipeline.Timeout != "" {
		if _, err := time.ParseDuration(m.Pipeline.Timeout); err != nil {
			return fmt.Errorf("manifest: timeout: %w", err)
		}
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, zero when unset.
func (s PipelineSettings) TimeoutDuration() time.Duration {
	if s.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// TemperatureOrDefault resolves the optional temperature field.
func (s PipelineSettings) TemperatureOrDefault() float64 {
	if s.Temperature == nil {
		return 1.0
	}
	return *s.Temperature
}
