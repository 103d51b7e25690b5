package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/your-org/promptpipe/internal/config"
	"github.com/your-org/promptpipe/internal/metrics"
	"github.com/your-org/promptpipe/internal/observers"
	"github.com/your-org/promptpipe/internal/pipeline"
	"github.com/your-org/promptpipe/internal/retry"
	"github.com/your-org/promptpipe/pkg/backend"
	"github.com/your-org/promptpipe/pkg/backend/anthropic"
	"github.com/your-org/promptpipe/pkg/backend/openai"
	"github.com/your-org/promptpipe/pkg/retrieval"
)

// Build assembles a pipeline from a validated manifest. Env settings fill
// whatever the manifest leaves unset.
func Build(m config.Manifest, env config.Settings, out io.Writer) (*pipeline.Pipeline, *metrics.CounterRecorder, error) {
	reg := backend.NewRegistry()
	for _, b := range m.Backends {
		cl, err := newBackend(b)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Register(b.ModelID, cl, b.EntryPoint); err != nil {
			return nil, nil, fmt.Errorf("register %s: %w", b.ModelID, err)
		}
	}

	strategies := retrieval.NewContext(newStrategy(m.Strategy))
	counter := metrics.NewCounterRecorder()

	opts := pipeline.Options{
		Registry:    reg,
		Strategies:  strategies,
		Metrics:     counter,
		Temperature: m.Pipeline.TemperatureOrDefault(),
		MaxTokens:   m.Pipeline.MaxTokens,
		Timeout:     m.Pipeline.TimeoutDuration(),
		Workers:     m.Pipeline.Workers,
		Retry: retry.Policy{
			MaxAttempts: m.Pipeline.Retry.MaxAttempts,
			Backoff:     retry.Backoff(m.Pipeline.Retry.Backoff),
		},
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = env.MaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = env.Timeout
	}
	if opts.Workers <= 0 {
		opts.Workers = env.Workers
	}

	p, err := pipeline.New(opts)
	if err != nil {
		return nil, nil, err
	}

	if m.Observers.Console {
		p.Notifier().Subscribe(observers.Console(out))
	}
	if m.Observers.AuditLogPath != "" {
		p.Notifier().Subscribe(observers.NewAuditLogger(m.Observers.AuditLogPath))
	}
	return p, counter, nil
}

// Run loads a manifest, handles one query, and writes a summary to out.
func Run(manifestPath string, query string, modelID string, out io.Writer) error {
	m, err := config.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	p, counter, err := Build(m, config.FromEnv(), out)
	if err != nil {
		return err
	}

	res, err := p.Handle(context.Background(), query, modelID)
	if err != nil {
		return fmt.Errorf("handle %q: %w", modelID, err)
	}

	snap := counter.Snapshot()
	_, _ = fmt.Fprintf(out, "%s\n", res.Text)
	_, _ = fmt.Fprintf(out, "metrics handled=%d errors=%d retries=%d observer_failures=%d\n",
		snap.TotalHandled, snap.ErrorHandled, snap.RetryAttempts, snap.ObserverFailures)
	return nil
}

func newBackend(b config.BackendBinding) (backend.Backend, error) {
	apiKey := ""
	if b.APIKeyEnv != "" {
		apiKey = os.Getenv(b.APIKeyEnv)
	}

	switch b.Kind {
	case config.KindOpenAI:
		return openai.NewClient(apiKey, http.DefaultClient, b.BaseURL, openai.Params{Model: b.Model}), nil
	case config.KindAnthropic:
		return anthropic.NewClient(apiKey, http.DefaultClient, b.BaseURL, anthropic.Params{Model: b.Model}), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrManifestUnknownKind, b.Kind)
	}
}

func newStrategy(sc config.StrategyConfig) retrieval.Strategy {
	docs := make([]retrieval.Document, 0, len(sc.Documents))
	for _, d := range sc.Documents {
		docs = append(docs, retrieval.Document{ID: d.ID, Text: d.Text})
	}

	if sc.Active == config.StrategyKeyword {
		return retrieval.NewKeywordStrategy(docs)
	}
	return retrieval.NewStaticStrategy(docs)
}
