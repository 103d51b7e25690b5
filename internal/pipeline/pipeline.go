package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/promptpipe/internal/metrics"
	"github.com/your-org/promptpipe/internal/retry"
	"github.com/your-org/promptpipe/internal/state"
	"github.com/your-org/promptpipe/pkg/backend"
	"github.com/your-org/promptpipe/pkg/notify"
	"github.com/your-org/promptpipe/pkg/prompt"
	"github.com/your-org/promptpipe/pkg/retrieval"
)

// Formatter folds retrieved documents into the prompt text handed to the
// request builder. It is the pluggable document-to-prompt policy.
type Formatter func(docs []retrieval.Document, query string) string

// PlainFormatter prefixes the query with a Context block listing the
// document texts. With no documents the query passes through verbatim.
func PlainFormatter(docs []retrieval.Document, query string) string {
	if len(docs) == 0 {
		return query
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	for _, doc := range docs {
		sb.WriteString(doc.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(query)
	return sb.String()
}

// Options configures a Pipeline. Zero values get the documented defaults;
// Temperature is used as-is since zero is a valid sampling setting.
type Options struct {
	Registry   *backend.Registry
	Strategies *retrieval.Context
	Notifier   *notify.Notifier
	Formatter  Formatter
	Metrics    metrics.Recorder

	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Retry       retry.Policy
	Workers     int
}

// Pipeline is the composition root: retrieve, build, invoke, publish.
// One instance serves concurrent Handle calls.
type Pipeline struct {
	registry   *backend.Registry
	strategies *retrieval.Context
	notifier   *notify.Notifier
	formatter  Formatter
	metrics    metrics.Recorder

	temperature float64
	maxTokens   int
	timeout     time.Duration
	retryPolicy retry.Policy
	workers     int
}

func New(opts Options) (*Pipeline, error) {
	if opts.Registry == nil {
		return nil, errors.New("pipeline: registry is required")
	}
	if opts.Strategies == nil {
		return nil, errors.New("pipeline: strategy context is required")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewNotifier()
	}
	if opts.Formatter == nil {
		opts.Formatter = PlainFormatter
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = 1
	}
	if opts.Retry.Backoff == "" {
		opts.Retry.Backoff = retry.BackoffLinear
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	return &Pipeline{
		registry:    opts.Registry,
		strategies:  opts.Strategies,
		notifier:    opts.Notifier,
		formatter:   opts.Formatter,
		metrics:     opts.Metrics,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		retryPolicy: opts.Retry,
		workers:     opts.Workers,
	}, nil
}

// Notifier exposes the pipeline's notifier for observer registration.
func (p *Pipeline) Notifier() *notify.Notifier {
	return p.notifier
}

// Handle runs one query through retrieve, build, invoke, publish. Any stage
// failure aborts before publication; observer failures never reach the
// caller.
func (p *Pipeline) Handle(ctx context.Context, query string, modelID string) (backend.Result, error) {
	started := time.Now()
	res, err := p.handle(ctx, query, modelID)

	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.ObserveHandled(modelID, status, time.Since(started))
	return res, err
}

func (p *Pipeline) handle(ctx context.Context, query string, modelID string) (backend.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = state.ToContext(ctx, state.Snapshot{QueryID: state.NewQueryID(), ModelID: modelID})

	docs, err := p.strategies.Retrieve(ctx, query)
	if err != nil {
		if errors.Is(err, retrieval.ErrRetrieval) || errors.Is(err, retrieval.ErrNoStrategy) {
			return backend.Result{}, fmt.Errorf("retrieve: %w", err)
		}
		return backend.Result{}, fmt.Errorf("retrieve: %w: %w", retrieval.ErrRetrieval, err)
	}

	req, err := prompt.NewBuilder().
		SetPrompt(p.formatter(docs, query)).
		SetTemperature(p.temperature).
		SetMaxTokens(p.maxTokens).
		Build()
	if err != nil {
		return backend.Result{}, fmt.Errorf("build request: %w", err)
	}

	var res backend.Result
	err = retry.Execute(ctx, p.retryPolicy,
		func() { p.metrics.ObserveRetry(modelID) },
		func(c context.Context) error {
			r, invokeErr := p.registry.Invoke(c, modelID, req.PromptText)
			if invokeErr != nil {
				if errors.Is(invokeErr, backend.ErrUnknownModel) || errors.Is(invokeErr, backend.ErrTimeout) {
					return retry.Permanent(invokeErr)
				}
				return invokeErr
			}
			res = r
			return nil
		})
	if err != nil {
		return backend.Result{}, fmt.Errorf("invoke: %w", err)
	}

	for range p.notifier.Publish(res) {
		p.metrics.ObserveObserverFailure(modelID)
	}
	return res, nil
}
