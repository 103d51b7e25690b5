package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/promptpipe/internal/metrics"
	"github.com/your-org/promptpipe/internal/retry"
	"github.com/your-org/promptpipe/pkg/backend"
	"github.com/your-org/promptpipe/pkg/notify"
	"github.com/your-org/promptpipe/pkg/retrieval"
)

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = backend.NewRegistry()
		require.NoError(t, opts.Registry.RegisterFunc("m1", func(_ context.Context, prompt string) (backend.Result, error) {
			return backend.Result{Text: "echo: " + prompt}, nil
		}))
	}
	if opts.Strategies == nil {
		opts.Strategies = retrieval.NewContext(retrieval.NewStaticStrategy(nil))
	}
	p, err := New(opts)
	require.NoError(t, err)
	return p
}

func TestHandleEndToEnd(t *testing.T) {
	p := newTestPipeline(t, Options{})

	var events []backend.Result
	p.Notifier().Subscribe(notify.ObserverFunc(func(res backend.Result) error {
		events = append(events, res)
		return nil
	}))

	res, err := p.Handle(context.Background(), "query", "m1")
	require.NoError(t, err)
	assert.Equal(t, "echo: query", res.Text, "empty retrieval must leave the prompt unmodified")
	require.Len(t, events, 1)
	assert.Equal(t, res, events[0])
}

func TestHandleFoldsDocumentsIntoPrompt(t *testing.T) {
	strategies := retrieval.NewContext(retrieval.NewStaticStrategy([]retrieval.Document{
		{ID: "d1", Text: "fact one"},
		{ID: "d2", Text: "fact two"},
	}))
	p := newTestPipeline(t, Options{Strategies: strategies})

	res, err := p.Handle(context.Background(), "the question", "m1")
	require.NoError(t, err)
	assert.Equal(t, "echo: Context:\nfact one\nfact two\n\nthe question", res.Text)
}

func TestHandleRetrievalFailureAbortsBeforePublish(t *testing.T) {
	strategies := retrieval.NewContext(retrieval.StrategyFunc(func(context.Context, string) ([]retrieval.Document, error) {
		return nil, errors.New("index unavailable")
	}))
	p := newTestPipeline(t, Options{Strategies: strategies})

	published := 0
	p.Notifier().Subscribe(notify.ObserverFunc(func(backend.Result) error {
		published++
		return nil
	}))

	_, err := p.Handle(context.Background(), "q", "m1")
	require.ErrorIs(t, err, retrieval.ErrRetrieval)
	assert.Zero(t, published, "nothing may be published on an aborted request")
}

func TestHandleUnknownModelAbortsWithoutRetry(t *testing.T) {
	counter := metrics.NewCounterRecorder()
	p := newTestPipeline(t, Options{
		Metrics: counter,
		Retry:   retry.Policy{MaxAttempts: 3, Backoff: retry.BackoffLinear},
	})

	_, err := p.Handle(context.Background(), "q", "nonexistent")
	require.ErrorIs(t, err, backend.ErrUnknownModel)
	assert.Zero(t, counter.Snapshot().RetryAttempts)
}

func TestHandleRetriesTransientBackendFailure(t *testing.T) {
	reg := backend.NewRegistry()
	attempts := 0
	require.NoError(t, reg.RegisterFunc("flaky", func(context.Context, string) (backend.Result, error) {
		attempts++
		if attempts == 1 {
			return backend.Result{}, errors.New("transient")
		}
		return backend.Result{Text: "ok"}, nil
	}))

	counter := metrics.NewCounterRecorder()
	p := newTestPipeline(t, Options{
		Registry: reg,
		Metrics:  counter,
		Retry:    retry.Policy{MaxAttempts: 2, Backoff: retry.BackoffLinear},
	})

	res, err := p.Handle(context.Background(), "q", "flaky")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, counter.Snapshot().RetryAttempts)
}

func TestHandleTimeoutSkipsPublish(t *testing.T) {
	reg := backend.NewRegistry()
	require.NoError(t, reg.RegisterFunc("slow", func(ctx context.Context, _ string) (backend.Result, error) {
		<-ctx.Done()
		return backend.Result{}, ctx.Err()
	}))
	p := newTestPipeline(t, Options{Registry: reg, Timeout: 20 * time.Millisecond})

	published := 0
	p.Notifier().Subscribe(notify.ObserverFunc(func(backend.Result) error {
		published++
		return nil
	}))

	_, err := p.Handle(context.Background(), "q", "slow")
	require.ErrorIs(t, err, backend.ErrTimeout)
	assert.Zero(t, published)
}

func TestHandleObserverFailureInvisibleToCaller(t *testing.T) {
	counter := metrics.NewCounterRecorder()
	p := newTestPipeline(t, Options{Metrics: counter})

	p.Notifier().Subscribe(notify.ObserverFunc(func(backend.Result) error {
		return errors.New("observer down")
	}))

	res, err := p.Handle(context.Background(), "q", "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Text)
	assert.Equal(t, 1, counter.Snapshot().ObserverFailures)
}

func TestHandleInvalidDefaultsSurfaceAtBuild(t *testing.T) {
	p := newTestPipeline(t, Options{Temperature: 3.5})

	_, err := p.Handle(context.Background(), "q", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestCustomFormatter(t *testing.T) {
	strategies := retrieval.NewContext(retrieval.NewStaticStrategy([]retrieval.Document{{Text: "doc"}}))
	p := newTestPipeline(t, Options{
		Strategies: strategies,
		Formatter: func(docs []retrieval.Document, query string) string {
			return query + "!"
		},
	})

	res, err := p.Handle(context.Background(), "q", "m1")
	require.NoError(t, err)
	assert.Equal(t, "echo: q!", res.Text)
}

func TestRunBatchDeterministicOrder(t *testing.T) {
	p := newTestPipeline(t, Options{Workers: 2})

	results := p.RunBatch(context.Background(), []Query{
		{ID: "b", Text: "two", ModelID: "m1"},
		{ID: "a", Text: "one", ModelID: "m1"},
		{ID: "c", Text: "three", ModelID: "nonexistent"},
	})

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Query.ID)
	assert.Equal(t, "echo: one", results[0].Result.Text)
	assert.Equal(t, "b", results[1].Query.ID)
	require.Error(t, results[2].Err)
	assert.ErrorIs(t, results[2].Err, backend.ErrUnknownModel)
}

func TestRunBatchAssignsMissingIDs(t *testing.T) {
	p := newTestPipeline(t, Options{})

	results := p.RunBatch(context.Background(), []Query{{Text: "one", ModelID: "m1"}})
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Query.ID)
}

func TestNewRequiresRegistryAndStrategies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Registry: backend.NewRegistry()})
	assert.Error(t, err)
}
