package metrics

import (
	"sync"
	"time"
)

// Recorder defines minimal metric hooks for pipeline instrumentation.
type Recorder interface {
	ObserveHandled(modelID string, status string, duration time.Duration)
	ObserveRetry(modelID string)
	ObserveObserverFailure(modelID string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveHandled(string, string, time.Duration) {}
func (NoopRecorder) ObserveRetry(string)                         {}
func (NoopRecorder) ObserveObserverFailure(string)               {}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalHandled     int
	ErrorHandled     int
	RetryAttempts    int
	ObserverFailures int
	ByModel          map[string]int
}

// CounterRecorder keeps in-memory counters, safe for concurrent use.
type CounterRecorder struct {
	mu               sync.Mutex
	totalHandled     int
	errorHandled     int
	retryAttempts    int
	observerFailures int
	byModel          map[string]int
}

func NewCounterRecorder() *CounterRecorder {
	return &CounterRecorder{byModel: make(map[string]int)}
}

func (c *CounterRecorder) ObserveHandled(modelID string, status string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalHandled++
	c.byModel[modelID]++
	if status != "ok" {
		c.errorHandled++
	}
}

func (c *CounterRecorder) ObserveRetry(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retryAttempts++
}

func (c *CounterRecorder) ObserveObserverFailure(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observerFailures++
}

func (c *CounterRecorder) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	byModel := make(map[string]int, len(c.byModel))
	for k, v := range c.byModel {
		byModel[k] = v
	}
	return Snapshot{
		TotalHandled:     c.totalHandled,
		ErrorHandled:     c.errorHandled,
		RetryAttempts:    c.retryAttempts,
		ObserverFailures: c.observerFailures,
		ByModel:          byModel,
	}
}
