package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounterRecorder(t *testing.T) {
	c := NewCounterRecorder()
	c.ObserveHandled("m1", "ok", time.Millisecond)
	c.ObserveHandled("m1", "error", time.Millisecond)
	c.ObserveHandled("m2", "ok", time.Millisecond)
	c.ObserveRetry("m1")
	c.ObserveObserverFailure("m1")

	snap := c.Snapshot()
	assert.Equal(t, 3, snap.TotalHandled)
	assert.Equal(t, 1, snap.ErrorHandled)
	assert.Equal(t, 1, snap.RetryAttempts)
	assert.Equal(t, 1, snap.ObserverFailures)
	assert.Equal(t, 2, snap.ByModel["m1"])
	assert.Equal(t, 1, snap.ByModel["m2"])
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewCounterRecorder()
	c.ObserveHandled("m1", "ok", 0)

	snap := c.Snapshot()
	snap.ByModel["m1"] = 99

	assert.Equal(t, 1, c.Snapshot().ByModel["m1"])
}

func TestMultiRecorderFansOut(t *testing.T) {
	a := NewCounterRecorder()
	b := NewCounterRecorder()
	m := NewMultiRecorder(a, nil, b)

	m.ObserveHandled("m1", "ok", 0)
	m.ObserveRetry("m1")
	m.ObserveObserverFailure("m1")

	for _, c := range []*CounterRecorder{a, b} {
		snap := c.Snapshot()
		assert.Equal(t, 1, snap.TotalHandled)
		assert.Equal(t, 1, snap.RetryAttempts)
		assert.Equal(t, 1, snap.ObserverFailures)
	}
}
