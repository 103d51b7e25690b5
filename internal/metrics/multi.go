package metrics

import "time"

// MultiRecorder fans out metrics to multiple recorders.
type MultiRecorder struct {
	recorders []Recorder
}

func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	nonNil := make([]Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			nonNil = append(nonNil, r)
		}
	}
	return &MultiRecorder{recorders: nonNil}
}

func (m *MultiRecorder) ObserveHandled(modelID string, status string, duration time.Duration) {
	for _, r := range m.recorders {
		r.ObserveHandled(modelID, status, duration)
	}
}

func (m *MultiRecorder) ObserveRetry(modelID string) {
	for _, r := range m.recorders {
		r.ObserveRetry(modelID)
	}
}

func (m *MultiRecorder) ObserveObserverFailure(modelID string) {
	for _, r := range m.recorders {
		r.ObserveObserverFailure(modelID)
	}
}
