package state

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const stateKey contextKey = "promptpipe_state"

// Snapshot is immutable request-scoped state, stamped into the context by
// the pipeline so strategies, backends, and observers can correlate work.
type Snapshot struct {
	QueryID string
	ModelID string
}

// NewQueryID mints a fresh query identifier.
func NewQueryID() string {
	return uuid.NewString()
}

func ToContext(ctx context.Context, s Snapshot) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

func FromContext(ctx context.Context) (Snapshot, bool) {
	s, ok := ctx.Value(stateKey).(Snapshot)
	return s, ok
}
