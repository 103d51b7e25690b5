package backend

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyModelID      = errors.New("model id is empty")
	ErrNilBackend        = errors.New("backend is nil")
	ErrDuplicateModel    = errors.New("model id already registered")
	ErrUnknownModel      = errors.New("model id not registered")
	ErrUnknownEntryPoint = errors.New("backend does not expose entry point")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrMissingAPIKey     = errors.New("missing api key")
	ErrTimeout           = errors.New("backend call timed out")
)

// BackendError wraps a failure reported by a backend, keeping the native
// error reachable through Unwrap.
type BackendError struct {
	ModelID string
	Cause   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.ModelID, e.Cause)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}
