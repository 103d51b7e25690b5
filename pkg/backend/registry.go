package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// binding pairs a model id with its resolved generation call.
type binding struct {
	backendName string
	entryPoint  string
	fn          GenerateFunc
}

// Registry normalizes heterogeneous backends behind one Invoke contract.
// Bindings are written at setup and read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]binding
}

func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]binding)}
}

// Register binds modelID to the named entry point of b. The entry point is
// resolved here, once; Invoke performs a direct call on the stored func.
func (r *Registry) Register(modelID string, b Backend, entryPoint string) error {
	if modelID == "" {
		return ErrEmptyModelID
	}
	if b == nil {
		return ErrNilBackend
	}
	fn, ok := b.Entry(entryPoint)
	if !ok || fn == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownEntryPoint, b.Name(), entryPoint)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[modelID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, modelID)
	}
	r.bindings[modelID] = binding{backendName: b.Name(), entryPoint: entryPoint, fn: fn}
	return nil
}

// RegisterFunc binds modelID directly to a closure.
func (r *Registry) RegisterFunc(modelID string, fn GenerateFunc) error {
	if modelID == "" {
		return ErrEmptyModelID
	}
	if fn == nil {
		return ErrNilBackend
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[modelID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, modelID)
	}
	r.bindings[modelID] = binding{backendName: "func", entryPoint: "func", fn: fn}
	return nil
}

// Models returns the registered model ids in no particular order.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.bindings))
	for id := range r.bindings {
		ids = append(ids, id)
	}
	return ids
}

// Invoke dispatches prompt to the backend bound to modelID. An unknown model
// fails before any backend is touched. Backend failures and panics come back
// as *BackendError; context expiry comes back as ErrTimeout.
func (r *Registry) Invoke(ctx context.Context, modelID string, prompt string) (Result, error) {
	r.mu.RLock()
	bnd, ok := r.bindings[modelID]
	r.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}

	res, err := safeGenerate(ctx, bnd.fn, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{}, fmt.Errorf("%w: %s: %w", ErrTimeout, modelID, err)
		}
		return Result{}, &BackendError{ModelID: modelID, Cause: err}
	}
	return res, nil
}

func safeGenerate(ctx context.Context, fn GenerateFunc, prompt string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn(ctx, prompt)
}
