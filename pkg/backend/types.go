package backend

import "context"

// Result is a backend-agnostic generation response.
type Result struct {
	Text string
	Raw  []byte
}

// GenerateFunc is the normalized generation call every backend is reduced to.
type GenerateFunc func(ctx context.Context, prompt string) (Result, error)

// Backend exposes one or more named generation entry points. The entry point
// chosen at registration becomes the binding's GenerateFunc; nothing is
// resolved by name after that.
type Backend interface {
	Name() string
	Entry(name string) (GenerateFunc, bool)
}
