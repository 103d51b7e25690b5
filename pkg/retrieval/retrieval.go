package retrieval

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	ErrRetrieval  = errors.New("retrieval failed")
	ErrNoStrategy = errors.New("no retrieval strategy set")
)

// Document is one unit of retrieved context, most relevant first in any
// sequence a Strategy returns.
type Document struct {
	ID    string
	Text  string
	Score float64
}

// Strategy turns a query into an ordered, finite document sequence. An empty
// result means no context is available; it is not an error. Implementations
// must not mutate the query and must be deterministic for a given state.
type Strategy interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, query string) ([]Document, error)

func (f StrategyFunc) Retrieve(ctx context.Context, query string) ([]Document, error) {
	return f(ctx, query)
}

// holder boxes the interface so strategies of different concrete types can
// share one atomic slot.
type holder struct {
	strategy Strategy
}

// Context holds exactly one active strategy and swaps it atomically. A swap
// takes effect on the next Retrieve; a retrieval already in flight keeps the
// strategy it loaded at its own start.
type Context struct {
	active atomic.Pointer[holder]
}

func NewContext(s Strategy) *Context {
	c := &Context{}
	if s != nil {
		c.active.Store(&holder{strategy: s})
	}
	return c
}

func (c *Context) SetStrategy(s Strategy) {
	if s == nil {
		c.active.Store(nil)
		return
	}
	c.active.Store(&holder{strategy: s})
}

func (c *Context) Retrieve(ctx context.Context, query string) ([]Document, error) {
	h := c.active.Load()
	if h == nil {
		return nil, ErrNoStrategy
	}
	return h.strategy.Retrieve(ctx, query)
}
