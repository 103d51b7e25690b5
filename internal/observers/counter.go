package observers

import (
	"sync"

	"github.com/your-org/promptpipe/pkg/backend"
)

// Counter counts delivered results, safe for concurrent publishes.
type Counter struct {
	mu sync.Mutex
	n  int
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) OnEvent(backend.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
