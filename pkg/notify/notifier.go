package notify

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/your-org/promptpipe/pkg/backend"
)

// Observer receives published results. A non-nil error marks the delivery as
// failed for this observer only.
type Observer interface {
	OnEvent(res backend.Result) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(res backend.Result) error

func (f ObserverFunc) OnEvent(res backend.Result) error {
	return f(res)
}

// Handle is the opaque token identifying one subscription.
type Handle string

// ObserverError records one failed delivery during a publish.
type ObserverError struct {
	Handle Handle
	Err    error
}

func (e ObserverError) Error() string {
	return fmt.Sprintf("observer %s: %v", e.Handle, e.Err)
}

func (e ObserverError) Unwrap() error {
	return e.Err
}

type subscription struct {
	handle   Handle
	observer Observer
}

// Notifier broadcasts each published result to the current subscribers. It
// keeps no event history; a late subscriber never sees past events.
type Notifier struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe appends o to the subscriber list. Insertion order is delivery
// order.
func (n *Notifier) Subscribe(o Observer) Handle {
	h := Handle(uuid.NewString())

	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, subscription{handle: h, observer: o})
	return h
}

// Unsubscribe removes the subscription for h. Removing an unknown or already
// removed handle is a no-op.
func (n *Notifier) Unsubscribe(h Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub.handle == h {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// Len reports the current subscriber count.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Publish delivers res to a snapshot of the subscribers taken at call start,
// in subscription order. A failing or panicking observer is recorded and the
// remaining observers still receive the event.
func (n *Notifier) Publish(res backend.Result) []ObserverError {
	n.mu.RLock()
	snapshot := append([]subscription(nil), n.subs...)
	n.mu.RUnlock()

	var failures []ObserverError
	for _, sub := range snapshot {
		if err := safeDeliver(sub.observer, res); err != nil {
			failures = append(failures, ObserverError{Handle: sub.handle, Err: err})
		}
	}
	return failures
}

func safeDeliver(o Observer, res backend.Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return o.OnEvent(res)
}
