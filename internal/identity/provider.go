// Package identity exposes the "current identity or none" capability.
// Authentication itself is an external collaborator; the engine only
// consumes the current value and its transitions.
package identity

import (
	"sync"

	"github.com/pclogr/pclogr/internal/model"
)

type Provider interface {
	// Current returns the active identity, false when none is active.
	Current() (model.UserID, bool)
	// Subscribe registers a listener for identity transitions. The
	// listener receives the new identity; an empty value means the
	// identity was cleared. Returns an unsubscribe func.
	Subscribe(fn func(model.UserID)) func()
}

// Notifier is a process-local Provider. Set drives transitions; any
// none→present transition is what the sync engine listens for.
type Notifier struct {
	mu        sync.Mutex
	current   model.UserID
	listeners map[int]func(model.UserID)
	nextID    int
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]func(model.UserID))}
}

func (n *Notifier) Current() (model.UserID, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.current.Active()
}

func (n *Notifier) Subscribe(fn func(model.UserID)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) Set(uid model.UserID) {
	n.mu.Lock()
	if n.current == uid {
		n.mu.Unlock()
		return
	}
	n.current = uid
	fns := make([]func(model.UserID), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(uid)
	}
}
