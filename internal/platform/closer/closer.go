// Package closer collects named shutdown hooks and runs them in
// reverse registration order on application exit.
package closer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

var (
	mu    sync.Mutex
	hooks []hook
	log   = zap.NewNop()
)

func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// AddNamed registers a shutdown hook under a name used for logging.
func AddNamed(name string, fn func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, hook{name: name, fn: fn})
}

// CloseAll runs every registered hook, last registered first. Errors
// are logged, not returned: shutdown keeps going.
func CloseAll(ctx context.Context) {
	mu.Lock()
	pending := make([]hook, len(hooks))
	copy(pending, hooks)
	hooks = nil
	mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		h := pending[i]
		if err := h.fn(ctx); err != nil {
			log.Error("closer: shutdown hook failed",
				zap.String("name", h.name),
				zap.Error(err),
			)
			continue
		}
		log.Info("closer: closed", zap.String("name", h.name))
	}
}
