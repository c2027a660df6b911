package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"go.uber.org/zap"
)

// Registry fans a signal out to every registered notifier. It satisfies
// the live worker's Publisher interface.
type Registry struct {
	logger *zap.Logger

	mu        sync.RWMutex
	notifiers map[string]Notifier
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:    logger,
		notifiers: make(map[string]Notifier),
	}
}

// Register adds a notifier. Names must be unique.
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, exists := r.notifiers[name]; exists {
		return fmt.Errorf("notifier %s already registered", name)
	}
	r.notifiers[name] = n
	return nil
}

// Names lists the registered notifiers
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.notifiers))
	for name := range r.notifiers {
		names = append(names, name)
	}
	return names
}

// Publish sends the signal to every notifier. Individual failures are
// logged and collected; one broken channel does not silence the others.
func (r *Registry) Publish(ctx context.Context, sig core.ValidatedSignal) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed int
	for name, n := range r.notifiers {
		if err := n.Send(ctx, sig); err != nil {
			failed++
			r.logger.Error("notifier send failed",
				zap.String("notifier", name),
				zap.String("signal", sig.ID),
				zap.Error(err),
			)
		}
	}
	if failed == len(r.notifiers) && failed > 0 {
		return core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("all %d notifiers failed for signal %s", failed, sig.ID))
	}
	return nil
}
