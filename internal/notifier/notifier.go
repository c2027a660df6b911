// Package notifier delivers published signals to external channels.
package notifier

import (
	"context"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// Notifier delivers one signal to one channel
type Notifier interface {
	// Name returns the unique identifier for this notifier.
	Name() string

	// Send delivers a single signal.
	Send(ctx context.Context, sig core.ValidatedSignal) error
}
