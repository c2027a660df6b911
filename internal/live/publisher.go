package live

import (
	"context"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// Publisher delivers a validated signal to its consumers
type Publisher interface {
	Publish(ctx context.Context, sig core.ValidatedSignal) error
}

// ChannelPublisher hands signals to an in-process consumer. A full
// channel blocks the worker, which is the intended backpressure.
type ChannelPublisher struct {
	ch chan core.ValidatedSignal
}

func NewChannelPublisher(buffer int) *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan core.ValidatedSignal, buffer)}
}

func (p *ChannelPublisher) Publish(ctx context.Context, sig core.ValidatedSignal) error {
	select {
	case p.ch <- sig:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Signals is the consumer side
func (p *ChannelPublisher) Signals() <-chan core.ValidatedSignal {
	return p.ch
}
