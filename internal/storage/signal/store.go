// Package signal persists validated signals. Two implementations exist:
// an in-memory store for tests and ephemeral runs, and a SQLite store for
// durable state that survives restarts.
package signal

import (
	"context"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// ListFilter narrows a List query. Zero values mean "no constraint".
type ListFilter struct {
	Symbol   string
	Strategy string
	Status   core.SignalStatus
	From     time.Time
	To       time.Time
	Limit    int
}

// Store is the persistence interface for validated signals
type Store interface {
	// Save inserts the signal. Saving an existing ID fails.
	Save(ctx context.Context, sig core.ValidatedSignal) error

	// Get returns the signal with the given ID, or ErrSignalNotFound.
	Get(ctx context.Context, id string) (core.ValidatedSignal, error)

	// List returns matching signals, newest first.
	List(ctx context.Context, f ListFilter) ([]core.ValidatedSignal, error)

	// UpdateStatus transitions a stored signal's lifecycle status.
	UpdateStatus(ctx context.Context, id string, status core.SignalStatus) error

	// Count returns the total number of stored signals.
	Count(ctx context.Context) (int, error)

	// DeleteOlderThan removes signals timestamped before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}
