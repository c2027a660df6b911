package live

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/storage/signal"
	"go.uber.org/zap"
)

// DedupConfig controls the duplicate-suppression window
type DedupConfig struct {
	Window         time.Duration // how long a fingerprint stays hot
	PricePrecision int           // decimals kept when fingerprinting prices
}

func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		Window:         4 * time.Hour,
		PricePrecision: 2,
	}
}

// Deduplicator suppresses repeats of the same signal within the window.
// The fingerprint deliberately excludes the timeframe: the same setup
// spotted on two timeframes is still one signal.
type Deduplicator struct {
	cfg    DedupConfig
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]fpEntry
}

// fpEntry remembers when and on which timeframe a fingerprint was first
// seen, so a collision can say who got there first.
type fpEntry struct {
	first     time.Time
	timeframe core.Timeframe
}

func NewDeduplicator(cfg DedupConfig, logger *zap.Logger) *Deduplicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deduplicator{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		seen:   make(map[string]fpEntry),
	}
}

// Fingerprint hashes the identity of a signal: symbol, strategy,
// direction, and the price levels rounded to precision decimals.
func Fingerprint(sig core.ValidatedSignal, precision int) string {
	payload := fmt.Sprintf("%s|%s|%s|%g|%g|%g",
		sig.Symbol, sig.Strategy, sig.Direction,
		roundTo(sig.Entry, precision),
		roundTo(sig.Stop, precision),
		roundTo(sig.Target, precision),
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// CheckAndInsert records the signal's fingerprint if it is new, and
// returns ErrDuplicateSignal naming the earlier sighting when it is not.
// The check and the insert are one critical section, so two concurrent
// workers cannot both pass with the same signal.
func (d *Deduplicator) CheckAndInsert(sig core.ValidatedSignal) error {
	fp := Fingerprint(sig, d.cfg.PricePrecision)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweepLocked(now)
	if entry, ok := d.seen[fp]; ok && now.Sub(entry.first) < d.cfg.Window {
		d.logger.Debug("fingerprint collision",
			zap.String("symbol", sig.Symbol),
			zap.String("strategy", sig.Strategy),
			zap.String("timeframe", string(sig.Timeframe)),
			zap.String("first_timeframe", string(entry.timeframe)),
			zap.Time("first_seen", entry.first),
		)
		return core.WrapError(core.ErrDuplicateSignal,
			fmt.Errorf("first seen on %s at %s", entry.timeframe, entry.first.Format(time.RFC3339)))
	}
	d.seen[fp] = fpEntry{first: now, timeframe: sig.Timeframe}
	return nil
}

// Seed loads recent signals from the store so deduplication survives a
// restart. On a store failure it degrades to an empty cache: monitoring
// continues, at the cost of possible duplicate publishes.
func (d *Deduplicator) Seed(ctx context.Context, store signal.Store) error {
	since := d.now().Add(-d.cfg.Window)
	signals, err := store.List(ctx, signal.ListFilter{From: since})
	if err != nil {
		d.logger.Warn("dedup seed failed, starting with an empty cache", zap.Error(err))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sig := range signals {
		fp := Fingerprint(sig, d.cfg.PricePrecision)
		if entry, ok := d.seen[fp]; !ok || sig.Timestamp.Before(entry.first) {
			d.seen[fp] = fpEntry{first: sig.Timestamp, timeframe: sig.Timeframe}
		}
	}
	d.logger.Info("dedup cache seeded", zap.Int("fingerprints", len(d.seen)))
	return nil
}

// Sweep drops expired fingerprints and returns how many remain
func (d *Deduplicator) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked(d.now())
	return len(d.seen)
}

// Size returns the live fingerprint count
func (d *Deduplicator) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *Deduplicator) sweepLocked(now time.Time) {
	for fp, entry := range d.seen {
		if now.Sub(entry.first) >= d.cfg.Window {
			delete(d.seen, fp)
		}
	}
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
