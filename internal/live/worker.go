package live

import (
	"context"
	"errors"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/feed"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/metrics"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/storage/signal"
	"go.uber.org/zap"
)

// Evaluator produces a candidate for the candle at index, or nil.
// *rules.Engine satisfies it.
type Evaluator interface {
	Evaluate(candles []core.Candle, index int) *core.Candidate
}

// WorkerConfig fixes one worker's market
type WorkerConfig struct {
	Symbol    string
	Timeframe core.Timeframe
	History   int // candles fetched per cycle
}

// graceDelay gives the exchange time to finalize a bar after its close
const graceDelay = 5 * time.Second

// Worker monitors one symbol/timeframe pair: on every candle close it
// fetches history, evaluates the rules, validates, deduplicates,
// persists, and publishes.
type Worker struct {
	cfg       WorkerConfig
	provider  feed.Provider
	evaluator Evaluator
	validator *Validator
	dedup     *Deduplicator
	store     signal.Store
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewWorker(
	cfg WorkerConfig,
	provider feed.Provider,
	evaluator Evaluator,
	validator *Validator,
	dedup *Deduplicator,
	store signal.Store,
	publisher Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		cfg:       cfg,
		provider:  provider,
		evaluator: evaluator,
		validator: validator,
		dedup:     dedup,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger: logger.With(
			zap.String("symbol", cfg.Symbol),
			zap.String("timeframe", string(cfg.Timeframe)),
		),
		now: time.Now,
	}
}

// Run cycles until the context is cancelled. Each cycle is aligned to the
// close of the worker's timeframe.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", zap.Int("history", w.cfg.History))
	for {
		w.Cycle(ctx)

		wait := time.Until(w.cfg.Timeframe.NextClose(w.now())) + graceDelay
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("worker stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Cycle performs one full evaluation pass. Failures are logged, never
// fatal: the next candle close gets a fresh attempt.
func (w *Worker) Cycle(ctx context.Context) {
	started := w.now()
	defer func() {
		if w.metrics != nil {
			w.metrics.WorkerCycles.WithLabelValues(w.cfg.Symbol, string(w.cfg.Timeframe)).Inc()
			w.metrics.WorkerCycleDuration.WithLabelValues(w.cfg.Symbol, string(w.cfg.Timeframe)).
				Observe(w.now().Sub(started).Seconds())
		}
	}()

	candles, err := w.provider.Candles(ctx, w.cfg.Symbol, w.cfg.Timeframe, w.cfg.History)
	if err != nil {
		if w.metrics != nil {
			w.metrics.FeedErrors.WithLabelValues(w.cfg.Symbol).Inc()
		}
		w.logger.Warn("candle fetch failed", zap.Error(err))
		return
	}

	if len(candles) < 2 {
		w.logger.Warn("window too short to evaluate",
			zap.Int("candles", len(candles)), zap.Error(core.ErrInsufficientData))
		return
	}

	cand := w.evaluator.Evaluate(candles, len(candles)-1)
	if cand == nil {
		return
	}
	if w.metrics != nil {
		w.metrics.SignalsGenerated.WithLabelValues(w.cfg.Symbol, cand.Rule).Inc()
	}

	marketPrice := candles[len(candles)-1].Close
	sig, err := w.validator.Validate(cand, w.cfg.Symbol, w.cfg.Timeframe, marketPrice)
	if err != nil {
		if w.metrics != nil {
			w.metrics.SignalsRejected.WithLabelValues(w.cfg.Symbol, rejectionReason(err)).Inc()
		}
		w.logger.Debug("candidate rejected", zap.String("rule", cand.Rule), zap.Error(err))
		return
	}

	if err := w.dedup.CheckAndInsert(sig); err != nil {
		if w.metrics != nil {
			w.metrics.SignalsSuppressed.WithLabelValues(w.cfg.Symbol).Inc()
		}
		w.logger.Info("duplicate signal suppressed",
			zap.String("rule", sig.Strategy),
			zap.String("direction", string(sig.Direction)),
			zap.Error(err),
		)
		return
	}

	if err := w.store.Save(ctx, sig); err != nil {
		// Publish anyway: a storage hiccup should not eat the signal.
		w.logger.Error("signal save failed", zap.String("id", sig.ID), zap.Error(err))
	}

	if err := w.publisher.Publish(ctx, sig); err != nil {
		w.logger.Error("publish failed", zap.String("id", sig.ID), zap.Error(err))
		return
	}
	if err := w.store.UpdateStatus(ctx, sig.ID, core.SignalStatusPublished); err != nil {
		w.logger.Warn("status update failed", zap.String("id", sig.ID), zap.Error(err))
	}
	if w.metrics != nil {
		w.metrics.SignalsPublished.WithLabelValues(w.cfg.Symbol, sig.Strategy).Inc()
		w.metrics.FingerprintsAlive.Set(float64(w.dedup.Size()))
	}

	w.logger.Info("signal published",
		zap.String("id", sig.ID),
		zap.String("rule", sig.Strategy),
		zap.String("direction", string(sig.Direction)),
		zap.Float64("entry", sig.Entry),
		zap.Float64("stop", sig.Stop),
		zap.Float64("target", sig.Target),
		zap.Float64("rr", sig.RiskReward),
	)
}

// rejectionReason maps a validation error to a stable metric label
func rejectionReason(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.Code
	}
	return "UNKNOWN"
}
