// Package app wires the service together: feed, rule engine, validator,
// deduplicator, storage, notifiers, metrics, and one worker per market.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/config"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/feed"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/live"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/metrics"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/notifier"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/notifier/telegram"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/notifier/webhook"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/rules"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/storage/signal"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// App is the long-running monitoring service
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	store     signal.Store
	provider  feed.Provider
	engine    *rules.Engine
	validator *live.Validator
	dedup     *live.Deduplicator
	publisher *live.ChannelPublisher
	notifiers *notifier.Registry
	metrics   *metrics.Metrics
	workers   []*live.Worker

	cron       *cron.Cron
	metricsSrv *http.Server

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds the full service graph from configuration
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := signal.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}

	var provider feed.Provider
	switch cfg.Feed.Provider {
	case "csv":
		provider = feed.NewCSVProvider(cfg.Feed.CSVPath)
	default:
		provider = feed.NewBinanceProvider(cfg.Feed.APIKey, cfg.Feed.SecretKey, cfg.Feed.SymbolMap, logger)
	}

	engine := rules.NewEngine(RuleParams(cfg.Rules.Params), RuleEnabled(cfg.Rules.Enabled), logger)

	validator := live.NewValidator(live.ValidatorConfig{
		MinRiskReward:        cfg.Validator.MinRiskReward,
		MaxEntryDeviationPct: cfg.Validator.MaxEntryDeviationPct,
		DirectionCooldown:    cfg.Validator.CooldownDuration(),
	}, logger)

	dedup := live.NewDeduplicator(live.DedupConfig{
		Window:         cfg.Dedup.WindowDuration(),
		PricePrecision: cfg.Dedup.PricePrecision,
	}, logger)

	notifiers := notifier.NewRegistry(logger)
	if cfg.Notifiers.Telegram.Enabled {
		tg, err := telegram.New(cfg.Notifiers.Telegram.BotToken, cfg.Notifiers.Telegram.ChatID)
		if err != nil {
			store.Close()
			return nil, err
		}
		if err := notifiers.Register(tg); err != nil {
			store.Close()
			return nil, err
		}
	}
	if cfg.Notifiers.Webhook.Enabled {
		wh, err := webhook.New(cfg.Notifiers.Webhook.URL, cfg.Notifiers.Webhook.Headers)
		if err != nil {
			store.Close()
			return nil, err
		}
		if err := notifiers.Register(wh); err != nil {
			store.Close()
			return nil, err
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Workers enqueue onto the channel publisher; a dispatcher goroutine
	// drains it into the notifier registry. A slow notifier backs up the
	// channel instead of stalling every worker mid-cycle.
	publisher := live.NewChannelPublisher(publishBuffer)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		provider:  provider,
		engine:    engine,
		validator: validator,
		dedup:     dedup,
		publisher: publisher,
		notifiers: notifiers,
		metrics:   m,
	}

	for _, market := range cfg.Markets {
		tf, err := core.ParseTimeframe(market.Timeframe)
		if err != nil {
			store.Close()
			return nil, err
		}
		history := market.History
		if history <= 0 {
			history = 300
		}
		a.workers = append(a.workers, live.NewWorker(
			live.WorkerConfig{Symbol: market.Symbol, Timeframe: tf, History: history},
			provider, engine, validator, dedup, store, publisher, m, logger,
		))
	}

	return a, nil
}

// Start seeds restart-safe state, launches the workers, the maintenance
// cron, and the metrics endpoint. Non-blocking.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	a.running = true
	ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	a.seed(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.dispatch(ctx)
	}()

	for _, w := range a.workers {
		w := w
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			w.Run(ctx)
		}()
	}

	a.startMaintenance(ctx)
	a.startMetrics()

	a.logger.Info("service started",
		zap.Int("workers", len(a.workers)),
		zap.Strings("notifiers", a.notifiers.Names()),
	)
	return nil
}

// publishBuffer bounds how many signals may queue for delivery before
// workers feel backpressure.
const publishBuffer = 16

// dispatch drains the publish channel into the notifier registry until
// the context is cancelled.
func (a *App) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-a.publisher.Signals():
			if err := a.notifiers.Publish(ctx, sig); err != nil {
				a.logger.Error("signal delivery failed",
					zap.String("id", sig.ID), zap.Error(err))
			}
		}
	}
}

// seed rebuilds in-memory state from the store after a restart. Failures
// degrade to empty state and monitoring continues.
func (a *App) seed(ctx context.Context) {
	if err := a.dedup.Seed(ctx, a.store); err == nil {
		if a.metrics != nil {
			a.metrics.FingerprintsAlive.Set(float64(a.dedup.Size()))
		}
	}

	since := time.Now().Add(-a.cfg.Validator.CooldownDuration())
	recent, err := a.store.List(ctx, signal.ListFilter{From: since})
	if err != nil {
		a.logger.Warn("cooldown seed failed, starting cold", zap.Error(err))
		return
	}
	a.validator.Seed(recent)
}

// startMaintenance schedules the periodic sweep: expired fingerprints out
// of the dedup cache, old signals out of the store.
func (a *App) startMaintenance(ctx context.Context) {
	a.cron = cron.New()
	_, err := a.cron.AddFunc(a.cfg.Maintain.Schedule, func() {
		remaining := a.dedup.Sweep()
		if a.metrics != nil {
			a.metrics.FingerprintsAlive.Set(float64(remaining))
		}

		if a.cfg.Storage.RetentionDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -a.cfg.Storage.RetentionDays)
			removed, err := a.store.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				a.logger.Error("retention purge failed", zap.Error(err))
			} else if removed > 0 {
				a.logger.Info("retention purge", zap.Int("removed", removed))
			}
		}
	})
	if err != nil {
		a.logger.Error("invalid maintenance schedule, maintenance disabled",
			zap.String("schedule", a.cfg.Maintain.Schedule), zap.Error(err))
		return
	}
	a.cron.Start()
}

func (a *App) startMetrics() {
	if a.metrics == nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, a.metrics.Handler())
	a.metricsSrv = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// Stop shuts everything down and waits for the workers to drain
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false

	a.cancel()
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.metricsSrv.Shutdown(shutdownCtx)
		cancel()
	}
	a.wg.Wait()

	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close failed", zap.Error(err))
	}
	a.logger.Info("service stopped")
}

// RuleParams overlays configured thresholds on the defaults. The monitor
// and the backtest CLI both build their engines through it, so one config
// file tunes both the same way.
func RuleParams(p config.ParamsConfig) rules.Params {
	params := rules.DefaultParams()
	if p.SwingLookback > 0 {
		params.SwingLookback = p.SwingLookback
	}
	if p.MinSwingStrength > 0 {
		params.MinSwingStrength = p.MinSwingStrength
	}
	if p.TrendLookback > 0 {
		params.TrendLookback = p.TrendLookback
	}
	if p.ATRPeriod > 0 {
		params.ATRPeriod = p.ATRPeriod
	}
	if p.RSIPeriod > 0 {
		params.RSIPeriod = p.RSIPeriod
	}
	if p.FibToleranceATR > 0 {
		params.FibToleranceATR = p.FibToleranceATR
	}
	if p.RiskReward > 0 {
		params.RiskReward = p.RiskReward
	}
	if p.MomentumThresholdPct > 0 {
		params.MomentumThresholdPct = p.MomentumThresholdPct
	}
	if p.SessionStartHour > 0 || p.SessionEndHour > 0 {
		params.SessionStartHour = p.SessionStartHour
		params.SessionEndHour = p.SessionEndHour
	}
	if p.RangeLookback > 0 {
		params.RangeLookback = p.RangeLookback
	}
	return params
}

// RuleEnabled maps config keys to the enable set. An empty map enables
// the whole catalogue.
func RuleEnabled(m map[string]bool) rules.Enabled {
	if len(m) == 0 {
		return rules.AllEnabled()
	}
	return rules.Enabled{
		GoldenRetracement:   m["golden_retracement"],
		ExtremeRetest:       m["extreme_retest"],
		MomentumEquilibrium: m["momentum_equilibrium"],
		SessionBreakout:     m["session_breakout"],
		OrderBlockRetest:    m["order_block_retest"],
	}
}
