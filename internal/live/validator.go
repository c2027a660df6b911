// Package live turns rule candidates into published signals: validation,
// deduplication, persistence, and delivery, driven by a per-market worker
// aligned to candle closes.
package live

import (
	"fmt"
	"sync"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidatorConfig holds the acceptance thresholds
type ValidatorConfig struct {
	MinRiskReward        float64       // reward/risk floor
	MaxEntryDeviationPct float64       // max % distance between entry and market
	DirectionCooldown    time.Duration // per symbol+direction
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinRiskReward:        1.5,
		MaxEntryDeviationPct: 5.0,
		DirectionCooldown:    24 * time.Hour,
	}
}

// Validator checks candidates against the acceptance thresholds and
// tracks the per-direction cooldown. Safe for concurrent use.
type Validator struct {
	cfg    ValidatorConfig
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	accepted map[string]time.Time // symbol|direction -> last acceptance
}

func NewValidator(cfg ValidatorConfig, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		accepted: make(map[string]time.Time),
	}
}

// Seed primes the cooldown tracker from previously persisted signals, so
// a restart does not reopen a direction that recently fired.
func (v *Validator) Seed(signals []core.ValidatedSignal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, sig := range signals {
		key := cooldownKey(sig.Symbol, sig.Direction)
		if sig.Timestamp.After(v.accepted[key]) {
			v.accepted[key] = sig.Timestamp
		}
	}
}

// Validate runs the acceptance checks in a fixed order: geometry, then
// risk/reward, then entry freshness, then the direction cooldown. The
// first failure wins. On success the cooldown is recorded and the
// enriched signal returned.
func (v *Validator) Validate(cand *core.Candidate, symbol string, tf core.Timeframe, marketPrice float64) (core.ValidatedSignal, error) {
	if cand == nil {
		return core.ValidatedSignal{}, core.ErrInvalidCandidate
	}
	if cand.Entry <= 0 || cand.Stop <= 0 || cand.Target <= 0 {
		return core.ValidatedSignal{}, core.WrapError(core.ErrInvalidCandidate,
			fmt.Errorf("non-positive price in %s candidate", cand.Rule))
	}

	var risk, reward float64
	switch cand.Direction {
	case core.DirectionLong:
		risk = cand.Entry - cand.Stop
		reward = cand.Target - cand.Entry
	case core.DirectionShort:
		risk = cand.Stop - cand.Entry
		reward = cand.Entry - cand.Target
	default:
		return core.ValidatedSignal{}, core.WrapError(core.ErrInvalidCandidate,
			fmt.Errorf("unknown direction %q", cand.Direction))
	}
	if risk <= 0 || reward <= 0 {
		return core.ValidatedSignal{}, core.WrapError(core.ErrInvalidCandidate,
			fmt.Errorf("stop or target on the wrong side of entry"))
	}

	rr := reward / risk
	if rr < v.cfg.MinRiskReward {
		return core.ValidatedSignal{}, core.WrapError(core.ErrLowRiskReward,
			fmt.Errorf("%.2f < %.2f", rr, v.cfg.MinRiskReward))
	}

	if marketPrice > 0 {
		deviation := (cand.Entry - marketPrice) / marketPrice * 100
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > v.cfg.MaxEntryDeviationPct {
			return core.ValidatedSignal{}, core.WrapError(core.ErrStaleEntry,
				fmt.Errorf("entry %.2f deviates %.2f%% from market %.2f", cand.Entry, deviation, marketPrice))
		}
	}

	now := v.now()
	key := cooldownKey(symbol, cand.Direction)

	v.mu.Lock()
	defer v.mu.Unlock()
	if last, ok := v.accepted[key]; ok && now.Sub(last) < v.cfg.DirectionCooldown {
		return core.ValidatedSignal{}, core.WrapError(core.ErrDirectionCooldown,
			fmt.Errorf("last %s %s signal at %s", symbol, cand.Direction, last.Format(time.RFC3339)))
	}
	v.accepted[key] = now

	return core.ValidatedSignal{
		ID:         uuid.NewString(),
		Timestamp:  now,
		Symbol:     symbol,
		Timeframe:  tf,
		Strategy:   cand.Rule,
		Direction:  cand.Direction,
		Entry:      cand.Entry,
		Stop:       cand.Stop,
		Target:     cand.Target,
		Confidence: cand.Confidence,
		Risk:       risk,
		Reward:     reward,
		RiskReward: rr,
		Status:     core.SignalStatusNew,
		Notes:      cand.Rationale,
	}, nil
}

func cooldownKey(symbol string, dir core.Direction) string {
	return symbol + "|" + string(dir)
}
