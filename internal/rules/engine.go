package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
	"go.uber.org/zap"
)

// minEvaluationIndex is the hard floor of history every evaluation needs,
// independent of the configured trend lookback.
const minEvaluationIndex = 60

// Engine evaluates the rule catalogue against a candle window.
// Stateless between calls apart from its immutable configuration, so one
// engine instance may serve many sequential evaluations; concurrent
// backtests should each construct their own.
type Engine struct {
	params   Params
	rules    []Rule
	minIndex int
	logger   *zap.Logger
}

// NewEngine builds an engine with the catalogue filtered by the enable
// set. Catalogue order is fixed and doubles as the tie-break priority.
func NewEngine(params Params, enabled Enabled, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	minIndex := params.TrendLookback
	if minIndex < minEvaluationIndex {
		minIndex = minEvaluationIndex
	}

	return &Engine{
		params:   params,
		rules:    catalogue(enabled),
		minIndex: minIndex,
		logger:   logger,
	}
}

// catalogue returns the enabled rules in priority order
func catalogue(enabled Enabled) []Rule {
	var rules []Rule
	if enabled.GoldenRetracement {
		rules = append(rules, GoldenRetracement{})
	}
	if enabled.ExtremeRetest {
		rules = append(rules, ExtremeRetest{})
	}
	if enabled.MomentumEquilibrium {
		rules = append(rules, MomentumEquilibrium{})
	}
	if enabled.SessionBreakout {
		rules = append(rules, SessionBreakout{})
	}
	if enabled.OrderBlockRetest {
		rules = append(rules, OrderBlockRetest{})
	}
	return rules
}

// newEngineWithRules is a test seam for injecting a custom catalogue
func newEngineWithRules(params Params, rules []Rule, logger *zap.Logger) *Engine {
	e := NewEngine(params, Enabled{}, logger)
	e.rules = rules
	return e
}

// RuleNames lists the active catalogue in priority order
func (e *Engine) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Evaluate runs every enabled rule on the candle at index and returns the
// winning candidate, or nil when no rule triggers. Insufficient or
// malformed data yields nil, never an error. On equal confidence the rule
// earlier in the catalogue wins.
func (e *Engine) Evaluate(candles []core.Candle, index int) *core.Candidate {
	if index < e.minIndex || index >= len(candles) {
		return nil
	}

	window := candles[:index+1]
	last := window[len(window)-1]
	prev := window[len(window)-2]
	if !last.IsValid() || !prev.IsValid() {
		return nil
	}

	closes := ta.Closes(window)
	swings := ta.SwingPoints(window, e.params.SwingLookback, e.params.MinSwingStrength)
	zone, hasZone := ta.LatestZone(swings)

	ctx := Context{
		Candles:   window,
		Last:      last,
		Prev:      prev,
		Closes:    closes,
		Swings:    swings,
		Zone:      zone,
		HasZone:   hasZone,
		Trend:     ta.Trend(window, e.params.TrendLookback, e.params.TrendMethod),
		ATR:       ta.ATR(window, e.params.ATRPeriod),
		RSI:       ta.RSI(closes, e.params.RSIPeriod),
		AvgVolume: avgVolume(window, e.params.VolumeLookback),
		Params:    e.params,
	}

	var best *core.Candidate
	for _, r := range e.rules {
		cand := r.Evaluate(ctx)
		if cand == nil {
			continue
		}
		e.logger.Debug("rule triggered",
			zap.String("rule", cand.Rule),
			zap.String("direction", string(cand.Direction)),
			zap.Float64("confidence", cand.Confidence),
		)
		if best == nil || cand.Confidence > best.Confidence {
			best = cand
		}
	}

	return best
}

// avgVolume averages volume over the last lookback bars excluding the
// current one.
func avgVolume(candles []core.Candle, lookback int) float64 {
	if lookback < 1 || len(candles) < lookback+1 {
		return 0
	}
	var sum float64
	for i := len(candles) - 1 - lookback; i < len(candles)-1; i++ {
		sum += candles[i].Volume
	}
	return sum / float64(lookback)
}
