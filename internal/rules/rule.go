// Package rules implements the signal rule catalogue: five independent
// pattern-matching rules evaluated per candle against the ta toolkit's
// outputs, and the engine that selects one candidate among them.
package rules

import (
	"strings"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// Params holds the numeric thresholds shared by the rules. Fixed at
// engine construction, never mutated afterwards.
type Params struct {
	SwingLookback    int
	MinSwingStrength int
	TrendLookback    int
	TrendMethod      ta.TrendMethod
	ATRPeriod        int
	RSIPeriod        int
	VolumeLookback   int

	// FibToleranceATR scales the ATR into the price band accepted as
	// "at" a level.
	FibToleranceATR float64

	// RiskReward sets the target distance as a multiple of the risk
	// distance.
	RiskReward float64

	MomentumThresholdPct float64 // min leg size (%) for a momentum episode

	SessionStartHour int // UTC, inclusive
	SessionEndHour   int // UTC, exclusive
	RangeLookback    int // prior-range bars for the session breakout

	ConsolidationBars   int
	ConsolidationMaxATR float64

	OrderBlockLookback int
	OrderBlockBodyATR  float64

	ExtremeLookback int // window for the ATH/ATL reference
	ExtremeBreakBar int // recent bars in which the break must have happened
}

// DefaultParams returns the stock thresholds
func DefaultParams() Params {
	return Params{
		SwingLookback:        5,
		MinSwingStrength:     3,
		TrendLookback:        50,
		TrendMethod:          ta.TrendMethodSwing,
		ATRPeriod:            14,
		RSIPeriod:            14,
		VolumeLookback:       20,
		FibToleranceATR:      0.25,
		RiskReward:           2.0,
		MomentumThresholdPct: 1.5,
		SessionStartHour:     7,
		SessionEndHour:       10,
		RangeLookback:        20,
		ConsolidationBars:    5,
		ConsolidationMaxATR:  1.5,
		OrderBlockLookback:   20,
		OrderBlockBodyATR:    1.5,
		ExtremeLookback:      60,
		ExtremeBreakBar:      5,
	}
}

// Enabled is the per-rule enable set, fixed at engine construction.
type Enabled struct {
	GoldenRetracement   bool
	ExtremeRetest       bool
	MomentumEquilibrium bool
	SessionBreakout     bool
	OrderBlockRetest    bool
}

// AllEnabled returns an enable set with every rule on
func AllEnabled() Enabled {
	return Enabled{
		GoldenRetracement:   true,
		ExtremeRetest:       true,
		MomentumEquilibrium: true,
		SessionBreakout:     true,
		OrderBlockRetest:    true,
	}
}

// Context is the per-candle analysis snapshot shared by all rules, so the
// toolkit runs once per evaluation rather than once per rule.
type Context struct {
	Candles   []core.Candle // window through the evaluated candle
	Last      core.Candle
	Prev      core.Candle
	Closes    []float64
	Swings    []ta.SwingPoint
	Zone      ta.FibZone
	HasZone   bool
	Trend     ta.TrendDirection
	ATR       float64
	RSI       float64
	AvgVolume float64
	Params    Params
}

// Tolerance returns the ATR-scaled price band used for level touches,
// with a small price-relative fallback when ATR is unavailable.
func (c Context) Tolerance() float64 {
	if c.ATR > 0 {
		return c.Params.FibToleranceATR * c.ATR
	}
	return c.Last.Close * 0.001
}

// Rule is one entry of the catalogue. Evaluate returns nil to abstain.
type Rule interface {
	Name() string
	Evaluate(ctx Context) *core.Candidate
}

// score accumulates an additive confidence plus the matching rationale
// fragments.
type score struct {
	value   float64
	reasons []string
}

func newScore(base float64, reason string) *score {
	return &score{value: base, reasons: []string{reason}}
}

// bonus adds v when the condition holds
func (s *score) bonus(v float64, when bool, reason string) {
	if when {
		s.value += v
		s.reasons = append(s.reasons, reason)
	}
}

// confidence returns the accumulated value capped at 1.0
func (s *score) confidence() float64 {
	if s.value > 1 {
		return 1
	}
	return s.value
}

func (s *score) rationale() string {
	return strings.Join(s.reasons, "; ")
}
