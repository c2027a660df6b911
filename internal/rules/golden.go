package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// GoldenRetracement fires when price pulls back to the 61.8% level of the
// most recent swing leg and prints a reversal back in the leg's direction.
type GoldenRetracement struct{}

func (GoldenRetracement) Name() string { return "golden_retracement" }

func (GoldenRetracement) Evaluate(ctx Context) *core.Candidate {
	if !ctx.HasZone || ctx.Zone.Range() <= 0 {
		return nil
	}

	tol := ctx.Tolerance()
	level := ctx.Zone.Level(0.618)

	if ctx.Zone.Up {
		// Pullback into the golden level, holding at or above it.
		if ctx.Last.Low > level+tol || ctx.Last.Close < level-tol {
			return nil
		}
		reversal := ta.BullishReversal(ctx.Prev, ctx.Last)
		pullbackBreak := ctx.Last.Close > ctx.Prev.High
		if !reversal && !pullbackBreak {
			return nil
		}

		entry := ctx.Last.Close
		stop := ctx.Zone.SwingLow - tol
		risk := entry - stop
		if risk <= 0 {
			return nil
		}

		s := newScore(0.5, "pullback to 61.8% retracement")
		s.bonus(0.15, ctx.Trend == ta.TrendUp, "uptrend intact")
		s.bonus(0.15, reversal, "bullish reversal candle")
		s.bonus(0.10, pullbackBreak, "pullback structure broken")
		s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
		s.bonus(0.05, ctx.RSI <= 50, "momentum reset")

		return &core.Candidate{
			Rule:       "golden_retracement",
			Direction:  core.DirectionLong,
			Entry:      entry,
			Stop:       stop,
			Target:     entry + ctx.Params.RiskReward*risk,
			Confidence: s.confidence(),
			Rationale:  s.rationale(),
		}
	}

	// Down leg: rally into the golden level, holding at or below it.
	if ctx.Last.High < level-tol || ctx.Last.Close > level+tol {
		return nil
	}
	reversal := ta.BearishReversal(ctx.Prev, ctx.Last)
	pullbackBreak := ctx.Last.Close < ctx.Prev.Low
	if !reversal && !pullbackBreak {
		return nil
	}

	entry := ctx.Last.Close
	stop := ctx.Zone.SwingHigh + tol
	risk := stop - entry
	if risk <= 0 {
		return nil
	}

	s := newScore(0.5, "rally to 61.8% retracement")
	s.bonus(0.15, ctx.Trend == ta.TrendDown, "downtrend intact")
	s.bonus(0.15, reversal, "bearish reversal candle")
	s.bonus(0.10, pullbackBreak, "pullback structure broken")
	s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
	s.bonus(0.05, ctx.RSI >= 50, "momentum reset")

	return &core.Candidate{
		Rule:       "golden_retracement",
		Direction:  core.DirectionShort,
		Entry:      entry,
		Stop:       stop,
		Target:     entry - ctx.Params.RiskReward*risk,
		Confidence: s.confidence(),
		Rationale:  s.rationale(),
	}
}
