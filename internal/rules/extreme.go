package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// ExtremeRetest fires when price breaks a windowed all-time extreme,
// consolidates, and retests the broken level as support (resistance for
// shorts).
type ExtremeRetest struct{}

func (ExtremeRetest) Name() string { return "extreme_retest" }

func (ExtremeRetest) Evaluate(ctx Context) *core.Candidate {
	p := ctx.Params
	if len(ctx.Candles) < p.ExtremeLookback+p.ExtremeBreakBar || ctx.ATR <= 0 {
		return nil
	}

	tol := ctx.Tolerance()
	recent := ctx.Candles[len(ctx.Candles)-p.ExtremeBreakBar:]
	reference := ctx.Candles[len(ctx.Candles)-p.ExtremeLookback-p.ExtremeBreakBar : len(ctx.Candles)-p.ExtremeBreakBar]
	ath, atl := extremeBounds(reference)

	cons := ta.Consolidation(ctx.Candles, p.ConsolidationBars, p.ConsolidationMaxATR*ctx.ATR)

	if brokeAbove(recent, ath) && ta.Retest(ctx.Candles, ath, tol) && ctx.Last.Close >= ath-tol {
		entry := ctx.Last.Close
		stop := ath - 0.5*ctx.ATR - tol
		risk := entry - stop
		if risk <= 0 {
			return nil
		}

		s := newScore(0.5, "broken high retested as support")
		s.bonus(0.15, ctx.Trend == ta.TrendUp, "uptrend intact")
		s.bonus(0.10, cons.Found, "consolidation at the level")
		s.bonus(0.10, ta.BullishReversal(ctx.Prev, ctx.Last), "bullish reversal candle")
		s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
		s.bonus(0.05, ctx.RSI >= 50, "momentum supportive")

		return &core.Candidate{
			Rule:       "extreme_retest",
			Direction:  core.DirectionLong,
			Entry:      entry,
			Stop:       stop,
			Target:     entry + p.RiskReward*risk,
			Confidence: s.confidence(),
			Rationale:  s.rationale(),
		}
	}

	if brokeBelow(recent, atl) && ta.Retest(ctx.Candles, atl, tol) && ctx.Last.Close <= atl+tol {
		entry := ctx.Last.Close
		stop := atl + 0.5*ctx.ATR + tol
		risk := stop - entry
		if risk <= 0 {
			return nil
		}

		s := newScore(0.5, "broken low retested as resistance")
		s.bonus(0.15, ctx.Trend == ta.TrendDown, "downtrend intact")
		s.bonus(0.10, cons.Found, "consolidation at the level")
		s.bonus(0.10, ta.BearishReversal(ctx.Prev, ctx.Last), "bearish reversal candle")
		s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
		s.bonus(0.05, ctx.RSI <= 50, "momentum supportive")

		return &core.Candidate{
			Rule:       "extreme_retest",
			Direction:  core.DirectionShort,
			Entry:      entry,
			Stop:       stop,
			Target:     entry - p.RiskReward*risk,
			Confidence: s.confidence(),
			Rationale:  s.rationale(),
		}
	}

	return nil
}

// extremeBounds returns the highest high and lowest low of the window
func extremeBounds(candles []core.Candle) (hi, lo float64) {
	hi, lo = candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	return hi, lo
}

// brokeAbove reports whether any of the recent bars closed above level
func brokeAbove(candles []core.Candle, level float64) bool {
	for _, c := range candles {
		if c.Close > level {
			return true
		}
	}
	return false
}

func brokeBelow(candles []core.Candle, level float64) bool {
	for _, c := range candles {
		if c.Close < level {
			return true
		}
	}
	return false
}
