package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// OrderBlockRetest fires when price re-enters the body zone of a recent
// strong momentum candle without printing an opposing reversal pattern.
type OrderBlockRetest struct{}

func (OrderBlockRetest) Name() string { return "order_block_retest" }

func (OrderBlockRetest) Evaluate(ctx Context) *core.Candidate {
	p := ctx.Params
	if ctx.ATR <= 0 {
		return nil
	}

	minBody := p.OrderBlockBodyATR * ctx.ATR
	ob := ta.OrderBlock(ctx.Candles, p.OrderBlockLookback, minBody)
	if !ob.Found {
		return nil
	}

	tol := ctx.Tolerance()

	if ob.Direction == core.DirectionLong {
		// Re-entry into the demand zone from above.
		if ctx.Last.Low > ob.Top || ctx.Last.Close < ob.Bottom-tol {
			return nil
		}
		if ta.BearishReversal(ctx.Prev, ctx.Last) {
			return nil
		}

		entry := ctx.Last.Close
		stop := ob.Bottom - tol
		risk := entry - stop
		if risk <= 0 {
			return nil
		}

		s := newScore(0.5, "re-entry into bullish order block")
		s.bonus(0.15, ctx.Trend == ta.TrendUp, "uptrend intact")
		s.bonus(0.10, blockBody(ctx.Candles, ob.Index) >= 1.5*minBody, "strong block candle")
		s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
		s.bonus(0.05, ctx.RSI >= 45, "momentum supportive")

		return &core.Candidate{
			Rule:       "order_block_retest",
			Direction:  core.DirectionLong,
			Entry:      entry,
			Stop:       stop,
			Target:     entry + p.RiskReward*risk,
			Confidence: s.confidence(),
			Rationale:  s.rationale(),
		}
	}

	// Re-entry into the supply zone from below.
	if ctx.Last.High < ob.Bottom || ctx.Last.Close > ob.Top+tol {
		return nil
	}
	if ta.BullishReversal(ctx.Prev, ctx.Last) {
		return nil
	}

	entry := ctx.Last.Close
	stop := ob.Top + tol
	risk := stop - entry
	if risk <= 0 {
		return nil
	}

	s := newScore(0.5, "re-entry into bearish order block")
	s.bonus(0.15, ctx.Trend == ta.TrendDown, "downtrend intact")
	s.bonus(0.10, blockBody(ctx.Candles, ob.Index) >= 1.5*minBody, "strong block candle")
	s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
	s.bonus(0.05, ctx.RSI <= 55, "momentum supportive")

	return &core.Candidate{
		Rule:       "order_block_retest",
		Direction:  core.DirectionShort,
		Entry:      entry,
		Stop:       stop,
		Target:     entry - p.RiskReward*risk,
		Confidence: s.confidence(),
		Rationale:  s.rationale(),
	}
}

func blockBody(candles []core.Candle, index int) float64 {
	if index < 0 || index >= len(candles) {
		return 0
	}
	return candles[index].Body()
}
