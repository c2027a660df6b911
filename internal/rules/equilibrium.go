package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// MomentumEquilibrium fires on a pullback to the 50% level of a strong
// momentum leg, in the direction of the leg, with trend agreement.
type MomentumEquilibrium struct{}

func (MomentumEquilibrium) Name() string { return "momentum_equilibrium" }

func (MomentumEquilibrium) Evaluate(ctx Context) *core.Candidate {
	if !ctx.HasZone || ctx.Zone.Range() <= 0 || ctx.Zone.SwingLow <= 0 {
		return nil
	}

	p := ctx.Params
	legPct := ctx.Zone.Range() / ctx.Zone.SwingLow * 100
	if legPct < p.MomentumThresholdPct && !recentBurst(ctx.Closes, p) {
		return nil
	}

	tol := ctx.Tolerance()
	mid := ctx.Zone.Level(0.5)

	if ctx.Zone.Up {
		if ctx.Trend != ta.TrendUp {
			return nil
		}
		if ctx.Last.Low > mid+tol || ctx.Last.Close < mid-tol {
			return nil
		}

		entry := ctx.Last.Close
		stop := ctx.Zone.Level(0.618) - tol
		risk := entry - stop
		if risk <= 0 {
			return nil
		}

		s := newScore(0.55, "momentum leg pullback to equilibrium")
		s.bonus(0.15, legPct >= 2*p.MomentumThresholdPct, "strong momentum leg")
		s.bonus(0.10, ta.BullishReversal(ctx.Prev, ctx.Last), "bullish reversal candle")
		s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
		s.bonus(0.05, ctx.RSI >= 50, "momentum supportive")

		return &core.Candidate{
			Rule:       "momentum_equilibrium",
			Direction:  core.DirectionLong,
			Entry:      entry,
			Stop:       stop,
			Target:     entry + p.RiskReward*risk,
			Confidence: s.confidence(),
			Rationale:  s.rationale(),
		}
	}

	if ctx.Trend != ta.TrendDown {
		return nil
	}
	if ctx.Last.High < mid-tol || ctx.Last.Close > mid+tol {
		return nil
	}

	entry := ctx.Last.Close
	stop := ctx.Zone.Level(0.618) + tol
	risk := stop - entry
	if risk <= 0 {
		return nil
	}

	s := newScore(0.55, "momentum leg rally to equilibrium")
	s.bonus(0.15, legPct >= 2*p.MomentumThresholdPct, "strong momentum leg")
	s.bonus(0.10, ta.BearishReversal(ctx.Prev, ctx.Last), "bearish reversal candle")
	s.bonus(0.05, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
	s.bonus(0.05, ctx.RSI <= 50, "momentum supportive")

	return &core.Candidate{
		Rule:       "momentum_equilibrium",
		Direction:  core.DirectionShort,
		Entry:      entry,
		Stop:       stop,
		Target:     entry - p.RiskReward*risk,
		Confidence: s.confidence(),
		Rationale:  s.rationale(),
	}
}

// recentBurst reports a momentum episode visible in the raw closes even
// when the swing leg itself is modest, e.g. a sharp move whose swing
// points have not been confirmed yet.
func recentBurst(closes []float64, p Params) bool {
	change := ta.PercentChange(closes, p.SwingLookback)
	if change < 0 {
		change = -change
	}
	return change >= p.MomentumThresholdPct
}
