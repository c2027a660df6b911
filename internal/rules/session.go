package rules

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// SessionBreakout fires when a candle inside the configured UTC session
// window closes beyond the prior range. The stop rests at the opposite
// range boundary.
type SessionBreakout struct{}

func (SessionBreakout) Name() string { return "session_breakout" }

func (SessionBreakout) Evaluate(ctx Context) *core.Candidate {
	p := ctx.Params

	hour := ctx.Last.Time.UTC().Hour()
	if !inSession(hour, p.SessionStartHour, p.SessionEndHour) {
		return nil
	}

	br := ta.Breakout(ctx.Candles, p.RangeLookback, ctx.Tolerance())
	if !br.Found {
		return nil
	}

	entry := ctx.Last.Close
	var stop, risk float64
	if br.Direction == core.DirectionLong {
		stop = br.Opposite
		risk = entry - stop
	} else {
		stop = br.Opposite
		risk = stop - entry
	}
	if risk <= 0 {
		return nil
	}

	s := newScore(0.5, "session range breakout")
	s.bonus(0.15, trendMatches(ctx.Trend, br.Direction), "breakout with the trend")
	s.bonus(0.10, ctx.ATR > 0 && br.Margin >= 0.5*ctx.ATR, "decisive breakout margin")
	s.bonus(0.10, ctx.AvgVolume > 0 && ctx.Last.Volume > ctx.AvgVolume, "volume above average")
	s.bonus(0.05, momentumConfirms(ctx.RSI, br.Direction), "momentum confirms")

	var target float64
	if br.Direction == core.DirectionLong {
		target = entry + p.RiskReward*risk
	} else {
		target = entry - p.RiskReward*risk
	}

	return &core.Candidate{
		Rule:       "session_breakout",
		Direction:  br.Direction,
		Entry:      entry,
		Stop:       stop,
		Target:     target,
		Confidence: s.confidence(),
		Rationale:  s.rationale(),
	}
}

// inSession reports whether hour falls in [start, end). A start past the
// end wraps around midnight, e.g. 22 to 2 covers the late US session.
func inSession(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

func trendMatches(trend ta.TrendDirection, dir core.Direction) bool {
	if dir == core.DirectionLong {
		return trend == ta.TrendUp
	}
	return trend == ta.TrendDown
}

func momentumConfirms(rsi float64, dir core.Direction) bool {
	if dir == core.DirectionLong {
		return rsi > 55
	}
	return rsi < 45
}
