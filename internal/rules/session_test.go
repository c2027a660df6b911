package rules

import (
	"math"
	"testing"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// breakoutSeries alternates inside a 100-104 range and closes the last bar
// at 107, clear of the prior-range high (104.2).
func breakoutSeries(lastHour int) []core.Candle {
	closes := make([]float64, 21)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 104
		}
	}
	closes[20] = 107

	candles := candlesFromCloses(closes)
	last := len(candles) - 1
	candles[last].Time = time.Date(2024, 1, 2, lastHour, 0, 0, 0, time.UTC)
	return candles
}

func sessionContext(candles []core.Candle) Context {
	return Context{
		Candles: candles,
		Last:    candles[len(candles)-1],
		Prev:    candles[len(candles)-2],
		Trend:   ta.TrendUp,
		ATR:     1.0,
		RSI:     60,
		Params:  DefaultParams(),
	}
}

func TestSessionBreakout_Long(t *testing.T) {
	ctx := sessionContext(breakoutSeries(8))

	cand := SessionBreakout{}.Evaluate(ctx)
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.Direction != core.DirectionLong {
		t.Errorf("direction = %s, want long", cand.Direction)
	}

	// Stop at the opposite boundary of the broken range.
	if math.Abs(cand.Stop-99.8) > 1e-9 {
		t.Errorf("stop = %f, want 99.8", cand.Stop)
	}
	risk := cand.Entry - cand.Stop
	if math.Abs(cand.Target-(cand.Entry+2*risk)) > 1e-9 {
		t.Errorf("target = %f, want entry + 2x risk", cand.Target)
	}

	// base + trend + margin; volume equals the average, RSI confirms
	if math.Abs(cand.Confidence-0.80) > 1e-9 {
		t.Errorf("confidence = %f, want 0.80", cand.Confidence)
	}
}

// A window wrapping midnight covers the hours on both sides of it.
func TestSessionBreakout_OvernightWindow(t *testing.T) {
	params := DefaultParams()
	params.SessionStartHour = 22
	params.SessionEndHour = 2

	for _, hour := range []int{23, 1} {
		ctx := sessionContext(breakoutSeries(hour))
		ctx.Params = params
		if cand := (SessionBreakout{}).Evaluate(ctx); cand == nil {
			t.Errorf("no candidate at hour %d inside the overnight window", hour)
		}
	}

	ctx := sessionContext(breakoutSeries(12))
	ctx.Params = params
	if cand := (SessionBreakout{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate at noon, outside the overnight window: %+v", cand)
	}
}

func TestSessionBreakout_OutsideSession(t *testing.T) {
	ctx := sessionContext(breakoutSeries(15))

	if cand := (SessionBreakout{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate outside the session window: %+v", cand)
	}
}

func TestSessionBreakout_InsideRange(t *testing.T) {
	candles := breakoutSeries(8)
	candles[len(candles)-1].Close = 102
	candles[len(candles)-1].High = 104.2
	candles[len(candles)-1].Low = 101.8
	ctx := sessionContext(candles)

	if cand := (SessionBreakout{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate without a breakout: %+v", cand)
	}
}
