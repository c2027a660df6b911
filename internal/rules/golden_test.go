package rules

import (
	"math"
	"testing"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

// Uptrend leg 100 -> 110 pulled back to the 61.8% level (103.82) with a
// bullish engulfing candle.
func goldenLongContext() Context {
	return Context{
		Prev:    core.Candle{Open: 105, High: 105.5, Low: 103.9, Close: 104.2},
		Last:    core.Candle{Open: 104.0, High: 105.6, Low: 103.6, Close: 105.4, Volume: 1000},
		Zone:    ta.Retracement(100, 110, true),
		HasZone: true,
		Trend:   ta.TrendUp,
		ATR:     1.0,
		RSI:     45,
		Params:  DefaultParams(),
	}
}

func TestGoldenRetracement_Long(t *testing.T) {
	ctx := goldenLongContext()

	cand := GoldenRetracement{}.Evaluate(ctx)
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.Direction != core.DirectionLong {
		t.Errorf("direction = %s, want long", cand.Direction)
	}
	if cand.Stop >= ctx.Zone.SwingLow {
		t.Errorf("stop %f not below the swing low %f", cand.Stop, ctx.Zone.SwingLow)
	}

	risk := cand.Entry - cand.Stop
	wantTarget := cand.Entry + 2*risk
	if math.Abs(cand.Target-wantTarget) > 1e-9 {
		t.Errorf("target = %f, want entry + 2x risk = %f", cand.Target, wantTarget)
	}

	// base + trend + reversal + momentum reset (no volume average set)
	if math.Abs(cand.Confidence-0.85) > 1e-9 {
		t.Errorf("confidence = %f, want 0.85", cand.Confidence)
	}
	if cand.Rationale == "" {
		t.Error("rationale should name the matched conditions")
	}
}

func TestGoldenRetracement_NoTouch(t *testing.T) {
	ctx := goldenLongContext()
	// Price well above the golden level: no pullback touch.
	ctx.Last = core.Candle{Open: 108, High: 109, Low: 107.5, Close: 108.5}

	if cand := (GoldenRetracement{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate without a level touch: %+v", cand)
	}
}

func TestGoldenRetracement_NoConfirmation(t *testing.T) {
	ctx := goldenLongContext()
	// Touches the level but keeps drifting down: no reversal, no break of
	// the prior bar's high.
	ctx.Prev = core.Candle{Open: 104.8, High: 105.2, Low: 104.1, Close: 104.3}
	ctx.Last = core.Candle{Open: 104.3, High: 104.5, Low: 103.6, Close: 103.9}

	if cand := (GoldenRetracement{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate without confirmation: %+v", cand)
	}
}

func TestGoldenRetracement_Short(t *testing.T) {
	// Down leg 110 -> 100 rallied back to the 61.8% level (106.18) with a
	// bearish engulfing candle.
	ctx := Context{
		Prev:    core.Candle{Open: 105, High: 106.1, Low: 104.5, Close: 105.8},
		Last:    core.Candle{Open: 106.0, High: 106.4, Low: 104.4, Close: 104.6, Volume: 1000},
		Zone:    ta.Retracement(100, 110, false),
		HasZone: true,
		Trend:   ta.TrendDown,
		ATR:     1.0,
		RSI:     55,
		Params:  DefaultParams(),
	}

	cand := GoldenRetracement{}.Evaluate(ctx)
	if cand == nil {
		t.Fatal("expected a short candidate")
	}
	if cand.Direction != core.DirectionShort {
		t.Errorf("direction = %s, want short", cand.Direction)
	}
	if cand.Stop <= ctx.Zone.SwingHigh {
		t.Errorf("stop %f not above the swing high %f", cand.Stop, ctx.Zone.SwingHigh)
	}
	if cand.Target >= cand.Entry {
		t.Error("short target should sit below the entry")
	}
}

func TestGoldenRetracement_NoZone(t *testing.T) {
	ctx := goldenLongContext()
	ctx.HasZone = false

	if cand := (GoldenRetracement{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate without a swing leg: %+v", cand)
	}
}
