package rules

import (
	"math"
	"testing"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/ta"
)

func extremeParams() Params {
	p := DefaultParams()
	p.ExtremeLookback = 10
	p.ExtremeBreakBar = 3
	p.ConsolidationBars = 3
	return p
}

// Reference high 105.0, broken by a close at 105.6, then retested from
// above.
func extremeRetestContext() Context {
	closes := []float64{
		100, 101, 102, 103, 104, 104.8, 104, 103, 104, 104.5, // reference
		105.6, 105.3, 105.1, // break and retest
	}
	candles := candlesFromCloses(closes)
	return Context{
		Candles: candles,
		Last:    candles[len(candles)-1],
		Prev:    candles[len(candles)-2],
		Trend:   ta.TrendUp,
		ATR:     0.8,
		RSI:     55,
		Params:  extremeParams(),
	}
}

func TestExtremeRetest_Long(t *testing.T) {
	ctx := extremeRetestContext()

	cand := ExtremeRetest{}.Evaluate(ctx)
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.Direction != core.DirectionLong {
		t.Errorf("direction = %s, want long", cand.Direction)
	}

	// Stop half an ATR plus the tolerance below the broken high.
	wantStop := 105.0 - 0.5*ctx.ATR - ctx.Tolerance()
	if math.Abs(cand.Stop-wantStop) > 1e-9 {
		t.Errorf("stop = %f, want %f", cand.Stop, wantStop)
	}
	risk := cand.Entry - cand.Stop
	if math.Abs(cand.Target-(cand.Entry+2*risk)) > 1e-9 {
		t.Errorf("target = %f, want entry + 2x risk", cand.Target)
	}
}

func TestExtremeRetest_NoBreak(t *testing.T) {
	ctx := extremeRetestContext()
	// Recent bars stay inside the reference range.
	closes := []float64{
		100, 101, 102, 103, 104, 104.8, 104, 103, 104, 104.5,
		104.2, 104.0, 103.8,
	}
	ctx.Candles = candlesFromCloses(closes)
	ctx.Last = ctx.Candles[len(ctx.Candles)-1]
	ctx.Prev = ctx.Candles[len(ctx.Candles)-2]

	if cand := (ExtremeRetest{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate without an extreme break: %+v", cand)
	}
}

func TestExtremeRetest_InsufficientHistory(t *testing.T) {
	ctx := extremeRetestContext()
	ctx.Candles = ctx.Candles[:5]

	if cand := (ExtremeRetest{}).Evaluate(ctx); cand != nil {
		t.Errorf("candidate with a short window: %+v", cand)
	}
}

func TestExtremeRetest_ShortSide(t *testing.T) {
	// Mirror: reference low 99.8 broken downward, then retested from below.
	closes := []float64{
		105, 104, 103, 102, 101, 100.2, 101, 102, 101, 100.5,
		99.2, 99.6, 99.7,
	}
	candles := candlesFromCloses(closes)
	ctx := Context{
		Candles: candles,
		Last:    candles[len(candles)-1],
		Prev:    candles[len(candles)-2],
		Trend:   ta.TrendDown,
		ATR:     0.8,
		RSI:     45,
		Params:  extremeParams(),
	}

	cand := ExtremeRetest{}.Evaluate(ctx)
	if cand == nil {
		t.Fatal("expected a short candidate")
	}
	if cand.Direction != core.DirectionShort {
		t.Errorf("direction = %s, want short", cand.Direction)
	}
	if cand.Stop <= cand.Entry || cand.Target >= cand.Entry {
		t.Errorf("short geometry wrong: entry %f stop %f target %f", cand.Entry, cand.Stop, cand.Target)
	}
}
