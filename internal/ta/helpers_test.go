package ta

import (
	"testing"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

var fixtureStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds a valid hourly candle series tracking the given
// closes. Each bar opens at the prior close with a small wick each side.
func candlesFromCloses(closes []float64) []core.Candle {
	candles := make([]core.Candle, len(closes))
	prev := closes[0]
	for i, c := range closes {
		open := prev
		hi, lo := open, open
		if c > hi {
			hi = c
		}
		if c < lo {
			lo = c
		}
		candles[i] = core.Candle{
			Time:   fixtureStart.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   hi + 0.2,
			Low:    lo - 0.2,
			Close:  c,
			Volume: 1000,
		}
		prev = c
	}
	return candles
}

func requireValid(t *testing.T, candles []core.Candle) {
	t.Helper()
	for i, c := range candles {
		if !c.IsValid() {
			t.Fatalf("fixture candle %d violates OHLC invariant: %+v", i, c)
		}
	}
}
