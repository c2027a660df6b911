package rules

import (
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// candlesFromCloses builds an hourly series where each candle opens at the
// previous close and carries a small wick on both sides of the body.
func candlesFromCloses(closes []float64) []core.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]core.Candle, 0, len(closes))
	open := closes[0]
	for i, c := range closes {
		hi, lo := open, c
		if lo > hi {
			hi, lo = lo, hi
		}
		candles = append(candles, core.Candle{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   hi + 0.2,
			Low:    lo - 0.2,
			Close:  c,
			Volume: 1000,
		})
		open = c
	}
	return candles
}
