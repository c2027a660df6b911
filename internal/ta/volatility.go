package ta

import (
	"math"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// TrueRange is the greatest of the bar range and the gaps to the previous
// close.
func TrueRange(c, prev core.Candle) float64 {
	tr := c.High - c.Low
	if d := math.Abs(c.High - prev.Close); d > tr {
		tr = d
	}
	if d := math.Abs(c.Low - prev.Close); d > tr {
		tr = d
	}
	return tr
}

// ATR is the simple rolling mean of the true range over the last period
// bars. Needs period+1 candles; fewer yields 0.
func ATR(candles []core.Candle, period int) float64 {
	if period < 1 || len(candles) < period+1 {
		return 0
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += TrueRange(candles[i], candles[i-1])
	}
	return sum / float64(period)
}
