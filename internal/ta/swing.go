// Package ta provides pure technical-analysis computations over candle
// windows: swing geometry, Fibonacci zones, trend, volatility, momentum
// and range-based pattern detectors. Nothing here has side effects, and
// insufficient data always degrades to an empty or zero result.
package ta

import (
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// SwingPoint is a confirmed local price extremum
type SwingPoint struct {
	Time     time.Time
	Price    float64
	IsHigh   bool
	Strength int // comparisons won on the weaker side
}

// SwingPoints detects swing highs and lows. A bar is a swing high when its
// high exceeds the highs of at least minStrength of the lookback bars on
// each side (mirror rule for swing lows). Results are ordered by time.
// Fewer than 2*lookback+1 bars yields no swings.
func SwingPoints(candles []core.Candle, lookback, minStrength int) []SwingPoint {
	if lookback < 1 || minStrength < 1 || len(candles) < 2*lookback+1 {
		return nil
	}
	if minStrength > lookback {
		minStrength = lookback
	}

	var swings []SwingPoint
	// Adjacent bars sharing the exact extreme price describe the same
	// structural point; keep only the first of such a run.
	lastIdx := map[bool]int{true: -1, false: -1}
	lastPrice := map[bool]float64{}

	for i := lookback; i < len(candles)-lookback; i++ {
		c := candles[i]

		var hiLeft, hiRight, loLeft, loRight int
		for j := 1; j <= lookback; j++ {
			if c.High > candles[i-j].High {
				hiLeft++
			}
			if c.High > candles[i+j].High {
				hiRight++
			}
			if c.Low < candles[i-j].Low {
				loLeft++
			}
			if c.Low < candles[i+j].Low {
				loRight++
			}
		}

		if hiLeft >= minStrength && hiRight >= minStrength {
			if !(lastIdx[true] >= 0 && i-lastIdx[true] <= lookback && c.High == lastPrice[true]) {
				swings = append(swings, SwingPoint{
					Time:     c.Time,
					Price:    c.High,
					IsHigh:   true,
					Strength: minInt(hiLeft, hiRight),
				})
			}
			lastIdx[true] = i
			lastPrice[true] = c.High
		}
		if loLeft >= minStrength && loRight >= minStrength {
			if !(lastIdx[false] >= 0 && i-lastIdx[false] <= lookback && c.Low == lastPrice[false]) {
				swings = append(swings, SwingPoint{
					Time:     c.Time,
					Price:    c.Low,
					IsHigh:   false,
					Strength: minInt(loLeft, loRight),
				})
			}
			lastIdx[false] = i
			lastPrice[false] = c.Low
		}
	}

	return swings
}

// LastSwing returns the most recent swing of the given type
func LastSwing(swings []SwingPoint, isHigh bool) (SwingPoint, bool) {
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].IsHigh == isHigh {
			return swings[i], true
		}
	}
	return SwingPoint{}, false
}

// RecentSwings returns the last n swings of the given type, newest last
func RecentSwings(swings []SwingPoint, isHigh bool, n int) []SwingPoint {
	var out []SwingPoint
	for i := len(swings) - 1; i >= 0 && len(out) < n; i-- {
		if swings[i].IsHigh == isHigh {
			out = append(out, swings[i])
		}
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
