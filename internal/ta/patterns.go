package ta

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// BreakoutResult describes a close beyond the prior range
type BreakoutResult struct {
	Found     bool
	Direction core.Direction
	Level     float64 // broken range boundary
	Opposite  float64 // other boundary of the broken range
	Margin    float64 // distance the close cleared the boundary by
}

// Breakout checks whether the latest close escaped the high-low range of
// the preceding lookback bars by more than tolerance. Short windows yield
// no breakout.
func Breakout(candles []core.Candle, lookback int, tolerance float64) BreakoutResult {
	if lookback < 1 || len(candles) < lookback+1 {
		return BreakoutResult{}
	}

	last := candles[len(candles)-1]
	hi, lo := rangeBounds(candles[len(candles)-1-lookback : len(candles)-1])

	if last.Close > hi+tolerance {
		return BreakoutResult{
			Found:     true,
			Direction: core.DirectionLong,
			Level:     hi,
			Opposite:  lo,
			Margin:    last.Close - hi,
		}
	}
	if last.Close < lo-tolerance {
		return BreakoutResult{
			Found:     true,
			Direction: core.DirectionShort,
			Level:     lo,
			Opposite:  hi,
			Margin:    lo - last.Close,
		}
	}
	return BreakoutResult{}
}

// Retest reports whether the latest candle traded back into the band
// around level. Used after a break to confirm the level now acts as
// support or resistance.
func Retest(candles []core.Candle, level, tolerance float64) bool {
	if len(candles) == 0 {
		return false
	}
	last := candles[len(candles)-1]
	return last.Low <= level+tolerance && last.High >= level-tolerance
}

// ConsolidationResult describes a tight trading range
type ConsolidationResult struct {
	Found bool
	High  float64
	Low   float64
	Bars  int
}

// Consolidation checks whether the last bars candles stayed inside a range
// no wider than maxRange.
func Consolidation(candles []core.Candle, bars int, maxRange float64) ConsolidationResult {
	if bars < 2 || len(candles) < bars || maxRange <= 0 {
		return ConsolidationResult{}
	}

	hi, lo := rangeBounds(candles[len(candles)-bars:])
	if hi-lo > maxRange {
		return ConsolidationResult{}
	}
	return ConsolidationResult{Found: true, High: hi, Low: lo, Bars: bars}
}

// OrderBlockResult describes the body zone of a strong momentum candle
type OrderBlockResult struct {
	Found     bool
	Top       float64
	Bottom    float64
	Direction core.Direction // side the zone supports on a retest
	Index     int            // offset into the scanned window
}

// OrderBlock scans the last lookback bars (excluding the current one) for
// the most recent candle whose body is at least minBody, and returns its
// body zone. A bullish block supports longs, a bearish block shorts.
func OrderBlock(candles []core.Candle, lookback int, minBody float64) OrderBlockResult {
	if lookback < 1 || len(candles) < 2 || minBody <= 0 {
		return OrderBlockResult{}
	}

	end := len(candles) - 1 // exclude the forming/current bar
	start := end - lookback
	if start < 0 {
		start = 0
	}

	for i := end - 1; i >= start; i-- {
		c := candles[i]
		if c.Body() < minBody {
			continue
		}
		dir := core.DirectionShort
		if c.Bullish() {
			dir = core.DirectionLong
		}
		return OrderBlockResult{
			Found:     true,
			Top:       c.BodyTop(),
			Bottom:    c.BodyBottom(),
			Direction: dir,
			Index:     i,
		}
	}
	return OrderBlockResult{}
}

// BullishReversal detects a bullish engulfing or hammer at the latest bar
func BullishReversal(prev, cur core.Candle) bool {
	// Engulfing: bearish bar fully covered by a bullish body
	if cur.Bullish() && !prev.Bullish() &&
		cur.BodyBottom() <= prev.BodyBottom() && cur.BodyTop() >= prev.BodyTop() &&
		cur.Body() > 0 {
		return true
	}
	// Hammer: long lower wick, close in the upper third of the range
	r := cur.Range()
	if r <= 0 {
		return false
	}
	lowerWick := cur.BodyBottom() - cur.Low
	return lowerWick >= 2*cur.Body() && cur.Close >= cur.High-r/3
}

// BearishReversal detects a bearish engulfing or shooting star at the
// latest bar
func BearishReversal(prev, cur core.Candle) bool {
	if !cur.Bullish() && prev.Bullish() &&
		cur.BodyBottom() <= prev.BodyBottom() && cur.BodyTop() >= prev.BodyTop() &&
		cur.Body() > 0 {
		return true
	}
	r := cur.Range()
	if r <= 0 {
		return false
	}
	upperWick := cur.High - cur.BodyTop()
	return upperWick >= 2*cur.Body() && cur.Close <= cur.Low+r/3
}

// StructureBreak reports whether the latest close broke past the most
// recent swing in the trade direction: above the last swing high for
// longs, below the last swing low for shorts.
func StructureBreak(candles []core.Candle, swings []SwingPoint, dir core.Direction) bool {
	if len(candles) == 0 {
		return false
	}
	last := candles[len(candles)-1]

	if dir == core.DirectionLong {
		sw, ok := LastSwing(swings, true)
		return ok && last.Close > sw.Price
	}
	sw, ok := LastSwing(swings, false)
	return ok && last.Close < sw.Price
}

func rangeBounds(candles []core.Candle) (hi, lo float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	hi, lo = candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	return hi, lo
}
