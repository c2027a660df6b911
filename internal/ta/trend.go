package ta

import (
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// TrendDirection is the detected market regime
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendSideways TrendDirection = "sideways"
)

// TrendMethod selects the trend detection algorithm
type TrendMethod string

const (
	TrendMethodSwing      TrendMethod = "swing"
	TrendMethodMA         TrendMethod = "ma"
	TrendMethodRegression TrendMethod = "regression"
)

// Minimum normalized regression slope per bar to call a trend. Flat
// markets produce tiny slopes of arbitrary sign; anything below this
// threshold reads as sideways.
const minSlopePerBar = 0.0005

// Trend detects the direction over the last lookback bars using the given
// method. Insufficient data always yields sideways.
func Trend(candles []core.Candle, lookback int, method TrendMethod) TrendDirection {
	if lookback < 2 || len(candles) < lookback {
		return TrendSideways
	}
	window := candles[len(candles)-lookback:]

	switch method {
	case TrendMethodMA:
		return trendByMA(window)
	case TrendMethodRegression:
		return trendByRegression(window)
	default:
		return trendBySwings(window)
	}
}

// trendBySwings compares consecutive swing highs and lows: higher highs
// with higher lows is an uptrend, lower highs with lower lows a downtrend.
func trendBySwings(window []core.Candle) TrendDirection {
	// Small pivot lookback so a trend window contains several swings.
	pivot := len(window) / 10
	if pivot < 2 {
		pivot = 2
	}
	swings := SwingPoints(window, pivot, pivot/2+1)

	highs := RecentSwings(swings, true, 2)
	lows := RecentSwings(swings, false, 2)
	if len(highs) < 2 || len(lows) < 2 {
		return TrendSideways
	}

	higherHighs := highs[1].Price > highs[0].Price
	higherLows := lows[1].Price > lows[0].Price
	if higherHighs && higherLows {
		return TrendUp
	}
	if !higherHighs && !higherLows {
		return TrendDown
	}
	return TrendSideways
}

// trendByMA compares a fast EMA against a slow SMA at the window end.
// The exponential fast leg reacts sooner at a trend turn than two simple
// averages would.
func trendByMA(window []core.Candle) TrendDirection {
	prices := Closes(window)
	slow := len(prices)
	fast := slow / 2
	if fast < 2 {
		return TrendSideways
	}

	fastMA := EMA(prices, fast)
	slowMA := SMA(prices, slow)
	if len(fastMA) == 0 || len(slowMA) == 0 {
		return TrendSideways
	}

	f := fastMA[len(fastMA)-1]
	s := slowMA[len(slowMA)-1]
	if s == 0 {
		return TrendSideways
	}

	diff := (f - s) / s
	switch {
	case diff > minSlopePerBar:
		return TrendUp
	case diff < -minSlopePerBar:
		return TrendDown
	default:
		return TrendSideways
	}
}

// trendByRegression fits a least-squares line through the closes and reads
// the slope sign, normalized by the mean price so the threshold is
// instrument-independent.
func trendByRegression(window []core.Candle) TrendDirection {
	prices := Closes(window)
	n := float64(len(prices))

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range prices {
		x := float64(i)
		sumX += x
		sumY += p
		sumXY += x * p
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return TrendSideways
	}
	slope := (n*sumXY - sumX*sumY) / denom

	mean := sumY / n
	if mean == 0 {
		return TrendSideways
	}
	normalized := slope / mean

	switch {
	case normalized > minSlopePerBar:
		return TrendUp
	case normalized < -minSlopePerBar:
		return TrendDown
	default:
		return TrendSideways
	}
}
