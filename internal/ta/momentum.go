package ta

// RSI computes the Relative Strength Index over the last period price
// changes using a simple rolling mean of gains and losses (Cutler's
// variant, not Wilder's exponential smoothing). Needs period+1 closes;
// fewer yields the neutral 50.
func RSI(closes []float64, period int) float64 {
	if period < 1 || len(closes) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// PercentChange returns the close-to-close change over the last bars
// candles as a percentage of the earlier close. Insufficient data yields 0.
func PercentChange(closes []float64, bars int) float64 {
	if bars < 1 || len(closes) < bars+1 {
		return 0
	}
	from := closes[len(closes)-bars-1]
	if from == 0 {
		return 0
	}
	return (closes[len(closes)-1] - from) / from * 100
}
