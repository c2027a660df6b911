package ta

import (
	"math"
	"testing"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

func TestTrueRange(t *testing.T) {
	prev := core.Candle{Open: 101, High: 105, Low: 100, Close: 103}

	// Plain bar range dominates
	c := core.Candle{Open: 103, High: 106, Low: 102, Close: 104}
	if got := TrueRange(c, prev); got != 4 {
		t.Errorf("TrueRange = %f, want 4", got)
	}

	// Gap up: distance to previous close dominates
	gap := core.Candle{Open: 108, High: 110, Low: 108, Close: 109}
	if got := TrueRange(gap, prev); got != 7 { // |110 - 103|
		t.Errorf("gap TrueRange = %f, want 7", got)
	}
}

func TestATR(t *testing.T) {
	candles := []core.Candle{
		{Open: 101, High: 105, Low: 100, Close: 103},
		{Open: 103, High: 106, Low: 102, Close: 104}, // TR 4
		{Open: 104, High: 110, Low: 104, Close: 108}, // TR 7
	}
	requireValid(t, candles)

	got := ATR(candles, 2)
	if math.Abs(got-5.5) > 1e-9 {
		t.Errorf("ATR = %f, want 5.5", got)
	}
}

func TestATR_InsufficientData(t *testing.T) {
	candles := candlesFromCloses([]float64{100, 101})
	if got := ATR(candles, 5); got != 0 {
		t.Errorf("ATR with short window = %f, want 0", got)
	}
}
