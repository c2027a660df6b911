package ta

import (
	"math"
	"testing"
)

// The RSI here is a simple rolling mean of gains and losses, so the
// expected values are exact.
func TestRSI_SimpleMean(t *testing.T) {
	// Last 3 changes: +2, -1, +2 -> avgGain 4/3, avgLoss 1/3, RS 4
	closes := []float64{100, 101, 103, 102, 104}
	got := RSI(closes, 3)
	if math.Abs(got-80) > 1e-9 {
		t.Errorf("RSI = %f, want 80", got)
	}
}

func TestRSI_AllGains(t *testing.T) {
	closes := []float64{100, 101, 102, 103}
	if got := RSI(closes, 3); got != 100 {
		t.Errorf("RSI all gains = %f, want 100", got)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	closes := []float64{103, 102, 101, 100}
	if got := RSI(closes, 3); got != 0 {
		t.Errorf("RSI all losses = %f, want 0", got)
	}
}

func TestRSI_FlatAndInsufficient(t *testing.T) {
	if got := RSI([]float64{100, 100, 100, 100}, 3); got != 50 {
		t.Errorf("flat RSI = %f, want 50", got)
	}
	if got := RSI([]float64{100, 101}, 14); got != 50 {
		t.Errorf("insufficient RSI = %f, want 50", got)
	}
}

func TestPercentChange(t *testing.T) {
	closes := []float64{100, 102, 104, 106, 108, 110}
	got := PercentChange(closes, 5)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("PercentChange = %f, want 10", got)
	}
	if got := PercentChange(closes, 10); got != 0 {
		t.Errorf("insufficient PercentChange = %f, want 0", got)
	}
}
