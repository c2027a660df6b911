package ta

import "testing"

func TestRetracement_UpLeg(t *testing.T) {
	zone := Retracement(100, 200, true)

	if got := zone.Level(0.5); got != 150 {
		t.Errorf("50%% level = %f, want 150", got)
	}
	if got := zone.Level(0.618); got != 200-100*0.618 {
		t.Errorf("61.8%% level = %f, want %f", got, 200-100*0.618)
	}
}

func TestRetracement_DownLeg(t *testing.T) {
	zone := Retracement(100, 200, false)

	if got := zone.Level(0.382); got != 100+100*0.382 {
		t.Errorf("38.2%% level = %f, want %f", got, 100+100*0.382)
	}
}

// Levels must be strictly monotonic and stay inside the leg for both
// directions.
func TestRetracement_Monotonic(t *testing.T) {
	for _, up := range []bool{true, false} {
		zone := Retracement(1832.5, 1954.2, up)
		prev := zone.Levels[0].Price
		for _, l := range zone.Levels[1:] {
			if up && l.Price >= prev {
				t.Fatalf("up-leg levels not strictly decreasing: %f then %f", prev, l.Price)
			}
			if !up && l.Price <= prev {
				t.Fatalf("down-leg levels not strictly increasing: %f then %f", prev, l.Price)
			}
			prev = l.Price
		}
		for _, l := range zone.Levels {
			if l.Price <= zone.SwingLow || l.Price >= zone.SwingHigh {
				t.Fatalf("level %f outside leg [%f, %f]", l.Price, zone.SwingLow, zone.SwingHigh)
			}
		}
	}
}

func TestRetracement_DegenerateLeg(t *testing.T) {
	zone := Retracement(100, 100, true)
	if zone.Range() != 0 {
		t.Fatalf("Range() = %f, want 0", zone.Range())
	}
	for _, l := range zone.Levels {
		if l.Price != 100 {
			t.Errorf("degenerate level = %f, want 100", l.Price)
		}
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(100, 200, true, 0.618); got != 200+100*0.618 {
		t.Errorf("up extension = %f, want %f", got, 200+100*0.618)
	}
	if got := Extension(100, 200, false, 0.618); got != 100-100*0.618 {
		t.Errorf("down extension = %f, want %f", got, 100-100*0.618)
	}
}

func TestLatestZone(t *testing.T) {
	// Trough then peak: the newer high makes it an up leg.
	closes := []float64{104, 102, 100, 98, 96, 98, 100, 104, 108, 110, 108, 105, 103, 104, 105}
	candles := candlesFromCloses(closes)

	swings := SwingPoints(candles, 3, 2)
	zone, ok := LatestZone(swings)
	if !ok {
		t.Fatal("expected a zone")
	}
	if !zone.Up {
		t.Error("expected up leg (newer swing is a high)")
	}
	if zone.Range() <= 0 {
		t.Errorf("zone range = %f, want > 0", zone.Range())
	}
}

func TestLatestZone_NoSwings(t *testing.T) {
	if _, ok := LatestZone(nil); ok {
		t.Error("expected no zone from empty swings")
	}
}
