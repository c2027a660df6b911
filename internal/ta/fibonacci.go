package ta

// Standard retracement ratios, shallow to deep.
var RetracementRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// FibLevel is one priced retracement or extension level
type FibLevel struct {
	Ratio float64
	Price float64
}

// FibZone holds the retracement levels of one swing leg.
// An up leg runs swing low -> swing high; retracement levels measure how
// far price has pulled back down from the high (and mirrored for a down
// leg).
type FibZone struct {
	SwingLow  float64
	SwingHigh float64
	Up        bool // true when the leg ran low -> high
	Levels    []FibLevel
}

// Range returns the leg height
func (z FibZone) Range() float64 {
	return z.SwingHigh - z.SwingLow
}

// Level returns the price of the given retracement ratio, or 0 when the
// ratio is not one of the standard levels.
func (z FibZone) Level(ratio float64) float64 {
	for _, l := range z.Levels {
		if l.Ratio == ratio {
			return l.Price
		}
	}
	return 0
}

// Retracement builds the five standard levels for a swing leg.
// Up leg: level price = high - range*ratio. Down leg: low + range*ratio.
// A degenerate leg (range == 0) still yields levels, all equal to the
// swing price; callers must guard ratio arithmetic against it.
func Retracement(swingLow, swingHigh float64, up bool) FibZone {
	r := swingHigh - swingLow
	zone := FibZone{
		SwingLow:  swingLow,
		SwingHigh: swingHigh,
		Up:        up,
		Levels:    make([]FibLevel, 0, len(RetracementRatios)),
	}
	for _, ratio := range RetracementRatios {
		var price float64
		if up {
			price = swingHigh - r*ratio
		} else {
			price = swingLow + r*ratio
		}
		zone.Levels = append(zone.Levels, FibLevel{Ratio: ratio, Price: price})
	}
	return zone
}

// Extension projects a target beyond the leg: up legs extend above the
// high, down legs below the low.
func Extension(swingLow, swingHigh float64, up bool, ratio float64) float64 {
	r := swingHigh - swingLow
	if up {
		return swingHigh + r*ratio
	}
	return swingLow - r*ratio
}

// LatestZone derives a zone from the two most recent opposite-type swing
// points. The leg direction follows the newer swing: a newer high means an
// up leg. Returns false when fewer than one swing of each type exists or
// the leg is degenerate.
func LatestZone(swings []SwingPoint) (FibZone, bool) {
	lastHigh, okHigh := LastSwing(swings, true)
	lastLow, okLow := LastSwing(swings, false)
	if !okHigh || !okLow {
		return FibZone{}, false
	}
	if lastHigh.Price <= lastLow.Price {
		return FibZone{}, false
	}
	up := lastHigh.Time.After(lastLow.Time)
	return Retracement(lastLow.Price, lastHigh.Price, up), true
}
