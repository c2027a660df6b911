package core

import (
	"fmt"
	"time"
)

// Direction represents the side of a trade or signal
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Opposite returns the other trade direction
func (d Direction) Opposite() Direction {
	if d == DirectionLong {
		return DirectionShort
	}
	return DirectionLong
}

// Timeframe represents a candle interval
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// Duration returns the candle interval length, or 0 for unknown timeframes
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case Timeframe1m:
		return time.Minute
	case Timeframe5m:
		return 5 * time.Minute
	case Timeframe15m:
		return 15 * time.Minute
	case Timeframe30m:
		return 30 * time.Minute
	case Timeframe1h:
		return time.Hour
	case Timeframe4h:
		return 4 * time.Hour
	case Timeframe1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

// NextClose returns the next candle-close boundary strictly after now
func (tf Timeframe) NextClose(now time.Time) time.Time {
	d := tf.Duration()
	if d <= 0 {
		return now
	}
	return now.Truncate(d).Add(d)
}

// ParseTimeframe validates a timeframe string
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if tf.Duration() == 0 {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Candle represents one OHLCV bar. Sequences are ordered oldest first.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IsValid checks the OHLC invariant: low bounds the body from below,
// high bounds it from above.
func (c Candle) IsValid() bool {
	lo := c.Open
	if c.Close < lo {
		lo = c.Close
	}
	hi := c.Open
	if c.Close > hi {
		hi = c.Close
	}
	return c.Low <= lo && c.High >= hi
}

// Bullish reports whether the candle closed above its open
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// Body returns the absolute open-close distance
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low distance
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// BodyTop returns the upper edge of the candle body
func (c Candle) BodyTop() float64 {
	if c.Close > c.Open {
		return c.Close
	}
	return c.Open
}

// BodyBottom returns the lower edge of the candle body
func (c Candle) BodyBottom() float64 {
	if c.Close < c.Open {
		return c.Close
	}
	return c.Open
}

// Candidate is a signal proposed by a single rule for one candle.
// A nil *Candidate means the rule abstained.
type Candidate struct {
	Rule       string
	Direction  Direction
	Entry      float64
	Stop       float64
	Target     float64
	Confidence float64 // 0..1
	Rationale  string
}

// SignalStatus tracks a published signal's lifecycle in storage
type SignalStatus string

const (
	SignalStatusNew       SignalStatus = "new"
	SignalStatusPublished SignalStatus = "published"
	SignalStatusExpired   SignalStatus = "expired"
)

// ValidatedSignal is a candidate that passed validation, enriched with
// risk/reward figures. This is the record persisted and published.
type ValidatedSignal struct {
	ID         string
	Timestamp  time.Time
	Symbol     string
	Timeframe  Timeframe
	Strategy   string
	Direction  Direction
	Entry      float64
	Stop       float64
	Target     float64
	Confidence float64
	Risk       float64 // |entry - stop| in price units
	Reward     float64 // |target - entry| in price units
	RiskReward float64 // reward / risk
	Status     SignalStatus
	Notes      string
}
