package backtest

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// stubSource returns a fixed candidate at chosen indexes
type stubSource struct {
	at map[int]*core.Candidate
}

func (s stubSource) Evaluate(_ []core.Candle, index int) *core.Candidate {
	return s.at[index]
}

// alwaysLong fires on every bar with a fixed risk geometry off the close
type alwaysLong struct{}

func (alwaysLong) Evaluate(candles []core.Candle, index int) *core.Candidate {
	c := candles[index].Close
	return &core.Candidate{
		Rule:      "stub",
		Direction: core.DirectionLong,
		Entry:     c,
		Stop:      c - 10,
		Target:    c + 20,
	}
}

func bar(t0 time.Time, i int, open, high, low, close float64) core.Candle {
	return core.Candle{
		Time:  t0.Add(time.Duration(i) * time.Hour),
		Open:  open,
		High:  high,
		Low:   low,
		Close: close,
	}
}

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestRun_TakeProfitAndSizing(t *testing.T) {
	candles := []core.Candle{
		bar(t0, 0, 100, 100.5, 99.5, 100),
		bar(t0, 1, 100, 100.5, 99.5, 100), // signal bar, entry 100
		bar(t0, 2, 100, 120.5, 99.0, 120), // target 120 hit
	}
	src := stubSource{at: map[int]*core.Candidate{
		1: {Rule: "stub", Direction: core.DirectionLong, Entry: 100, Stop: 90, Target: 120},
	}}

	sim := NewSimulator(Config{InitialBalance: 10_000, RiskPct: 0.02, MaxConcurrentTrades: 1}, src, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(res.Trades))
	}
	tr := res.Trades[0]

	// 10000 * 0.02 / (100 - 90) = 20 units
	if math.Abs(tr.Size-20) > 1e-9 {
		t.Errorf("size = %f, want 20", tr.Size)
	}
	if tr.Status != TradeClosedTP {
		t.Errorf("status = %s, want closed_tp", tr.Status)
	}
	if math.Abs(tr.PnL-400) > 1e-9 {
		t.Errorf("pnl = %f, want 400", tr.PnL)
	}
	if math.Abs(res.FinalBalance-10_400) > 1e-9 {
		t.Errorf("final balance = %f, want 10400", res.FinalBalance)
	}
	if got := res.Equity[len(res.Equity)-1].Balance; math.Abs(got-10_400) > 1e-9 {
		t.Errorf("last equity = %f, want 10400", got)
	}
}

func TestRun_StopBeforeTargetOnSameBar(t *testing.T) {
	candles := []core.Candle{
		bar(t0, 0, 100, 100.5, 99.5, 100),
		bar(t0, 1, 100, 100.5, 99.5, 100),
		bar(t0, 2, 100, 125, 85, 110), // touches both stop and target
	}
	src := stubSource{at: map[int]*core.Candidate{
		1: {Rule: "stub", Direction: core.DirectionLong, Entry: 100, Stop: 90, Target: 120},
	}}

	sim := NewSimulator(Config{InitialBalance: 10_000, RiskPct: 0.02, MaxConcurrentTrades: 1, Slippage: 0.5}, src, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}

	tr := res.Trades[0]
	if tr.Status != TradeClosedSL {
		t.Fatalf("status = %s, want closed_sl when both levels hit", tr.Status)
	}
	// Stop fill slips against the trade.
	if math.Abs(tr.Exit-89.5) > 1e-9 {
		t.Errorf("exit = %f, want 89.5", tr.Exit)
	}
}

func TestRun_ShortStopOut(t *testing.T) {
	candles := []core.Candle{
		bar(t0, 0, 100, 100.5, 99.5, 100),
		bar(t0, 1, 100, 100.5, 99.5, 100),
		bar(t0, 2, 100, 111, 99, 110), // rallies through the short stop
	}
	src := stubSource{at: map[int]*core.Candidate{
		1: {Rule: "stub", Direction: core.DirectionShort, Entry: 100, Stop: 110, Target: 80},
	}}

	sim := NewSimulator(DefaultConfig(), src, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}

	tr := res.Trades[0]
	if tr.Status != TradeClosedSL {
		t.Fatalf("status = %s, want closed_sl", tr.Status)
	}
	if tr.PnL >= 0 {
		t.Errorf("short stop-out pnl = %f, want negative", tr.PnL)
	}
}

func TestRun_ForceCloseAtEnd(t *testing.T) {
	candles := []core.Candle{
		bar(t0, 0, 100, 100.5, 99.5, 100),
		bar(t0, 1, 100, 100.5, 99.5, 100),
		bar(t0, 2, 100, 101, 99.5, 100.5), // neither level hit
	}
	src := stubSource{at: map[int]*core.Candidate{
		1: {Rule: "stub", Direction: core.DirectionLong, Entry: 100, Stop: 90, Target: 120},
	}}

	sim := NewSimulator(DefaultConfig(), src, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}

	tr := res.Trades[0]
	if tr.Status != TradeClosedManual {
		t.Fatalf("status = %s, want closed_manual", tr.Status)
	}
	if tr.Exit != 100.5 {
		t.Errorf("exit = %f, want final close 100.5", tr.Exit)
	}
}

func TestRun_MaxConcurrentTrades(t *testing.T) {
	// A steadily rising series with a source firing on every bar: with a
	// cap of one, trades must be strictly sequential.
	candles := make([]core.Candle, 40)
	price := 100.0
	for i := range candles {
		candles[i] = bar(t0, i, price, price+3, price-1, price+2)
		price += 2
	}

	sim := NewSimulator(Config{InitialBalance: 10_000, RiskPct: 0.01, MaxConcurrentTrades: 1}, alwaysLong{}, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trades) == 0 {
		t.Fatal("expected trades")
	}

	for i := 1; i < len(res.Trades); i++ {
		if res.Trades[i].EntryTime.Before(res.Trades[i-1].ExitTime) {
			t.Fatalf("trade %d entered at %s before trade %d exited at %s",
				i, res.Trades[i].EntryTime, i-1, res.Trades[i-1].ExitTime)
		}
	}

	// A monotonically rising market with only long trades never draws down.
	if res.Stats.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %f, want 0 on a rising series", res.Stats.MaxDrawdown)
	}
}

func TestRun_BalanceAccounting(t *testing.T) {
	candles := make([]core.Candle, 60)
	price := 100.0
	for i := range candles {
		// Alternate up and down legs so both exits occur.
		if i%7 < 4 {
			candles[i] = bar(t0, i, price, price+4, price-2, price+3)
			price += 3
		} else {
			candles[i] = bar(t0, i, price, price+1, price-6, price-5)
			price -= 5
		}
	}

	sim := NewSimulator(Config{InitialBalance: 10_000, RiskPct: 0.02, MaxConcurrentTrades: 2, Commission: 1}, alwaysLong{}, nil)
	res, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, candles)
	if err != nil {
		t.Fatal(err)
	}

	// Every trade pays commission twice: once at open, once at close.
	var sum float64
	for _, tr := range res.Trades {
		sum += tr.PnL
	}
	fees := 2 * float64(len(res.Trades)) * 1.0
	if math.Abs(res.FinalBalance-(res.InitialBalance+sum-fees)) > 1e-6 {
		t.Errorf("final balance %f != initial %f + pnl sum %f - fees %f",
			res.FinalBalance, res.InitialBalance, sum, fees)
	}
	if res.Stats.TotalTrades != len(res.Trades) {
		t.Errorf("stats total = %d, trades = %d", res.Stats.TotalTrades, len(res.Trades))
	}
}

func TestRun_RejectsShortHistory(t *testing.T) {
	sim := NewSimulator(DefaultConfig(), stubSource{}, nil)
	_, err := sim.Run(context.Background(), "XAUUSD", core.Timeframe1h, []core.Candle{bar(t0, 0, 100, 101, 99, 100)})
	if !errors.Is(err, core.ErrBacktestInput) {
		t.Errorf("err = %v, want ErrBacktestInput", err)
	}
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candles := make([]core.Candle, 10)
	for i := range candles {
		candles[i] = bar(t0, i, 100, 101, 99, 100)
	}

	sim := NewSimulator(DefaultConfig(), stubSource{}, nil)
	if _, err := sim.Run(ctx, "XAUUSD", core.Timeframe1h, candles); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
