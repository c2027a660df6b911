// Package backtest replays a candle history through a signal source and
// produces a trade list, an equity curve, and summary statistics.
package backtest

import (
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// TradeStatus tracks a simulated trade through its lifecycle
type TradeStatus string

const (
	TradeOpen         TradeStatus = "open"
	TradeClosedTP     TradeStatus = "closed_tp"
	TradeClosedSL     TradeStatus = "closed_sl"
	TradeClosedManual TradeStatus = "closed_manual"
)

// Trade is one simulated position
type Trade struct {
	ID        string         `json:"id"`
	Rule      string         `json:"rule"`
	Direction core.Direction `json:"direction"`
	EntryTime time.Time      `json:"entry_time"`
	Entry     float64        `json:"entry"`
	Stop      float64        `json:"stop"`
	Target    float64        `json:"target"`
	Size      float64        `json:"size"`
	ExitTime  time.Time      `json:"exit_time,omitempty"`
	Exit      float64        `json:"exit,omitempty"`
	PnL       float64        `json:"pnl"`
	Status    TradeStatus    `json:"status"`
}

// EquityPoint is one sample of the balance over time
type EquityPoint struct {
	Time    time.Time `json:"time"`
	Balance float64   `json:"balance"`
}

// Config controls the simulation
type Config struct {
	InitialBalance      float64 // starting account balance
	RiskPct             float64 // fraction of balance risked per trade, e.g. 0.02
	MaxConcurrentTrades int
	Commission          float64 // flat cost charged at open and again at close
	Slippage            float64 // adverse price offset applied to stop/target fills
}

// DefaultConfig returns the stock simulation settings
func DefaultConfig() Config {
	return Config{
		InitialBalance:      10_000,
		RiskPct:             0.02,
		MaxConcurrentTrades: 1,
	}
}

// Stats summarizes a finished run
type Stats struct {
	TotalTrades    int     `json:"total_trades"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRate        float64 `json:"win_rate"` // percent of closed trades with positive PnL
	GrossProfit    float64 `json:"gross_profit"`
	GrossLoss      float64 `json:"gross_loss"` // positive magnitude
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"` // positive magnitude
	NetProfit      float64 `json:"net_profit"`
	ProfitFactor   float64 `json:"profit_factor"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}

// Result is the full output of one run
type Result struct {
	Symbol         string        `json:"symbol"`
	Timeframe      string        `json:"timeframe"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	InitialBalance float64       `json:"initial_balance"`
	FinalBalance   float64       `json:"final_balance"`
	Trades         []Trade       `json:"trades"`
	Equity         []EquityPoint `json:"equity"`
	Stats          Stats         `json:"stats"`
}
