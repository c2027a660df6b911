package backtest

import (
	"context"
	"errors"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignalSource produces a trade candidate for the candle at index, or nil.
// *rules.Engine satisfies it.
type SignalSource interface {
	Evaluate(candles []core.Candle, index int) *core.Candidate
}

// Simulator replays a candle history bar by bar: exits are processed
// before entries, and when a bar touches both the stop and the target the
// stop wins. Entries fill at the signal candle's close.
type Simulator struct {
	cfg    Config
	source SignalSource
	logger *zap.Logger
}

func NewSimulator(cfg Config, source SignalSource, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{cfg: cfg, source: source, logger: logger}
}

// Run replays the candles and returns the completed result. Histories of
// fewer than two candles are rejected.
func (s *Simulator) Run(ctx context.Context, symbol string, tf core.Timeframe, candles []core.Candle) (*Result, error) {
	if len(candles) < 2 {
		return nil, core.WrapError(core.ErrBacktestInput, errors.New("need at least two candles"))
	}
	if s.cfg.InitialBalance <= 0 || s.cfg.RiskPct <= 0 {
		return nil, core.WrapError(core.ErrBacktestInput, errors.New("balance and risk must be positive"))
	}

	balance := s.cfg.InitialBalance
	var open []*Trade
	var closed []Trade
	equity := make([]EquityPoint, 0, len(candles))

	for i, candle := range candles {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		// Exits first, so a bar can never fund its own entry.
		remaining := open[:0]
		for _, tr := range open {
			if exit, status := s.exitPrice(tr, candle); status != TradeOpen {
				balance += s.closeTrade(tr, candle, exit, status) - s.cfg.Commission
				closed = append(closed, *tr)
			} else {
				remaining = append(remaining, tr)
			}
		}
		open = remaining

		// Equity marks open positions to the bar's close.
		eq := balance
		for _, tr := range open {
			eq += unrealized(tr, candle.Close)
		}
		equity = append(equity, EquityPoint{Time: candle.Time, Balance: eq})

		if len(open) >= s.cfg.MaxConcurrentTrades {
			continue
		}
		cand := s.source.Evaluate(candles, i)
		if cand == nil {
			continue
		}
		tr := s.openTrade(cand, candle, balance)
		if tr == nil {
			continue
		}
		open = append(open, tr)
		balance -= s.cfg.Commission
		s.logger.Debug("trade opened",
			zap.String("rule", tr.Rule),
			zap.String("direction", string(tr.Direction)),
			zap.Float64("entry", tr.Entry),
			zap.Float64("size", tr.Size),
		)
	}

	// Anything still open is closed at the final bar's close.
	last := candles[len(candles)-1]
	for _, tr := range open {
		balance += s.closeTrade(tr, last, last.Close, TradeClosedManual) - s.cfg.Commission
		closed = append(closed, *tr)
	}
	equity = append(equity, EquityPoint{Time: last.Time, Balance: balance})

	res := &Result{
		Symbol:         symbol,
		Timeframe:      string(tf),
		Start:          candles[0].Time,
		End:            last.Time,
		InitialBalance: s.cfg.InitialBalance,
		FinalBalance:   balance,
		Trades:         closed,
		Equity:         equity,
		Stats:          ComputeStats(closed, equity, s.cfg.InitialBalance),
	}
	s.logger.Info("backtest finished",
		zap.String("symbol", symbol),
		zap.Int("trades", len(closed)),
		zap.Float64("final_balance", balance),
	)
	return res, nil
}

// openTrade sizes a position so that a stop-out loses RiskPct of the
// current balance. Degenerate geometry yields no trade.
func (s *Simulator) openTrade(cand *core.Candidate, candle core.Candle, balance float64) *Trade {
	riskPerUnit := cand.Entry - cand.Stop
	if cand.Direction == core.DirectionShort {
		riskPerUnit = cand.Stop - cand.Entry
	}
	if riskPerUnit <= 0 {
		return nil
	}
	size := balance * s.cfg.RiskPct / riskPerUnit
	if size <= 0 {
		return nil
	}

	return &Trade{
		ID:        uuid.NewString(),
		Rule:      cand.Rule,
		Direction: cand.Direction,
		EntryTime: candle.Time,
		Entry:     cand.Entry,
		Stop:      cand.Stop,
		Target:    cand.Target,
		Size:      size,
		Status:    TradeOpen,
	}
}

func unrealized(tr *Trade, price float64) float64 {
	if tr.Direction == core.DirectionShort {
		return (tr.Entry - price) * tr.Size
	}
	return (price - tr.Entry) * tr.Size
}

// exitPrice checks the candle against the trade's stop and target. The
// stop is checked first on both sides, and fills slip against the trade.
func (s *Simulator) exitPrice(tr *Trade, candle core.Candle) (float64, TradeStatus) {
	if tr.Direction == core.DirectionLong {
		if candle.Low <= tr.Stop {
			return tr.Stop - s.cfg.Slippage, TradeClosedSL
		}
		if candle.High >= tr.Target {
			return tr.Target - s.cfg.Slippage, TradeClosedTP
		}
		return 0, TradeOpen
	}
	if candle.High >= tr.Stop {
		return tr.Stop + s.cfg.Slippage, TradeClosedSL
	}
	if candle.Low <= tr.Target {
		return tr.Target + s.cfg.Slippage, TradeClosedTP
	}
	return 0, TradeOpen
}

// closeTrade finalizes the trade and returns its price PnL. Commission is
// the caller's concern: it is charged against the balance at open and at
// close, and stays out of the recorded PnL.
func (s *Simulator) closeTrade(tr *Trade, candle core.Candle, exit float64, status TradeStatus) float64 {
	pnl := (exit - tr.Entry) * tr.Size
	if tr.Direction == core.DirectionShort {
		pnl = (tr.Entry - exit) * tr.Size
	}

	tr.ExitTime = candle.Time
	tr.Exit = exit
	tr.PnL = pnl
	tr.Status = status
	return pnl
}
