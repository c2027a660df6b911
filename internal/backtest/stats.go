package backtest

import "math"

// annualization assumes daily samples; sqrt(252 trading days).
var annualization = math.Sqrt(252)

// ComputeStats derives the summary statistics from the closed trades and
// the equity curve. Profit factor is reported as 0 when there are no
// losing trades, so a lossless run reads as "not meaningful" rather than
// infinite.
func ComputeStats(trades []Trade, equity []EquityPoint, initialBalance float64) Stats {
	var s Stats
	s.TotalTrades = len(trades)

	pnls := make([]float64, 0, len(trades))
	for _, tr := range trades {
		pnls = append(pnls, tr.PnL)
		s.NetProfit += tr.PnL
		if tr.PnL > 0 {
			s.Wins++
			s.GrossProfit += tr.PnL
		} else {
			s.Losses++
			s.GrossLoss += -tr.PnL
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}

	s.MaxDrawdown, s.MaxDrawdownPct = maxDrawdown(equity, initialBalance)
	s.SharpeRatio = sharpe(pnls)
	return s
}

// maxDrawdown walks the equity curve tracking the running peak
func maxDrawdown(equity []EquityPoint, initialBalance float64) (abs, pct float64) {
	peak := initialBalance
	for _, p := range equity {
		if p.Balance > peak {
			peak = p.Balance
		}
		dd := peak - p.Balance
		if dd > abs {
			abs = dd
			if peak > 0 {
				pct = dd / peak * 100
			}
		}
	}
	return abs, pct
}

// sharpe is the annualized mean-over-stddev of the per-trade PnL series.
// Fewer than two trades, or a flat series, yields 0.
func sharpe(pnls []float64) float64 {
	if len(pnls) < 2 {
		return 0
	}

	var mean float64
	for _, p := range pnls {
		mean += p
	}
	mean /= float64(len(pnls))

	var variance float64
	for _, p := range pnls {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(pnls) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * annualization
}
