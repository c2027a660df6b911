// Package feed supplies candle history. The Binance provider serves live
// monitoring; the CSV provider serves backtests on exported data.
package feed

import (
	"context"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// Provider returns up to limit candles for the symbol and timeframe,
// ordered oldest first. Only closed candles are returned; a bar still
// forming is dropped.
type Provider interface {
	Candles(ctx context.Context, symbol string, tf core.Timeframe, limit int) ([]core.Candle, error)
}
