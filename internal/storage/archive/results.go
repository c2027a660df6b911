package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/backtest"
)

// Archiver persists backtest results as JSON blobs
type Archiver struct {
	storage Storage
}

func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage}
}

// SaveResult writes the result and returns its key. Keys sort
// chronologically per symbol and timeframe.
func (a *Archiver) SaveResult(ctx context.Context, res *backtest.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	key := fmt.Sprintf("backtests/%s/%s/%s.json",
		res.Symbol, res.Timeframe, res.End.UTC().Format("20060102T150405Z"))
	if err := a.storage.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("archiving result: %w", err)
	}
	return key, nil
}

// LoadResult reads one archived result back
func (a *Archiver) LoadResult(ctx context.Context, key string) (*backtest.Result, error) {
	data, err := a.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var res backtest.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding result %s: %w", key, err)
	}
	return &res, nil
}

// ListResults returns the archived keys for a symbol, oldest first
func (a *Archiver) ListResults(ctx context.Context, symbol string) ([]string, error) {
	return a.storage.List(ctx, "backtests/"+symbol)
}
