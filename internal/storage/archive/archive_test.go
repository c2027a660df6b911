package archive

import (
	"context"
	"testing"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/backtest"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "backtests/XAUUSD/1h/a.json", []byte(`{"x":1}`)))
	require.NoError(t, store.Put(ctx, "backtests/XAUUSD/4h/b.json", []byte(`{"x":2}`)))
	require.NoError(t, store.Put(ctx, "backtests/EURUSD/1h/c.json", []byte(`{"x":3}`)))

	data, err := store.Get(ctx, "backtests/XAUUSD/1h/a.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"x":1}`, string(data))

	keys, err := store.List(ctx, "backtests/XAUUSD")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	require.NoError(t, store.Delete(ctx, "backtests/XAUUSD/1h/a.json"))
	_, err = store.Get(ctx, "backtests/XAUUSD/1h/a.json")
	require.Error(t, err)
}

func TestLocalFS_ListMissingPrefix(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	require.NoError(t, err)

	keys, err := store.List(context.Background(), "nothing/here")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestArchiver_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalFS(t.TempDir())
	require.NoError(t, err)
	archiver := NewArchiver(store)

	res := &backtest.Result{
		Symbol:         "XAUUSD",
		Timeframe:      "1h",
		Start:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		InitialBalance: 10_000,
		FinalBalance:   11_250,
		Stats:          backtest.Stats{TotalTrades: 12, Wins: 7, Losses: 5, WinRate: 7.0 / 12 * 100},
	}

	key, err := archiver.SaveResult(ctx, res)
	require.NoError(t, err)
	require.Equal(t, "backtests/XAUUSD/1h/20240301T000000Z.json", key)

	loaded, err := archiver.LoadResult(ctx, key)
	require.NoError(t, err)
	require.Equal(t, res.FinalBalance, loaded.FinalBalance)
	require.Equal(t, res.Stats.TotalTrades, loaded.Stats.TotalTrades)

	keys, err := archiver.ListResults(ctx, "XAUUSD")
	require.NoError(t, err)
	require.Equal(t, []string{key}, keys)
}
