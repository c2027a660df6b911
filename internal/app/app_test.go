package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/config"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"time,open,high,low,close,volume\n"+
			"2024-05-01T00:00:00Z,2300,2310,2295,2305,120\n"+
			"2024-05-01T01:00:00Z,2305,2312,2301,2310,98\n",
	), 0o644))

	cfg := config.Defaults()
	cfg.Storage.DSN = ":memory:"
	cfg.Feed.Provider = "csv"
	cfg.Feed.CSVPath = csvPath
	cfg.Metrics.Enabled = false
	return cfg
}

func TestNew_BuildsGraph(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)
	require.Len(t, a.workers, 1)
	require.NoError(t, a.store.Close())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Markets = nil
	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestStartStop(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)

	require.NoError(t, a.Start(context.Background()))
	require.Error(t, a.Start(context.Background()), "double start should fail")
	a.Stop()

	// Stopping twice is a no-op.
	a.Stop()
}

type captureNotifier struct {
	got chan core.ValidatedSignal
}

func (captureNotifier) Name() string { return "capture" }

func (n captureNotifier) Send(_ context.Context, sig core.ValidatedSignal) error {
	n.got <- sig
	return nil
}

// Signals enqueued on the publish channel must reach registered
// notifiers through the dispatcher, not block inside a worker.
func TestStart_DispatchesPublishedSignals(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)

	n := captureNotifier{got: make(chan core.ValidatedSignal, 1)}
	require.NoError(t, a.notifiers.Register(n))

	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	sig := core.ValidatedSignal{ID: "sig-1", Symbol: "XAUUSD"}
	require.NoError(t, a.publisher.Publish(context.Background(), sig))

	select {
	case got := <-n.got:
		require.Equal(t, "sig-1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("signal never reached the notifier")
	}
}

func TestRuleEnabled(t *testing.T) {
	all := RuleEnabled(nil)
	require.True(t, all.GoldenRetracement)
	require.True(t, all.OrderBlockRetest)

	some := RuleEnabled(map[string]bool{"golden_retracement": true})
	require.True(t, some.GoldenRetracement)
	require.False(t, some.SessionBreakout)
}

func TestRuleParams_Overlay(t *testing.T) {
	p := RuleParams(config.ParamsConfig{RiskReward: 3, TrendLookback: 100})
	require.Equal(t, 3.0, p.RiskReward)
	require.Equal(t, 100, p.TrendLookback)
	// Untouched values keep their defaults.
	require.Equal(t, 5, p.SwingLookback)
	require.Equal(t, 14, p.ATRPeriod)

	p = RuleParams(config.ParamsConfig{
		MinSwingStrength: 4,
		SessionStartHour: 22,
		SessionEndHour:   2,
		RangeLookback:    30,
	})
	require.Equal(t, 4, p.MinSwingStrength)
	require.Equal(t, 22, p.SessionStartHour)
	require.Equal(t, 2, p.SessionEndHour)
	require.Equal(t, 30, p.RangeLookback)
}
