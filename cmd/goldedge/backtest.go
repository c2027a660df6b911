package main

import (
	"fmt"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/app"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/backtest"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/config"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/feed"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/logger"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/rules"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/storage/archive"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	btCSV       string
	btSymbol    string
	btTimeframe string
	btBalance   float64
	btRiskPct   float64
	btArchive   bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay historical candles through the rule catalogue",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&btCSV, "csv", "", "candle CSV file (required)")
	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "XAUUSD", "instrument symbol")
	backtestCmd.Flags().StringVar(&btTimeframe, "timeframe", "1h", "candle timeframe")
	backtestCmd.Flags().Float64Var(&btBalance, "balance", 0, "initial balance (overrides config)")
	backtestCmd.Flags().Float64Var(&btRiskPct, "risk", 0, "fraction of balance risked per trade (overrides config)")
	backtestCmd.Flags().BoolVar(&btArchive, "archive", false, "archive the result per the config")
	backtestCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg := config.Defaults()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	tf, err := core.ParseTimeframe(btTimeframe)
	if err != nil {
		return err
	}

	candles, err := feed.ReadFile(btCSV)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}
	log.Info("candles loaded", zap.Int("count", len(candles)), zap.String("file", btCSV))

	simCfg := backtest.Config{
		InitialBalance:      cfg.Backtest.InitialBalance,
		RiskPct:             cfg.Backtest.RiskPct,
		MaxConcurrentTrades: cfg.Backtest.MaxConcurrentTrades,
		Commission:          cfg.Backtest.Commission,
		Slippage:            cfg.Backtest.Slippage,
	}
	if btBalance > 0 {
		simCfg.InitialBalance = btBalance
	}
	if btRiskPct > 0 {
		simCfg.RiskPct = btRiskPct
	}

	engine := rules.NewEngine(app.RuleParams(cfg.Rules.Params), app.RuleEnabled(cfg.Rules.Enabled), log)
	sim := backtest.NewSimulator(simCfg, engine, log)

	res, err := sim.Run(cmd.Context(), btSymbol, tf, candles)
	if err != nil {
		return err
	}
	printResult(res)

	if btArchive {
		key, err := archiveResult(cmd, cfg, res)
		if err != nil {
			return fmt.Errorf("archiving result: %w", err)
		}
		fmt.Printf("\nArchived as %s\n", key)
	}
	return nil
}

func archiveResult(cmd *cobra.Command, cfg *config.Config, res *backtest.Result) (string, error) {
	var storage archive.Storage
	if cfg.Storage.Archive.Type == "s3" {
		storage = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Storage.Archive.S3.Bucket,
			Region:    cfg.Storage.Archive.S3.Region,
			Endpoint:  cfg.Storage.Archive.S3.Endpoint,
			AccessKey: cfg.Storage.Archive.S3.AccessKey,
			SecretKey: cfg.Storage.Archive.S3.SecretKey,
			Prefix:    cfg.Storage.Archive.S3.Prefix,
		})
	} else {
		fs, err := archive.NewLocalFS(cfg.Storage.Archive.Path)
		if err != nil {
			return "", err
		}
		storage = fs
	}
	return archive.NewArchiver(storage).SaveResult(cmd.Context(), res)
}

func printResult(res *backtest.Result) {
	s := res.Stats
	fmt.Printf("Backtest %s %s: %s -> %s\n",
		res.Symbol, res.Timeframe,
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Printf("  Balance:       %.2f -> %.2f\n", res.InitialBalance, res.FinalBalance)
	fmt.Printf("  Trades:        %d (%d wins / %d losses)\n", s.TotalTrades, s.Wins, s.Losses)
	fmt.Printf("  Win rate:      %.1f%%\n", s.WinRate)
	fmt.Printf("  Avg win/loss:  %.2f / %.2f\n", s.AvgWin, s.AvgLoss)
	fmt.Printf("  Net profit:    %.2f\n", s.NetProfit)
	fmt.Printf("  Profit factor: %.2f\n", s.ProfitFactor)
	fmt.Printf("  Max drawdown:  %.2f (%.1f%%)\n", s.MaxDrawdown, s.MaxDrawdownPct)
	fmt.Printf("  Sharpe:        %.2f\n", s.SharpeRatio)
}
