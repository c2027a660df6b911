package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/app"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/config"
	"github.com/TheJazzDev/the-gold-traders-edge/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the live signal monitor",
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building service: %w", err)
	}

	log.Info("starting monitor", zap.Int("markets", len(cfg.Markets)))
	if err := a.Start(cmd.Context()); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("shutdown signal received")
	case <-cmd.Context().Done():
	}

	a.Stop()
	return nil
}
