package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "goldedge",
	Short: "Gold Trader's Edge - technical signal engine for gold",
	Long: `Gold Trader's Edge watches gold price action for rule-based trade
setups, validates and deduplicates them, and publishes the survivors.
The same rules drive a historical backtest simulator.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
