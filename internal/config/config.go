// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Markets   []MarketConfig    `mapstructure:"markets"`
	Feed      FeedConfig        `mapstructure:"feed"`
	Rules     RulesConfig       `mapstructure:"rules"`
	Validator ValidatorConfig   `mapstructure:"validator"`
	Dedup     DedupConfig       `mapstructure:"dedup"`
	Storage   StorageConfig     `mapstructure:"storage"`
	Backtest  BacktestConfig    `mapstructure:"backtest"`
	Notifiers NotifiersConfig   `mapstructure:"notifiers"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	Maintain  MaintenanceConfig `mapstructure:"maintenance"`
}

// MarketConfig is one symbol/timeframe pair monitored by a worker
type MarketConfig struct {
	Symbol    string `mapstructure:"symbol"`
	Timeframe string `mapstructure:"timeframe"`
	History   int    `mapstructure:"history"`
}

type FeedConfig struct {
	Provider  string            `mapstructure:"provider"` // "binance" or "csv"
	APIKey    string            `mapstructure:"api_key"`
	SecretKey string            `mapstructure:"secret_key"`
	SymbolMap map[string]string `mapstructure:"symbol_map"`
	CSVPath   string            `mapstructure:"csv_path"`
}

type RulesConfig struct {
	Enabled map[string]bool `mapstructure:"enabled"`
	Params  ParamsConfig    `mapstructure:"params"`
}

// ParamsConfig overrides selected rule thresholds; zero values keep the
// defaults.
type ParamsConfig struct {
	SwingLookback        int     `mapstructure:"swing_lookback"`
	MinSwingStrength     int     `mapstructure:"min_swing_strength"`
	TrendLookback        int     `mapstructure:"trend_lookback"`
	ATRPeriod            int     `mapstructure:"atr_period"`
	RSIPeriod            int     `mapstructure:"rsi_period"`
	FibToleranceATR      float64 `mapstructure:"fib_tolerance_atr"`
	RiskReward           float64 `mapstructure:"risk_reward"`
	MomentumThresholdPct float64 `mapstructure:"momentum_threshold_pct"`
	SessionStartHour     int     `mapstructure:"session_start_hour"`
	SessionEndHour       int     `mapstructure:"session_end_hour"`
	RangeLookback        int     `mapstructure:"range_lookback"`
}

type ValidatorConfig struct {
	MinRiskReward        float64 `mapstructure:"min_risk_reward"`
	MaxEntryDeviationPct float64 `mapstructure:"max_entry_deviation_pct"`
	CooldownHours        int     `mapstructure:"cooldown_hours"`
}

type DedupConfig struct {
	WindowHours    int `mapstructure:"window_hours"`
	PricePrecision int `mapstructure:"price_precision"`
}

type StorageConfig struct {
	DSN           string        `mapstructure:"dsn"` // SQLite path, ":memory:" for ephemeral
	RetentionDays int           `mapstructure:"retention_days"`
	Archive       ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // for localfs
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type BacktestConfig struct {
	InitialBalance      float64 `mapstructure:"initial_balance"`
	RiskPct             float64 `mapstructure:"risk_pct"`
	MaxConcurrentTrades int     `mapstructure:"max_concurrent_trades"`
	Commission          float64 `mapstructure:"commission"`
	Slippage            float64 `mapstructure:"slippage"`
}

type NotifiersConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

type MaintenanceConfig struct {
	Schedule string `mapstructure:"schedule"` // cron spec
}

// Load reads configuration from file with environment overrides.
// String values of the form ${VAR} are expanded from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Markets: []MarketConfig{
			{Symbol: "XAUUSD", Timeframe: "1h", History: 300},
		},
		Feed: FeedConfig{
			Provider: "binance",
		},
		Validator: ValidatorConfig{
			MinRiskReward:        1.5,
			MaxEntryDeviationPct: 5.0,
			CooldownHours:        24,
		},
		Dedup: DedupConfig{
			WindowHours:    4,
			PricePrecision: 2,
		},
		Storage: StorageConfig{
			DSN:           "goldedge.db",
			RetentionDays: 90,
			Archive:       ArchiveConfig{Type: "localfs", Path: "archive"},
		},
		Backtest: BacktestConfig{
			InitialBalance:      10_000,
			RiskPct:             0.02,
			MaxConcurrentTrades: 1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9100",
			Path:    "/metrics",
		},
		Maintain: MaintenanceConfig{
			Schedule: "0 * * * *", // hourly
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if len(c.Markets) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("at least one market is required"))
	}
	for _, m := range c.Markets {
		if m.Symbol == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("market symbol is required"))
		}
		if _, err := core.ParseTimeframe(m.Timeframe); err != nil {
			return core.WrapError(core.ErrConfigInvalid, err)
		}
		if m.History < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("history cannot be negative, got %d", m.History))
		}
	}

	switch c.Feed.Provider {
	case "binance":
	case "csv":
		if c.Feed.CSVPath == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("csv_path required when feed provider is csv"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown feed provider %q", c.Feed.Provider))
	}

	if p := c.Rules.Params; p.SessionStartHour < 0 || p.SessionStartHour > 23 ||
		p.SessionEndHour < 0 || p.SessionEndHour > 23 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("session hours must be within 0-23, got %d-%d",
				p.SessionStartHour, p.SessionEndHour))
	}

	if c.Validator.MinRiskReward <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_risk_reward must be positive, got %f", c.Validator.MinRiskReward))
	}
	if c.Validator.MaxEntryDeviationPct <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_entry_deviation_pct must be positive, got %f", c.Validator.MaxEntryDeviationPct))
	}
	if c.Validator.CooldownHours < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cooldown_hours cannot be negative, got %d", c.Validator.CooldownHours))
	}
	if c.Dedup.WindowHours <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("dedup window_hours must be positive, got %d", c.Dedup.WindowHours))
	}

	if c.Backtest.RiskPct <= 0 || c.Backtest.RiskPct >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_pct must be a fraction in (0,1), got %f", c.Backtest.RiskPct))
	}
	if c.Backtest.InitialBalance <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_balance must be positive, got %f", c.Backtest.InitialBalance))
	}

	switch c.Storage.Archive.Type {
	case "localfs", "":
	case "s3":
		if c.Storage.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Storage.Archive.Type))
	}

	if c.Notifiers.Telegram.Enabled && (c.Notifiers.Telegram.BotToken == "" || c.Notifiers.Telegram.ChatID == "") {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("telegram bot_token and chat_id required when enabled"))
	}
	if c.Notifiers.Webhook.Enabled && c.Notifiers.Webhook.URL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("webhook url required when enabled"))
	}
	return nil
}

// CooldownDuration converts the configured cooldown hours
func (c ValidatorConfig) CooldownDuration() time.Duration {
	return time.Duration(c.CooldownHours) * time.Hour
}

// WindowDuration converts the configured dedup window hours
func (c DedupConfig) WindowDuration() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}
