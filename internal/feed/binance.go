package feed

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	"github.com/adshao/go-binance/v2"
	"go.uber.org/zap"
)

// defaultSymbolMap routes metals symbols to their Binance proxies.
// PAXG tracks the spot gold price one-to-one.
var defaultSymbolMap = map[string]string{
	"XAUUSD": "PAXGUSDT",
}

// BinanceProvider fetches klines from the Binance spot API
type BinanceProvider struct {
	client    *binance.Client
	symbolMap map[string]string
	logger    *zap.Logger
	now       func() time.Time
}

// NewBinanceProvider builds a provider. Keys may be empty: kline data is
// public. Entries in symbolMap override the default symbol routing.
func NewBinanceProvider(apiKey, secretKey string, symbolMap map[string]string, logger *zap.Logger) *BinanceProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := make(map[string]string, len(defaultSymbolMap)+len(symbolMap))
	for k, v := range defaultSymbolMap {
		m[k] = v
	}
	for k, v := range symbolMap {
		m[k] = v
	}
	return &BinanceProvider{
		client:    binance.NewClient(apiKey, secretKey),
		symbolMap: m,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *BinanceProvider) Candles(ctx context.Context, symbol string, tf core.Timeframe, limit int) ([]core.Candle, error) {
	exchangeSymbol := symbol
	if mapped, ok := p.symbolMap[symbol]; ok {
		exchangeSymbol = mapped
	}

	klines, err := p.client.NewKlinesService().
		Symbol(exchangeSymbol).
		Interval(string(tf)).
		Limit(limit + 1). // one extra to cover the forming bar
		Do(ctx)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}

	nowMs := p.now().UnixMilli()
	candles := make([]core.Candle, 0, len(klines))
	for _, k := range klines {
		if k.CloseTime >= nowMs {
			continue // still forming
		}
		candle, err := klineToCandle(k)
		if err != nil {
			p.logger.Warn("skipping malformed kline",
				zap.String("symbol", exchangeSymbol),
				zap.Int64("open_time", k.OpenTime),
				zap.Error(err),
			)
			continue
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, core.WrapError(core.ErrNoData, errors.New("no closed candles returned"))
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func klineToCandle(k *binance.Kline) (core.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return core.Candle{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return core.Candle{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return core.Candle{}, err
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return core.Candle{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return core.Candle{}, err
	}
	return core.Candle{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
