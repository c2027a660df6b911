package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// CSVProvider serves candles from an exported CSV file. The expected
// layout is time,open,high,low,close,volume with a header row; the time
// column accepts RFC 3339 or unix seconds/milliseconds.
type CSVProvider struct {
	path string
}

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// Candles ignores the symbol: the file is the instrument.
func (p *CSVProvider) Candles(_ context.Context, _ string, _ core.Timeframe, limit int) ([]core.Candle, error) {
	candles, err := ReadFile(p.path)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// ReadFile parses a whole candle CSV, oldest first
func ReadFile(path string) ([]core.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var candles []core.Candle
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrFeedFailed, err)
		}
		line++
		if line == 1 && isHeader(record) {
			continue
		}
		candle, err := parseRecord(record)
		if err != nil {
			return nil, core.WrapError(core.ErrFeedFailed, fmt.Errorf("line %d: %w", line, err))
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no candles in %s", path))
	}
	return candles, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[len(record)-1]), 64)
	return err != nil
}

func parseRecord(record []string) (core.Candle, error) {
	if len(record) < 5 {
		return core.Candle{}, fmt.Errorf("want at least 5 columns, got %d", len(record))
	}

	ts, err := parseTime(record[0])
	if err != nil {
		return core.Candle{}, err
	}

	values := make([]float64, 0, 5)
	for _, field := range record[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return core.Candle{}, err
		}
		values = append(values, v)
		if len(values) == 5 {
			break
		}
	}

	candle := core.Candle{
		Time:  ts,
		Open:  values[0],
		High:  values[1],
		Low:   values[2],
		Close: values[3],
	}
	if len(values) > 4 {
		candle.Volume = values[4]
	}
	if !candle.IsValid() {
		return core.Candle{}, fmt.Errorf("OHLC invariant violated at %s", ts)
	}
	return candle, nil
}

func parseTime(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	if ts, err := time.Parse(time.RFC3339, field); err == nil {
		return ts.UTC(), nil
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable time %q", field)
	}
	// Millisecond stamps are 13 digits; second stamps 10.
	if n > 1e12 {
		return time.UnixMilli(n).UTC(), nil
	}
	return time.Unix(n, 0).UTC(), nil
}
