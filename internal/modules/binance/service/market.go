package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

var intervals = map[string]string{
	"1m":  "1m",
	"5m":  "5m",
	"15m": "15m",
	"30m": "30m",
	"1h":  "1h",
	"4h":  "4h",
	"1d":  "1d",
}

type ticker24h struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
	Volume    string `json:"volume"`
}

// Ticker24h последняя цена и суточный объём пары.
func (c *Client) Ticker24h(ctx context.Context, pair string) (models.Quote, error) {
	pair = helper.NormPair(pair)

	var t ticker24h
	if err := c.get(ctx, "/api/v3/ticker/24hr", url.Values{"symbol": {pair}}, &t); err != nil {
		return models.Quote{}, errors.Wrapf(err, "ticker %s", pair)
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return models.Quote{}, errors.Wrapf(err, "ticker %s: lastPrice %q", pair, t.LastPrice)
	}
	volume, err := strconv.ParseFloat(t.Volume, 64)
	if err != nil {
		return models.Quote{}, errors.Wrapf(err, "ticker %s: volume %q", pair, t.Volume)
	}
	return models.Quote{Price: price, Volume: volume}, nil
}

// Klines история свечей, старые первыми. limit режется до 1000.
// Bucket выравнивается по таймфрейму.
func (c *Client) Klines(ctx context.Context, pair, tf string, limit int) ([]models.Candle, error) {
	pair = helper.NormPair(pair)
	tf = helper.NormTF(tf)

	interval, ok := intervals[tf]
	if !ok {
		return nil, errors.Errorf("unsupported timeframe %q", tf)
	}
	tfSec, err := helper.TFSeconds(tf)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxKlinesLimit {
		limit = maxKlinesLimit
	}

	// [openTime, "o", "h", "l", "c", "v", closeTime, ...]
	var rows [][]any
	q := url.Values{
		"symbol":   {pair},
		"interval": {interval},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/api/v3/klines", q, &rows); err != nil {
		return nil, errors.Wrapf(err, "klines %s %s", pair, tf)
	}

	out := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		cd, err := parseKline(row, tfSec)
		if err != nil {
			return nil, errors.Wrapf(err, "klines %s row %d", pair, i)
		}
		out = append(out, cd)
	}
	return out, nil
}

func parseKline(row []any, tfSec int64) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, errors.Errorf("short row: %d fields", len(row))
	}
	openMs, ok := row[0].(float64)
	if !ok {
		return models.Candle{}, errors.Errorf("open time %v", row[0])
	}

	var vals [5]float64
	for i := range vals {
		s, ok := row[i+1].(string)
		if !ok {
			return models.Candle{}, errors.Errorf("field %d: %v", i+1, row[i+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, errors.Wrapf(err, "field %d", i+1)
		}
		vals[i] = v
	}

	return models.Candle{
		Bucket: helper.Bucket(int64(openMs)/1000, tfSec),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
