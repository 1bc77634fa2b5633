package helper

import (
	"fmt"
	"strings"
	"time"
)

// интервалы, которые понимает биржа для klines
var tfSeconds = map[string]int64{
	"1m":  60,
	"5m":  300,
	"15m": 900,
	"30m": 1800,
	"1h":  3600,
	"4h":  14400,
	"1d":  86400,
}

// NormTF приводит "60m", "1H", "candle15m" к виду биржи.
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m":
		return "1h"
	case "240m":
		return "4h"
	case "24h", "1440m":
		return "1d"
	default:
		return s
	}
}

// TFSeconds ширина таймфрейма в секундах.
func TFSeconds(raw string) (int64, error) {
	tf := NormTF(raw)
	sec, ok := tfSeconds[tf]
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe %q", raw)
	}
	return sec, nil
}

func TFDuration(raw string) (time.Duration, error) {
	sec, err := TFSeconds(raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}

// Bucket = floor(ts/tf)*tf, в том числе для отрицательных ts.
func Bucket(ts, tf int64) int64 {
	b := ts - ts%tf
	if ts < 0 && ts%tf != 0 {
		b -= tf
	}
	return b
}

// NormPair "btcusdt " -> "BTCUSDT".
func NormPair(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
