package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Market.Timeframe != "1m" || cfg.Market.MaxCandles != 300 {
		t.Fatalf("market defaults: %+v", cfg.Market)
	}
	if len(cfg.Market.Pairs) != 3 || cfg.Market.Pairs[0] != "BTCUSDT" {
		t.Fatalf("pairs = %v", cfg.Market.Pairs)
	}
	if cfg.Signals.Cooldown != 6*time.Hour || cfg.Signals.MaxPerDay != 3 {
		t.Fatalf("signals defaults: %+v", cfg.Signals)
	}
	if cfg.Strategy.MinScore != 85 || cfg.Strategy.EMALongTrend != 200 || cfg.Strategy.BBStd != 2 {
		t.Fatalf("strategy defaults: %+v", cfg.Strategy)
	}
	if cfg.Delivery.BatchSize != 30 || cfg.Delivery.BatchPause != time.Second {
		t.Fatalf("delivery defaults: %+v", cfg.Delivery)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
market:
  pairs: [SOLUSDT]
  timeframe: 5m
signals:
  cooldown: 1h
strategy:
  min_score: 90
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Market.Timeframe != "5m" || len(cfg.Market.Pairs) != 1 || cfg.Market.Pairs[0] != "SOLUSDT" {
		t.Fatalf("market: %+v", cfg.Market)
	}
	if cfg.Signals.Cooldown != time.Hour {
		t.Fatalf("cooldown = %v", cfg.Signals.Cooldown)
	}
	if cfg.Strategy.MinScore != 90 || cfg.Strategy.RSIPeriod != 14 {
		t.Fatalf("strategy: %+v", cfg.Strategy)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SIGNAL_BOT_MARKET_PAIRS", "ADAUSDT,XRPUSDT")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("SIGNAL_BOT_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Market.Pairs) != 2 || cfg.Market.Pairs[1] != "XRPUSDT" {
		t.Fatalf("pairs = %v", cfg.Market.Pairs)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis = %q", cfg.Redis.Addr)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"timeframe":                "market:\n  timeframe: 7m\n",
		"ema order":                "strategy:\n  ema_fast: 30\n",
		"no pairs":                 "market:\n  pairs: []\n",
		"bad yaml":                 "market: [",
		"zero score":               "strategy:\n  min_score: -1\n",
		"store shorter than deep":  "market:\n  max_candles: 200\n",
		"deep shorter than ema200": "strategy:\n  deep_candles: 150\n",
		"screen shorter than slow": "strategy:\n  quick_screen_candles: 10\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadAcceptsConsistentWindows(t *testing.T) {
	body := "market:\n  max_candles: 500\nstrategy:\n  deep_candles: 400\n"
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Market.MaxCandles != 500 || cfg.Strategy.DeepCandles != 400 {
		t.Fatalf("windows = %d/%d", cfg.Market.MaxCandles, cfg.Strategy.DeepCandles)
	}
}
