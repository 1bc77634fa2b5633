package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
	defaultConfigFile = "values_local.yaml"
	envPrefix         = "SIGNAL_BOT"

	// старые имена переменных, которые тоже читаем
	tokenTelegramENV = "TELEGRAM_TOKEN"
	databaseDSN      = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Service struct {
		Name      string `yaml:"name" default:"signal_bot"`
		Host      string `yaml:"host" default:"0.0.0.0"`
		AdminPort int    `yaml:"admin_port" default:"8080" validate:"gt=0,lte=65535"`
		LogLevel  string `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	} `yaml:"service"`

	Telegram struct {
		Token string `yaml:"token"`
		// AdminChatIDs получатели, если подписок в БД нет
		AdminChatIDs []int64 `yaml:"admin_chat_ids"`
	} `yaml:"telegram"`

	DB string `yaml:"db_dsn"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		Key      string `yaml:"key" default:"signal_bot:cooldown"`
	} `yaml:"redis"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic" default:"signals"`
	} `yaml:"kafka"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host" default:"localhost"`
		Port    int    `yaml:"port" default:"6831"`
	} `yaml:"tracing"`

	Exchange struct {
		RestURL string        `yaml:"rest_url" default:"https://api.binance.com" validate:"url"`
		WSURL   string        `yaml:"ws_url" default:"wss://stream.binance.com:9443" validate:"url"`
		Stream  bool          `yaml:"stream"`
		Timeout time.Duration `yaml:"timeout" default:"5s"`
		// ImportHistory грузить klines на старте
		ImportHistory  bool `yaml:"import_history" default:"true"`
		HistoryCandles int  `yaml:"history_candles" default:"300" validate:"gt=0,lte=1000"`
		ImportParallel int  `yaml:"import_parallel" default:"4" validate:"gt=0"`
	} `yaml:"exchange"`

	Market struct {
		Pairs         []string      `yaml:"pairs" default:"[\"BTCUSDT\",\"ETHUSDT\",\"TONUSDT\"]" validate:"min=1,dive,required"`
		Timeframe     string        `yaml:"timeframe" default:"1m" validate:"oneof=1m 5m 15m 30m 1h 4h 1d"`
		MaxCandles    int           `yaml:"max_candles" default:"300" validate:"gt=1"`
		PriceCacheTTL time.Duration `yaml:"price_cache_ttl" default:"30s" validate:"gt=0"`
		CheckInterval time.Duration `yaml:"check_interval" default:"60s" validate:"gt=0"`
	} `yaml:"market"`

	Strategy struct {
		EMAFast      int `yaml:"ema_fast" default:"9" validate:"gt=0"`
		EMASlow      int `yaml:"ema_slow" default:"21" validate:"gtfield=EMAFast"`
		EMATrend     int `yaml:"ema_trend" default:"50" validate:"gtfield=EMASlow"`
		EMALongTrend int `yaml:"ema_long_trend" default:"200" validate:"gtfield=EMATrend"`

		RSIPeriod     int     `yaml:"rsi_period" default:"14" validate:"gt=0"`
		RSIOversold   float64 `yaml:"rsi_oversold" default:"35" validate:"gte=0,lte=100"`
		RSIOverbought float64 `yaml:"rsi_overbought" default:"65" validate:"gte=0,lte=100,gtfield=RSIOversold"`
		RSIHistory    int     `yaml:"rsi_history" default:"50" validate:"gt=0"`

		MACDFast   int `yaml:"macd_fast" default:"12" validate:"gt=0"`
		MACDSlow   int `yaml:"macd_slow" default:"26" validate:"gtfield=MACDFast"`
		MACDSignal int `yaml:"macd_signal" default:"9" validate:"gt=0"`

		BBPeriod int     `yaml:"bb_period" default:"20" validate:"gt=1"`
		BBStd    float64 `yaml:"bb_std" default:"2" validate:"gt=0"`

		VolumePeriod int `yaml:"volume_period" default:"20" validate:"gt=0"`
		ATRPeriod    int `yaml:"atr_period" default:"14" validate:"gt=0"`

		DivergenceWindow    int     `yaml:"divergence_window" default:"20" validate:"gt=1"`
		DivergencePricePct  float64 `yaml:"divergence_price_pct" default:"0.02" validate:"gt=0"`
		DivergenceRSIPoints float64 `yaml:"divergence_rsi_points" default:"5" validate:"gt=0"`

		QuickScreenCandles int     `yaml:"quick_screen_candles" default:"60" validate:"gtefield=EMASlow"`
		QuickScreenSpread  float64 `yaml:"quick_screen_spread" default:"0.002" validate:"gte=0"`
		DeepCandles        int     `yaml:"deep_candles" default:"250" validate:"gtefield=QuickScreenCandles,gtefield=EMALongTrend"`

		MinScore int `yaml:"min_score" default:"85" validate:"gt=0"`
	} `yaml:"strategy"`

	Signals struct {
		Cooldown        time.Duration `yaml:"cooldown" default:"6h" validate:"gte=0"`
		MaxPerDay       int           `yaml:"max_per_day" default:"3" validate:"gt=0"`
		Window          time.Duration `yaml:"window" default:"24h" validate:"gt=0"`
		AnalyzeInterval time.Duration `yaml:"analyze_interval" default:"30s" validate:"gt=0"`
	} `yaml:"signals"`

	Delivery struct {
		BatchSize  int           `yaml:"batch_size" default:"30" validate:"gt=0"`
		BatchDelay time.Duration `yaml:"batch_delay" default:"50ms" validate:"gte=0"`
		BatchPause time.Duration `yaml:"batch_pause" default:"1s" validate:"gte=0"`
		MaxRetries int           `yaml:"max_retries" default:"3" validate:"gte=0"`
	} `yaml:"delivery"`
}

// NewConfig читает configs/$CONFIG_FILE (по умолчанию values_local.yaml).
func NewConfig() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = defaultConfigFile
	}
	return Load(filepath.Join(configDir, name))
}

// Load дефолты -> yaml-файл (если есть) -> переменные окружения -> валидация.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "set config defaults")
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// только дефолты и env
	case err != nil:
		return nil, errors.Wrapf(err, "open config %s", path)
	default:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}

	applyEnv(&cfg)

	v := validator.New()
	v.RegisterStructValidation(crossSection, Config{})
	if err := v.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// crossSection связи между секциями: иначе скорер молча не получит
// нужное число свечей и сигналов не будет никогда.
func crossSection(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Market.MaxCandles < cfg.Strategy.DeepCandles {
		sl.ReportError(cfg.Market.MaxCandles, "MaxCandles", "max_candles", "gtefield", "Strategy.DeepCandles")
	}
	if cfg.Strategy.DeepCandles < cfg.Strategy.MACDSlow+cfg.Strategy.MACDSignal {
		sl.ReportError(cfg.Strategy.DeepCandles, "DeepCandles", "deep_candles", "gtefield", "MACDSlow+MACDSignal")
	}
}

func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := firstNonEmpty(v.GetString("telegram.token"), os.Getenv(tokenTelegramENV)); s != "" {
		cfg.Telegram.Token = s
	}
	if s := firstNonEmpty(v.GetString("db_dsn"), os.Getenv(databaseDSN)); s != "" {
		cfg.DB = s
	}
	if s := v.GetString("redis.addr"); s != "" {
		cfg.Redis.Addr = s
	}
	if s := v.GetString("redis.password"); s != "" {
		cfg.Redis.Password = s
	}
	if brokers := v.GetStringSlice("kafka.brokers"); len(brokers) > 0 {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	if pairs := v.GetStringSlice("market.pairs"); len(pairs) > 0 {
		cfg.Market.Pairs = splitList(pairs)
	}
	if s := v.GetString("market.timeframe"); s != "" {
		cfg.Market.Timeframe = s
	}
	if v.IsSet("tracing.enabled") {
		cfg.Tracing.Enabled = v.GetBool("tracing.enabled")
	}
	if s := v.GetString("service.log_level"); s != "" {
		cfg.Service.LogLevel = s
	}
	if n := v.GetInt("strategy.min_score"); n > 0 {
		cfg.Strategy.MinScore = n
	}
}

// splitList env приходит одной строкой "a,b" или "a b".
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
