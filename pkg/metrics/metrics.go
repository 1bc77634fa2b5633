package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "signal_bot"

// Metrics счётчики пайплайна.
type Metrics struct {
	SamplesTotal   *prometheus.CounterVec // pair
	SampleErrors   *prometheus.CounterVec // pair, reason
	FetchErrors    prometheus.Counter
	CacheLookups   *prometheus.CounterVec // result: hit|miss
	WSReconnects   prometheus.Counter
	Analyses       *prometheus.CounterVec // pair, result
	AnalyzeDur     prometheus.Histogram
	SignalsTotal   *prometheus.CounterVec // pair, side
	SignalScore    prometheus.Histogram
	GateDenied     *prometheus.CounterVec // pair
	DeliveredTotal *prometheus.CounterVec // channel, result
	TrackedPairs   prometheus.Gauge
}

// New регистрирует метрики в reg. В тестах удобно prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Price samples accepted into the candle store",
		}, []string{"pair"}),
		SampleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_errors_total",
			Help:      "Price samples rejected by the candle store",
		}, []string{"pair", "reason"}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed exchange ticker requests",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_lookups_total",
			Help:      "Price cache lookups by result",
		}, []string{"result"}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_reconnects_total",
			Help:      "Exchange websocket reconnects",
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyzer passes per pair and outcome",
		}, []string{"pair", "result"}),
		AnalyzeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Full analyzer pass duration",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Signals emitted",
		}, []string{"pair", "side"}),
		SignalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "signal_score",
			Help:      "Score of emitted signals",
			Buckets:   prometheus.LinearBuckets(80, 5, 10),
		}),
		GateDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_denied_total",
			Help:      "Qualifying signals suppressed by cooldown or daily cap",
		}, []string{"pair"}),
		DeliveredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivered_total",
			Help:      "Signal deliveries per channel",
		}, []string{"channel", "result"}),
		TrackedPairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_pairs",
			Help:      "Pairs polled by the collector",
		}),
	}

	reg.MustRegister(
		m.SamplesTotal,
		m.SampleErrors,
		m.FetchErrors,
		m.CacheLookups,
		m.WSReconnects,
		m.Analyses,
		m.AnalyzeDur,
		m.SignalsTotal,
		m.SignalScore,
		m.GateDenied,
		m.DeliveredTotal,
		m.TrackedPairs,
	)
	return m
}

// Nop метрики без регистрации, для тестов и утилит.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
