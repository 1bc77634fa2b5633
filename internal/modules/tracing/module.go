package tracing

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
)

func newTracer(lc fx.Lifecycle, cfg *config.Config) (opentracing.Tracer, error) {
	tracing.SetServiceName(cfg.Service.Name)
	tracer, closeFn, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeFn()
			return nil
		},
	})
	return tracer, nil
}

// Module глобальный трейсер: jaeger или noop.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Provide(newTracer),
		// спаны берут глобальный трейсер, поэтому инициализируем его явно
		fx.Invoke(func(opentracing.Tracer) {}),
	)
}
