package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// newRegistry свой реестр вместо глобального, плюс go/process коллекторы.
func newRegistry() (*prometheus.Registry, prometheus.Registerer, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg, reg
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, e *echo.Echo) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.AdminPort)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("admin http: listening on %s", addr)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("admin http: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// Module состояние, метрики и админский HTTP.
func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			newRegistry,
			metrics.New,
			service.NewEcho,
		),
		fx.Invoke(RunHTTP),
	)
}
