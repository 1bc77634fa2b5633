package service

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Status struct {
	Ready          bool  `json:"ready"`
	WSConnected    bool  `json:"wsConnected"`
	UptimeSec      int64 `json:"uptimeSec"`
	LastSampleUnix int64 `json:"lastSampleUnix"`
	LastPassUnix   int64 `json:"lastPassUnix"`
	Signals        int64 `json:"signals"`
}

// NewEcho админский сервер: /livez /readyz /healthz /metrics.
func NewEcho(state *State, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if !state.Ready() {
			return c.String(http.StatusServiceUnavailable, "not ready")
		}
		return c.String(http.StatusOK, "ready")
	})

	e.GET("/healthz", func(c echo.Context) error {
		st := Status{
			Ready:       state.Ready(),
			WSConnected: state.WSConnected(),
			UptimeSec:   int64(state.Uptime().Seconds()),
			Signals:     state.Signals(),
		}
		if t := state.LastSample(); !t.IsZero() {
			st.LastSampleUnix = t.Unix()
		}
		if t := state.LastPass(); !t.IsZero() {
			st.LastPassUnix = t.Unix()
		}
		return c.JSON(http.StatusOK, st)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return e
}
