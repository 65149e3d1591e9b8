// Package routes wires the incidental HTTP surface: liveness and metrics.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fazendarp/stashbot/api/handlers"
	"github.com/fazendarp/stashbot/pkg/config"
	"github.com/fazendarp/stashbot/pkg/logger"
	"github.com/fazendarp/stashbot/pkg/sheets"
)

// NewRouter builds the health and metrics router.
func NewRouter(cfg *config.Config, logg *logger.Logger, sheetsPinger sheets.Pinger, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handlers.Healthz(cfg, logg, sheetsPinger))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
