package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fazendarp/stashbot/pkg/config"
	"github.com/fazendarp/stashbot/pkg/logger"
	"github.com/fazendarp/stashbot/pkg/sheets"
)

const pingTimeout = 5 * time.Second

// Healthz reports liveness, and spreadsheet reachability when a pinger is
// provided.
func Healthz(cfg *config.Config, logg *logger.Logger, sheetsPinger sheets.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithField(r.Context(), "path", r.URL.Path)

		status := "ok"
		code := http.StatusOK
		if sheetsPinger != nil {
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			if err := sheetsPinger.Ping(pingCtx); err != nil {
				logg.Error(ctx, "health check: spreadsheet unreachable", err)
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			cancel()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		response := map[string]string{"status": status, "env": cfg.App.Env}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logg.Error(ctx, "writing health response", err)
		}
	}
}
