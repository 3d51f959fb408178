package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/estopia/gatekeeper/internal/gatekeeper/store"
	"github.com/estopia/gatekeeper/pkg/gatekeepersdk"
	"github.com/estopia/gatekeeper/pkg/httpx"
	"github.com/estopia/gatekeeper/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 200 when the database answers a ping, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gatekeepersdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	gatekeepersdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &gatekeepersdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness database ping failed", slog.Any("error", err))
			checks.Database = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, gatekeepersdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Truncate(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
