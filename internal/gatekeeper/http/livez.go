package http

import (
	"net/http"
	"time"

	"github.com/estopia/gatekeeper/pkg/gatekeepersdk"
	"github.com/estopia/gatekeeper/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 OK while the process is serving requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	gatekeepersdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, gatekeepersdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Truncate(time.Second).String(),
			Version: version,
		})
	}
}
