package http

import (
	"net/http"
	"time"

	"github.com/meetcore/authority/internal/authority/service"
	"github.com/meetcore/authority/pkg/authoritysdk"
	"github.com/meetcore/authority/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports whether the Authority's expiry loop and Focus Manager registration are live.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authoritysdk.HealthResponse
//	@Failure		503	{object}	authoritysdk.HealthResponse
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, authority *service.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authoritysdk.HealthChecks{Authority: "ok"}
		status := "ok"
		code := http.StatusOK

		if !authority.Ready() {
			checks.Authority = "error: not started"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, authoritysdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
