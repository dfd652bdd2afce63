package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// HealthHandler serves the health and version probes
type HealthHandler struct {
	checker HealthChecker
	app     *config.AppSettings
}

// NewHealthHandler creates a new HealthHandler. A nil checker means there
// is no external store to probe.
func NewHealthHandler(checker HealthChecker, app *config.AppSettings) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		app:     app,
	}
}

// Health reports whether the service and its database are reachable
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		if err := h.checker.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.ServiceUnavailable(w, constants.MsgServiceUnavailable)
			return
		}
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "healthy",
		"version": h.app.Version,
	})
}

// Version reports the running build
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"version":     h.app.Version,
		"environment": h.app.Environment,
	})
}
