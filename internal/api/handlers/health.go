package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/database"
)

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live reports that the process is serving.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready also checks the database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("database health check failed")
		checks["database"] = "unhealthy: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	response := struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}{
		Status: status,
		Checks: checks,
	}
	errors.WriteJSON(w, code, response)
}
