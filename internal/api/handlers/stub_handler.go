package handlers

import (
	"net/http"

	"metricly/internal/pkg/errors"
)

// NotImplemented answers routes that are reserved but not built yet:
// summary, forecast, ai insights and reports.
func NotImplemented(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, http.StatusNotImplemented, errors.ErrCodeNotImplemented, "Not implemented")
}
