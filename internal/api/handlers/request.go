package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"metricly/internal/pkg/errors"
)

// decodeJSON reads a single JSON document into v and writes the error
// response itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			errors.WriteError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "Request body too large")
			return false
		}
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, "Invalid request body")
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON that also accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errors.WriteError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "Request body too large")
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	return decodeJSON(w, r, v)
}

func writeInternal(w http.ResponseWriter) {
	errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error")
}
