package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	apiContext "metricly/internal/api/context"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/repositories"
)

const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware authenticates machine clients by the X-API-Key header.
type APIKeyMiddleware struct {
	keyRepo *repositories.APIKeyRepository
	now     func() time.Time
}

func NewAPIKeyMiddleware(keyRepo *repositories.APIKeyRepository) *APIKeyMiddleware {
	return &APIKeyMiddleware{keyRepo: keyRepo, now: time.Now}
}

func (m *APIKeyMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(APIKeyHeader)
		if raw == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing API key")
			return
		}

		key, err := m.keyRepo.GetByKey(r.Context(), raw)
		if err != nil {
			log.Error().Err(err).Msg("failed to load api key")
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error")
			return
		}
		if key == nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid API key")
			return
		}

		if err := m.keyRepo.UpdateLastUsed(r.Context(), key.ID, m.now()); err != nil {
			log.Warn().Err(err).Str("key_id", key.ID).Msg("failed to record api key use")
		}

		ctx := context.WithValue(r.Context(), apiContext.APIKey, key)
		next(w, r.WithContext(ctx))
	}
}
