package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"metricly/internal/api/middleware"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/audit"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

const (
	apiKeyPrefix   = "mk_live_"
	maxLabelLength = 100
)

type APIKeyHandler struct {
	repo  *repositories.APIKeyRepository
	audit *audit.Logger
}

func NewAPIKeyHandler(repo *repositories.APIKeyRepository, auditLog *audit.Logger) *APIKeyHandler {
	return &APIKeyHandler{repo: repo, audit: auditLog}
}

type createAPIKeyResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type apiKeySummary struct {
	ID         string     `json:"id"`
	Label      *string    `json:"label"`
	KeyPrefix  string     `json:"key_prefix"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

func newAPIKey() string {
	return apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create issues a key for the caller's organization. The raw key is only
// ever returned here.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.Tenant(r)

	var req struct {
		Label *string `json:"label"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	if req.Label != nil {
		trimmed := strings.TrimSpace(*req.Label)
		if len(trimmed) > maxLabelLength {
			errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, "label must be at most 100 characters")
			return
		}
		if trimmed == "" {
			req.Label = nil
		} else {
			req.Label = &trimmed
		}
	}

	key := &models.APIKey{
		OrganizationID: tenant.OrgID,
		Key:            newAPIKey(),
		Label:          req.Label,
	}
	if err := h.repo.Create(r.Context(), key); err != nil {
		log.Error().Err(err).Str("org_id", tenant.OrgID).Msg("failed to create api key")
		writeInternal(w)
		return
	}

	h.audit.Log(r, audit.ActionAPIKeyCreated, "api_key", key.ID, nil)
	errors.WriteJSON(w, http.StatusCreated, createAPIKeyResponse{
		ID:        key.ID,
		Key:       key.Key,
		Label:     key.Label,
		CreatedAt: key.CreatedAt,
	})
}

func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.Tenant(r)

	keys, err := h.repo.ListByOrg(r.Context(), tenant.OrgID)
	if err != nil {
		log.Error().Err(err).Str("org_id", tenant.OrgID).Msg("failed to list api keys")
		writeInternal(w)
		return
	}

	out := make([]apiKeySummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, apiKeySummary{
			ID:         k.ID,
			Label:      k.Label,
			KeyPrefix:  k.Prefix(),
			CreatedAt:  k.CreatedAt,
			LastUsedAt: k.LastUsedAt,
		})
	}
	errors.WriteJSON(w, http.StatusOK, out)
}
