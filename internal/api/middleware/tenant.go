package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	apiContext "metricly/internal/api/context"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

// TenantContext is the organization every tenant-scoped query runs against.
type TenantContext struct {
	OrgID   string
	OrgName string
}

type TenantMiddleware struct {
	orgRepo *repositories.OrganizationRepository
}

func NewTenantMiddleware(orgRepo *repositories.OrganizationRepository) *TenantMiddleware {
	return &TenantMiddleware{orgRepo: orgRepo}
}

// Handle loads the caller's organization. It must run after either the
// bearer gate or the API key gate.
func (m *TenantMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID := ""
		if user := CurrentUser(r); user != nil {
			orgID = user.OrganizationID
		} else if key, ok := r.Context().Value(apiContext.APIKey).(*models.APIKey); ok {
			orgID = key.OrganizationID
		} else {
			errors.WriteUnauthorized(w, detailNotAuthenticated)
			return
		}

		org, err := m.orgRepo.GetByID(r.Context(), orgID)
		if err != nil {
			log.Error().Err(err).Str("org_id", orgID).Msg("failed to load organization")
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load organization")
			return
		}
		if org == nil {
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Organization not found")
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Tenant, &TenantContext{
			OrgID:   org.ID,
			OrgName: org.Name,
		})
		next(w, r.WithContext(ctx))
	}
}

// Tenant returns the organization attached by TenantMiddleware, or nil.
func Tenant(r *http.Request) *TenantContext {
	tenant, _ := r.Context().Value(apiContext.Tenant).(*TenantContext)
	return tenant
}
