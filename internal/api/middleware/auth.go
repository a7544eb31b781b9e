package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	apiContext "metricly/internal/api/context"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/auth"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

const (
	detailNotAuthenticated = "Not authenticated"
	detailBadCredentials   = "Could not validate credentials"
)

// AuthMiddleware resolves the bearer token on every request to the User it
// names. Nothing is cached between requests.
type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	userRepo *repositories.UserRepository
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			errors.WriteUnauthorized(w, detailNotAuthenticated)
			return
		}

		claims, err := m.tokenSvc.Verify(token)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
			errors.WriteUnauthorized(w, detailBadCredentials)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.Subject)
		if err != nil {
			log.Error().Err(err).Msg("failed to load user")
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error")
			return
		}
		// A deleted user looks the same as a bad token.
		if user == nil {
			errors.WriteUnauthorized(w, detailBadCredentials)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.User, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole must run after AuthMiddleware.Handle.
func RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				errors.WriteUnauthorized(w, detailNotAuthenticated)
				return
			}
			if !auth.IsAllowed(user.Role, roles) {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions")
				return
			}
			next(w, r)
		}
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(apiContext.User).(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
