package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"metricly/internal/api/middleware"
	"metricly/internal/engine/accounts"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/audit"
)

type AuthHandler struct {
	accounts *accounts.Service
	audit    *audit.Logger
}

func NewAuthHandler(accountsSvc *accounts.Service, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{accounts: accountsSvc, audit: auditLog}
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an organization plus its admin user and returns the
// user record. 400 when the email is already registered anywhere.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req accounts.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		var verr *accounts.ValidationError
		switch {
		case stderrors.As(err, &verr):
			errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, verr.Error())
		case stderrors.Is(err, accounts.ErrEmailTaken):
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeConflict, "Email already registered")
		default:
			log.Error().Err(err).Msg("registration failed")
			writeInternal(w)
		}
		return
	}

	h.audit.Log(r, audit.ActionRegister, "user", user.ID, map[string]interface{}{"org_id": user.OrganizationID})
	errors.WriteJSON(w, http.StatusOK, user)
}

// Login takes OAuth2 password-flow form fields; username carries the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, "Invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, "username and password are required")
		return
	}

	token, err := h.accounts.Login(r.Context(), username, password)
	if err != nil {
		if stderrors.Is(err, accounts.ErrInvalidCredentials) {
			h.audit.Log(r, audit.ActionLoginFailed, "user", "", nil)
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidCredentials, "Incorrect email or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		writeInternal(w)
		return
	}

	h.audit.Log(r, audit.ActionLogin, "user", "", nil)
	errors.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, middleware.CurrentUser(r))
}
