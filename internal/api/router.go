package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "metricly/internal/api/context"
	"metricly/internal/api/handlers"
	"metricly/internal/api/middleware"
	"metricly/internal/pkg/errors"
	"metricly/internal/platform/models"
)

type Dependencies struct {
	AuthHandler      *handlers.AuthHandler
	APIKeyHandler    *handlers.APIKeyHandler
	EventHandler     *handlers.EventHandler
	HealthHandler    *handlers.HealthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	TenantMiddleware *middleware.TenantMiddleware
	APIKeyMiddleware *middleware.APIKeyMiddleware
	AuthRateLimiter  *middleware.RateLimiter
	Metrics          *middleware.Metrics
	CORSOrigins      []string
}

// NewRouter builds the route table and wraps it in the process-wide
// middleware stack.
func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not Found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusMethodNotAllowed, errors.ErrCodeInvalidInput, "Method Not Allowed")
	})

	r := &routes{router: router, metrics: deps.Metrics}

	// Middleware references
	authMid := deps.AuthMiddleware.Handle
	tenantMid := deps.TenantMiddleware.Handle
	keyMid := deps.APIKeyMiddleware.Handle
	limitMid := deps.AuthRateLimiter.Handle
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	writers := middleware.RequireRole(models.RoleAdmin, models.RoleUser)

	// Health and metrics
	r.handle(http.MethodGet, "/health", deps.HealthHandler.Live)
	r.handle(http.MethodGet, "/health/ready", deps.HealthHandler.Ready)
	router.Handler(http.MethodGet, "/metrics", handlers.NewMetricsHandler(deps.Metrics.Registry()))

	// Authentication routes
	r.handle(http.MethodPost, "/api/auth/register", deps.AuthHandler.Register, limitMid)
	r.handle(http.MethodPost, "/api/auth/login", deps.AuthHandler.Login, limitMid)
	r.handle(http.MethodGet, "/api/auth/me", deps.AuthHandler.Me, authMid)

	// API keys
	r.handle(http.MethodPost, "/api/keys", deps.APIKeyHandler.Create, authMid, adminOnly, tenantMid)
	r.handle(http.MethodGet, "/api/keys", deps.APIKeyHandler.List, authMid, adminOnly, tenantMid)

	// Events
	r.handle(http.MethodPost, "/api/ingest/events", deps.EventHandler.Ingest, keyMid, tenantMid)
	r.handle(http.MethodPost, "/api/events", deps.EventHandler.Create, authMid, writers, tenantMid)
	r.handle(http.MethodGet, "/api/events", deps.EventHandler.List, authMid, tenantMid)

	// Reserved
	r.handle(http.MethodGet, "/api/summary", handlers.NotImplemented, authMid)
	r.handle(http.MethodGet, "/api/forecast", handlers.NotImplemented, authMid)
	r.handle(http.MethodPost, "/api/ai/insights", handlers.NotImplemented, authMid)
	r.handle(http.MethodGet, "/api/reports", handlers.NotImplemented, authMid)
	r.handle(http.MethodPost, "/api/reports", handlers.NotImplemented, authMid)

	var h http.Handler = router
	h = middleware.BodyLimit(h)
	h = middleware.CORS(deps.CORSOrigins)(h)
	h = middleware.Recovery(h)
	h = middleware.Logging(h)
	h = middleware.RequestID(h)
	return h
}

type routes struct {
	router  *httprouter.Router
	metrics *middleware.Metrics
}

// handle registers path with its middlewares applied in order and the
// request metrics outermost.
func (rt *routes) handle(method, path string, handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) {
	middlewares = append([]func(http.HandlerFunc) http.HandlerFunc{rt.metrics.Instrument(path)}, middlewares...)
	rt.router.Handle(method, path, chain(handler, middlewares...))
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
