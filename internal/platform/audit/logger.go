package audit

import (
	"net"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	apiContext "metricly/internal/api/context"
	"metricly/internal/platform/models"
)

const (
	ActionRegister      = "auth.register"
	ActionLogin         = "auth.login"
	ActionLoginFailed   = "auth.login_failed"
	ActionAPIKeyCreated = "api_key.created"
)

// Logger writes security-relevant actions as structured log records tagged
// component=audit. Secrets never pass through it.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(base zerolog.Logger) *Logger {
	return &Logger{logger: base.With().Str("component", "audit").Logger()}
}

// Default logs through the global zerolog logger.
func Default() *Logger {
	return NewLogger(log.Logger)
}

// Log records action on a resource. Actor and request details are taken
// from r when present.
func (l *Logger) Log(r *http.Request, action, resourceType, resourceID string, fields map[string]interface{}) {
	ev := l.logger.Info().
		Str("action", action).
		Str("resource_type", resourceType).
		Str("resource_id", resourceID)

	if r != nil {
		if user, ok := r.Context().Value(apiContext.User).(*models.User); ok && user != nil {
			ev = ev.Str("user_id", user.ID).Str("org_id", user.OrganizationID)
		}
		if id, ok := r.Context().Value(apiContext.RequestID).(string); ok {
			ev = ev.Str("request_id", id)
		}
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		ev = ev.Str("ip_address", ip).Str("user_agent", r.UserAgent())
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg("audit")
}
