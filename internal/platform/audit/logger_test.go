package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	apiContext "metricly/internal/api/context"
	"metricly/internal/platform/models"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.New(&buf))

	req := httptest.NewRequest("POST", "/api/keys", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	req.Header.Set("User-Agent", "test-agent")
	ctx := context.WithValue(req.Context(), apiContext.User, &models.User{ID: "u1", OrganizationID: "o1"})
	req = req.WithContext(ctx)

	l.Log(req, ActionAPIKeyCreated, "api_key", "k1", map[string]interface{}{"label": "ingest"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}

	want := map[string]string{
		"component":     "audit",
		"action":        ActionAPIKeyCreated,
		"resource_type": "api_key",
		"resource_id":   "k1",
		"user_id":       "u1",
		"org_id":        "o1",
		"ip_address":    "10.1.2.3",
		"user_agent":    "test-agent",
		"label":         "ingest",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLogger_NilRequest(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(zerolog.New(&buf)).Log(nil, ActionRegister, "user", "u1", nil)

	if !bytes.Contains(buf.Bytes(), []byte(`"action":"auth.register"`)) {
		t.Errorf("log line = %s", buf.String())
	}
}
