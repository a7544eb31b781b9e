package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apiContext "metricly/internal/api/context"
	"metricly/internal/platform/database"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

func TestAPIKeyMiddleware(t *testing.T) {
	db := database.NewTestDB(t)
	user := seedUser(t, db, models.RoleAdmin)
	keys := repositories.NewAPIKeyRepository(db.DB)

	if err := keys.Create(context.Background(), &models.APIKey{OrganizationID: user.OrganizationID, Key: "mk_live_abc"}); err != nil {
		t.Fatal(err)
	}

	used := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	mw := NewAPIKeyMiddleware(keys)
	mw.now = func() time.Time { return used }

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"unknown", "mk_live_nope", http.StatusUnauthorized},
		{"valid", "mk_live_abc", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rr := httptest.NewRecorder()

			mw.Handle(func(w http.ResponseWriter, r *http.Request) {
				key, ok := r.Context().Value(apiContext.APIKey).(*models.APIKey)
				if !ok || key.OrganizationID != user.OrganizationID {
					t.Errorf("api key not attached: %+v", key)
				}
				w.WriteHeader(http.StatusOK)
			})(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}

	got, err := keys.GetByKey(context.Background(), "mk_live_abc")
	if err != nil {
		t.Fatal(err)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(used) {
		t.Errorf("LastUsedAt = %v, want %v", got.LastUsedAt, used)
	}
}
