package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

func TestTenantMiddleware(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	middleware := NewTenantMiddleware(repositories.NewOrganizationRepository(db))
	user := &models.User{ID: "u1", OrganizationID: "org_123", Role: models.RoleUser}

	t.Run("Valid Tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withUser(req.Context(), user))

		rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow("org_123", "Test Org", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ").
			WithArgs("org_123").
			WillReturnRows(rows)

		rr := httptest.NewRecorder()
		handler := middleware.Handle(func(w http.ResponseWriter, r *http.Request) {
			tenant := Tenant(r)
			if tenant == nil || tenant.OrgID != "org_123" {
				t.Errorf("Expected OrgID org_123, got %+v", tenant)
			}
			if tenant != nil && tenant.OrgName != "Test Org" {
				t.Errorf("Expected OrgName Test Org, got %s", tenant.OrgName)
			}
			w.WriteHeader(http.StatusOK)
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
	})

	t.Run("Organization Not Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withUser(req.Context(), user))

		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ").
			WithArgs("org_123").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		rr := httptest.NewRecorder()
		middleware.Handle(okHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusForbidden)
		}
	})

	t.Run("Database Error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withUser(req.Context(), user))

		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ").
			WithArgs("org_123").
			WillReturnError(errors.New("connection reset"))

		rr := httptest.NewRecorder()
		middleware.Handle(okHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusInternalServerError)
		}
	})

	t.Run("No Identity", func(t *testing.T) {
		rr := httptest.NewRecorder()
		middleware.Handle(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusUnauthorized)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
