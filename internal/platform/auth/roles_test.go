package auth

import (
	"testing"

	"metricly/internal/platform/models"
)

func TestIsAllowed(t *testing.T) {
	adminOnly := []models.Role{models.RoleAdmin}
	writers := []models.Role{models.RoleAdmin, models.RoleUser}

	tests := []struct {
		role    models.Role
		allowed []models.Role
		want    bool
	}{
		{models.RoleAdmin, adminOnly, true},
		{models.RoleUser, adminOnly, false},
		{models.RoleViewer, adminOnly, false},
		{models.RoleUser, writers, true},
		{models.RoleViewer, writers, false},
		{models.RoleAdmin, nil, false},
	}

	for _, tt := range tests {
		if got := IsAllowed(tt.role, tt.allowed); got != tt.want {
			t.Errorf("IsAllowed(%q, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
		}
	}
}
