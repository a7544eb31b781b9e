package auth

import "metricly/internal/platform/models"

// IsAllowed reports whether role is a member of allowed.
func IsAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
