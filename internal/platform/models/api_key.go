package models

import "time"

type APIKey struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"org_id"`
	Key            string     `json:"-"`
	Label          *string    `json:"label"`
	CreatedAt      time.Time  `json:"created_at"`
	LastUsedAt     *time.Time `json:"last_used_at"`
}

// Prefix is the displayable head of the key; the full value is shown once.
func (k *APIKey) Prefix() string {
	if len(k.Key) <= 12 {
		return k.Key
	}
	return k.Key[:12] + "..."
}
