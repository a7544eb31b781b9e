package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"metricly/internal/platform/models"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, org_id, key, label, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, key.ID, key.OrganizationID, key.Key, key.Label, key.CreatedAt)
	return err
}

// GetByKey returns nil, nil for an unknown key.
func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, org_id, key, label, created_at, last_used_at
		FROM api_keys WHERE key = $1
	`, key)
	k, err := scanAPIKey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return k, err
}

func (r *APIKeyRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.APIKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, key, label, created_at, last_used_at
		FROM api_keys WHERE org_id = $1 ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []*models.APIKey{}
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, at.UTC(), id)
	return err
}

func scanAPIKey(s scanner) (*models.APIKey, error) {
	var k models.APIKey
	var label sql.NullString
	var lastUsedAt sql.NullTime

	if err := s.Scan(&k.ID, &k.OrganizationID, &k.Key, &label, &k.CreatedAt, &lastUsedAt); err != nil {
		return nil, err
	}
	if label.Valid {
		k.Label = &label.String
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		k.LastUsedAt = &t
	}
	return &k, nil
}
