package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"metricly/internal/platform/models"
)

const (
	DefaultEventLimit = 500
	MaxEventLimit     = 5000
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// InsertBatch writes all events in one transaction; either every row lands
// or none does.
func (r *EventRepository) InsertBatch(ctx context.Context, events []*models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (org_id, user_id, event_time, category, segment, value, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range events {
		var metadata interface{}
		if len(e.Metadata) > 0 {
			metadata = string(e.Metadata)
		}
		e.EventTime = e.EventTime.UTC()
		e.CreatedAt = now
		if _, err := stmt.ExecContext(ctx,
			e.OrganizationID, e.UserID, e.EventTime, e.Category, e.Segment, e.Value, metadata, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// List returns the organization's events matching filter, newest first.
// Category and segment match as case-insensitive substrings; To is exclusive.
func (r *EventRepository) List(ctx context.Context, orgID string, filter models.EventFilter) ([]*models.Event, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT id, org_id, user_id, event_time, category, segment, value, metadata, created_at
		FROM events
		WHERE org_id = $1`)
	args := []interface{}{orgID}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.From.IsZero() {
		b.WriteString(" AND event_time >= " + arg(filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		b.WriteString(" AND event_time < " + arg(filter.To.UTC()))
	}
	if filter.Category != "" {
		b.WriteString(" AND LOWER(category) LIKE " + arg("%"+strings.ToLower(filter.Category)+"%"))
	}
	if filter.Segment != "" {
		b.WriteString(" AND LOWER(segment) LIKE " + arg("%"+strings.ToLower(filter.Segment)+"%"))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}
	b.WriteString(" ORDER BY event_time DESC, id DESC LIMIT " + arg(limit))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		var e models.Event
		var userID, category, segment sql.NullString
		var value sql.NullFloat64
		var metadata []byte

		if err := rows.Scan(&e.ID, &e.OrganizationID, &userID, &e.EventTime, &category, &segment, &value, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			e.UserID = &userID.String
		}
		if category.Valid {
			e.Category = &category.String
		}
		if segment.Valid {
			e.Segment = &segment.String
		}
		if value.Valid {
			e.Value = &value.Float64
		}
		if len(metadata) > 0 {
			e.Metadata = metadata
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
