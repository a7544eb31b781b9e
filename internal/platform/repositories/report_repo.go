package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"metricly/internal/platform/models"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, org_id, name, format, storage_path, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, report.ID, report.OrganizationID, report.Name, string(report.Format), report.StoragePath, report.CreatedBy, report.CreatedAt)
	return err
}

// ListByOrg returns the organization's reports, newest first.
func (r *ReportRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, name, format, storage_path, created_by, created_at
		FROM reports WHERE org_id = $1 ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*models.Report{}
	for rows.Next() {
		var rep models.Report
		var format string
		var createdBy sql.NullString
		if err := rows.Scan(&rep.ID, &rep.OrganizationID, &rep.Name, &format, &rep.StoragePath, &createdBy, &rep.CreatedAt); err != nil {
			return nil, err
		}
		rep.Format = models.ReportFormat(format)
		if createdBy.Valid {
			rep.CreatedBy = &createdBy.String
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}
