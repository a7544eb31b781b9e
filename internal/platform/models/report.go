package models

import "time"

type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

type Report struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"org_id"`
	Name           string       `json:"name"`
	Format         ReportFormat `json:"format"`
	StoragePath    string       `json:"storage_path"`
	CreatedBy      *string      `json:"created_by"`
	CreatedAt      time.Time    `json:"created_at"`
}
