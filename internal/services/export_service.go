package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportService produces CSV snapshots of the report table for
// moderators.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

type reportExportRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	Title        string    `gorm:"column:title"`
	ReportType   string    `gorm:"column:report_type"`
	Status       string    `gorm:"column:status"`
	Priority     string    `gorm:"column:priority"`
	Latitude     float64   `gorm:"column:latitude"`
	Longitude    float64   `gorm:"column:longitude"`
	ReporterName string    `gorm:"column:reporter_name"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (s *ExportService) ExportReportsCSV() ([]byte, error) {
	var rows []reportExportRow

	err := s.db.Table("reports").
		Select(`
			reports.id,
			reports.title,
			reports.report_type,
			reports.status,
			reports.priority,
			reports.latitude,
			reports.longitude,
			profiles.display_name AS reporter_name,
			reports.created_at
		`).
		Joins("LEFT JOIN profiles ON profiles.id = reports.reporter_id").
		Order("reports.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	headers := []string{"ID", "Title", "Type", "Status", "Priority", "Latitude", "Longitude", "Reporter", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ID.String(),
			row.Title,
			row.ReportType,
			row.Status,
			row.Priority,
			fmt.Sprintf("%.6f", row.Latitude),
			fmt.Sprintf("%.6f", row.Longitude),
			row.ReporterName,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buffer.Bytes(), nil
}
