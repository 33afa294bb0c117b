package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/authz"
	"github.com/mangrovewatch/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlertNotFound  = errors.New("alert not found")
	ErrAlertForbidden = errors.New("alert is targeted at another user")
)

// AlertService decides which alert rows to materialize for report events
// and owns the read/acknowledge surface. Delivery (email, push) is a
// separate transport concern and is not handled here.
type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// EmitNewReportInTx materializes the creation alert for a report inside
// the submission transaction. High and critical reports produce a
// broadcast alert whose severity mirrors the report priority; lower
// priorities produce nothing.
func (s *AlertService) EmitNewReportInTx(tx *gorm.DB, report *models.Report) error {
	if report.Priority != models.PriorityHigh && report.Priority != models.PriorityCritical {
		return nil
	}

	reportID := report.ID
	alert := models.NewAlert(
		models.Broadcast(),
		models.AlertTypeNewReport,
		report.Priority,
		"New "+report.Priority+" priority report",
		fmt.Sprintf("%q was reported as %s.", report.Title, report.ReportType),
		&reportID,
	)
	if err := tx.Create(&alert).Error; err != nil {
		return fmt.Errorf("failed to create report alert: %w", err)
	}
	return nil
}

// SweepPendingValidation finds reports still pending after the threshold
// and fans out one validation_needed alert per moderator/admin profile.
//
// Alert rows carry a single user_id, so "notify the moderators" is
// modeled as one targeted row per moderator rather than a broadcast
// with read-time role filtering. A report is swept at most once: any
// existing validation_needed alert for it suppresses another round.
func (s *AlertService) SweepPendingValidation(threshold time.Duration) (int, error) {
	cutoff := time.Now().Add(-threshold)

	var stale []models.Report
	err := s.db.
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Where("id NOT IN (?)", s.db.Model(&models.Alert{}).
			Select("report_id").
			Where("alert_type = ? AND report_id IS NOT NULL", models.AlertTypeValidationNeeded)).
		Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find stale pending reports: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var moderators []models.Profile
	if err := s.db.Where("role IN ?", authz.ModeratorRoles()).Find(&moderators).Error; err != nil {
		return 0, fmt.Errorf("failed to load moderator profiles: %w", err)
	}
	if len(moderators) == 0 {
		slog.Warn("validation sweep found stale reports but no moderators", "reports", len(stale))
		return 0, nil
	}

	created := 0
	for _, report := range stale {
		reportID := report.ID
		err := s.db.Transaction(func(tx *gorm.DB) error {
			for _, mod := range moderators {
				alert := models.NewAlert(
					models.TargetedAt(mod.ID),
					models.AlertTypeValidationNeeded,
					report.Priority,
					"Report awaiting validation",
					fmt.Sprintf("%q has been pending since %s.", report.Title, report.CreatedAt.Format(time.RFC3339)),
					&reportID,
				)
				if err := tx.Create(&alert).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return created, fmt.Errorf("failed to fan out validation alerts: %w", err)
		}
		created += len(moderators)
	}
	return created, nil
}

// ListForUser returns the union of broadcast alerts and alerts targeted
// at the profile, newest first.
func (s *AlertService) ListForUser(profileID uuid.UUID, limit int) ([]models.Alert, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var alerts []models.Alert
	err := s.db.
		Where("user_id = ? OR user_id IS NULL", profileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkRead acknowledges an alert. Targeted alerts may only be read by
// their recipient. Re-marking an already-read alert is a no-op, not an
// error, and does not move read_at.
func (s *AlertService) MarkRead(alertID, profileID uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.First(&alert, "id = ?", alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if target := alert.Target(); !target.IsBroadcast() && target.UserID() != profileID {
		return nil, ErrAlertForbidden
	}

	if alert.ReadAt != nil {
		return &alert, nil
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.Alert{}).
		Where("id = ? AND read_at IS NULL", alertID).
		Update("read_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		alert.ReadAt = &now
	} else {
		// Lost a race with another acknowledgement; return the stored row.
		if err := s.db.First(&alert, "id = ?", alertID).Error; err != nil {
			return nil, err
		}
	}
	return &alert, nil
}
