package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInsufficientBalance = errors.New("point balance may not go negative")
)

// PointsService maintains reputation as an append-only ledger. The cached
// Profile.Points aggregate is updated in the same transaction as every
// append, so a failed append never leaves the cache out of step with
// the ledger.
type PointsService struct {
	db *gorm.DB
}

func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{db: db}
}

// Append writes one ledger entry in its own transaction.
func (s *PointsService) Append(profileID uuid.UUID, points int, reason string, reportID *uuid.UUID) (*models.PointsTransaction, error) {
	var txn *models.PointsTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = s.AppendInTx(tx, profileID, points, reason, reportID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// AppendInTx writes one ledger entry inside the caller's transaction so
// report lifecycle changes and their point awards commit atomically.
//
// A negative delta that would push the profile's total below zero fails
// with ErrInsufficientBalance: totals are never clamped and never go
// negative. The guard is a conditional UPDATE on the cached aggregate,
// which also makes concurrent appends for the same profile safe.
func (s *PointsService) AppendInTx(tx *gorm.DB, profileID uuid.UUID, points int, reason string, reportID *uuid.UUID) (*models.PointsTransaction, error) {
	result := tx.Model(&models.Profile{}).
		Where("id = ? AND points + ? >= 0", profileID, points).
		Update("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update point balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", profileID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInsufficientBalance
	}

	txn := models.PointsTransaction{
		ID:       uuid.New(),
		UserID:   profileID,
		Points:   points,
		Reason:   reason,
		ReportID: reportID,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("failed to append points transaction: %w", err)
	}
	return &txn, nil
}

// Balance returns the sum over the profile's ledger entries. The ledger,
// not the cached Profile.Points column, is ground truth.
func (s *PointsService) Balance(profileID uuid.UUID) (int, error) {
	var count int64
	if err := s.db.Model(&models.Profile{}).Where("id = ?", profileID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrProfileNotFound
	}

	var sum *int
	err := s.db.Model(&models.PointsTransaction{}).
		Where("user_id = ?", profileID).
		Select("SUM(points)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// History returns the profile's ledger entries, newest first.
func (s *PointsService) History(profileID uuid.UUID, limit int) ([]models.PointsTransaction, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var txns []models.PointsTransaction
	err := s.db.Where("user_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// Reconcile recomputes every profile's cached points and total_reports
// from their sources of truth. Run on demand when a cache is suspected
// of drifting; the ledger and reports table always win.
func (s *PointsService) Reconcile() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var profiles []models.Profile
		if err := tx.Find(&profiles).Error; err != nil {
			return err
		}
		for _, p := range profiles {
			var sum *int
			if err := tx.Model(&models.PointsTransaction{}).
				Where("user_id = ?", p.ID).
				Select("SUM(points)").
				Scan(&sum).Error; err != nil {
				return err
			}
			points := 0
			if sum != nil {
				points = *sum
			}

			var reports int64
			if err := tx.Model(&models.Report{}).Where("reporter_id = ?", p.ID).Count(&reports).Error; err != nil {
				return err
			}

			if points != p.Points || int(reports) != p.TotalReports {
				if err := tx.Model(&models.Profile{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
					"points":        points,
					"total_reports": reports,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
