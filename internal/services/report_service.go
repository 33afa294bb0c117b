package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/authz"
	"github.com/mangrovewatch/backend/internal/config"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrAreaNotFound      = errors.New("area not found")
	ErrForbidden         = errors.New("insufficient role for this action")
	ErrInvalidTransition = errors.New("status change not permitted from current state")

	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidReportType   = errors.New("report_type must be illegal_cutting, pollution, dumping, construction, or other")
	ErrInvalidStatus       = errors.New("status must be pending, verified, resolved, or rejected")
	ErrInvalidPriority     = errors.New("priority must be low, medium, high, or critical")
	ErrInvalidLatitude     = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude    = errors.New("longitude must be between -180 and 180")
	ErrInvalidConfidence   = errors.New("ai_confidence_score must be between 0 and 100")
	ErrContentRejected     = errors.New("content rejected")
)

// ReportService owns the report lifecycle state machine and keeps the
// derived rows (reporter counters, point awards, creation alerts) in
// step with it. Every mutation is all-or-nothing: validation happens
// before any write, and entity plus derived rows commit in one
// transaction.
type ReportService struct {
	db     *gorm.DB
	cfg    *config.Config
	points *PointsService
	alerts *AlertService
	filter *ContentFilter
}

func NewReportService(db *gorm.DB, cfg *config.Config, points *PointsService, alerts *AlertService, filter *ContentFilter) *ReportService {
	return &ReportService{db: db, cfg: cfg, points: points, alerts: alerts, filter: filter}
}

// Submit creates a report for the authenticated user's profile. The
// initial status is always pending regardless of anything the client
// sent, and the reporter is taken from the session, never the payload.
func (s *ReportService) Submit(userID uuid.UUID, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.AreaID != nil {
		var count int64
		if err := s.db.Model(&models.Area{}).Where("id = ?", *req.AreaID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrAreaNotFound
		}
	}

	var imageURLs datatypes.JSON
	if len(req.ImageURLs) > 0 {
		b, err := json.Marshal(req.ImageURLs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image urls: %w", err)
		}
		imageURLs = datatypes.JSON(b)
	}

	report := models.Report{
		ID:                uuid.New(),
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		ReportType:        req.ReportType,
		Status:            models.StatusPending,
		Priority:          req.Priority,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		LocationName:      req.LocationName,
		ImageURLs:         imageURLs,
		AIConfidenceScore: req.AIConfidenceScore,
		ReporterID:        profile.ID,
		AreaID:            req.AreaID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		if err := tx.Model(&models.Profile{}).
			Where("id = ?", profile.ID).
			Update("total_reports", gorm.Expr("total_reports + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment report counter: %w", err)
		}

		if s.cfg.PointsReportSubmitted != 0 {
			reportID := report.ID
			if _, err := s.points.AppendInTx(tx, profile.ID, s.cfg.PointsReportSubmitted, models.ReasonReportSubmitted, &reportID); err != nil {
				return err
			}
		}

		return s.alerts.EmitNewReportInTx(tx, &report)
	})
	if err != nil {
		return nil, err
	}

	report.Reporter = profile
	resp := mapReportToResponse(&report)
	return &resp, nil
}

func (s *ReportService) validateSubmission(req *dto.CreateReportRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrDescriptionRequired
	}
	if !models.ValidReportType(req.ReportType) {
		return ErrInvalidReportType
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(req.Priority) {
		return ErrInvalidPriority
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return ErrInvalidLongitude
	}
	if req.AIConfidenceScore != nil && (*req.AIConfidenceScore < 0 || *req.AIConfidenceScore > 100) {
		return ErrInvalidConfidence
	}
	for _, text := range []string{req.Title, req.Description} {
		if ok, reason := s.filter.Check(text); !ok {
			return fmt.Errorf("%w: %s", ErrContentRejected, s.filter.RejectionMessage(reason))
		}
	}
	return nil
}

// UpdateStatus applies one lifecycle transition. Only moderators and
// admins may act; the transition must be legal from the report's current
// state, and the update is guarded on that state so two concurrent
// moderator actions cannot both succeed.
func (s *ReportService) UpdateStatus(reportID uuid.UUID, newStatus, actingRole string, notes *string) (*dto.ReportResponse, error) {
	if !authz.Can(actingRole, authz.ActionUpdateReportStatus) {
		return nil, ErrForbidden
	}

	switch newStatus {
	case models.StatusPending, models.StatusVerified, models.StatusResolved, models.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}

	var updated models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}

		if !models.CanTransition(report.Status, newStatus) {
			return ErrInvalidTransition
		}

		updates := map[string]interface{}{"status": newStatus}
		if notes != nil {
			updates["validation_notes"] = *notes
		}
		if newStatus == models.StatusResolved {
			updates["resolved_at"] = time.Now().UTC()
		}

		// Guard on the status we just read: if another moderator raced
		// us to a contradictory transition, zero rows match and the
		// whole transaction rolls back.
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, report.Status).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update report status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if newStatus == models.StatusVerified && s.cfg.PointsReportVerified != 0 {
			if _, err := s.points.AppendInTx(tx, report.ReporterID, s.cfg.PointsReportVerified, models.ReasonReportVerified, &reportID); err != nil {
				return err
			}
		}
		if newStatus == models.StatusRejected && s.cfg.PointsReportRejected != 0 {
			if _, err := s.points.AppendInTx(tx, report.ReporterID, s.cfg.PointsReportRejected, models.ReasonReportRejected, &reportID); err != nil {
				return err
			}
		}

		return tx.Preload("Reporter").First(&updated, "id = ?", reportID).Error
	})
	if err != nil {
		return nil, err
	}

	resp := mapReportToResponse(&updated)
	return &resp, nil
}

// List returns reports newest first with the reporter's public profile
// fields joined in for rendering.
func (s *ReportService) List(filter dto.ReportFilter, page, limit int) (*dto.ReportListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := s.db.Model(&models.Report{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ReportType != "" {
		query = query.Where("report_type = ?", filter.ReportType)
	}
	if filter.AreaID != nil {
		query = query.Where("area_id = ?", *filter.AreaID)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []models.Report
	if err := query.Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, err
	}

	resp := &dto.ReportListResponse{
		Reports:    make([]dto.ReportResponse, len(reports)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	for i := range reports {
		resp.Reports[i] = mapReportToResponse(&reports[i])
	}
	return resp, nil
}

func (s *ReportService) Get(reportID uuid.UUID) (*dto.ReportResponse, error) {
	var report models.Report
	if err := s.db.Preload("Reporter").First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	resp := mapReportToResponse(&report)
	return &resp, nil
}

// Stats aggregates live report counts and total points awarded for the
// dashboard.
func (s *ReportService) Stats() (*dto.ReportStatsResponse, error) {
	stats := &dto.ReportStatsResponse{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
		ByType:     make(map[string]int64),
	}

	if err := s.db.Model(&models.Report{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	groupings := []struct {
		column string
		dest   map[string]int64
	}{
		{"status", stats.ByStatus},
		{"priority", stats.ByPriority},
		{"report_type", stats.ByType},
	}
	for _, g := range groupings {
		var rows []bucket
		err := s.db.Model(&models.Report{}).
			Select(g.column + " AS key, COUNT(*) AS count").
			Group(g.column).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			g.dest[row.Key] = row.Count
		}
	}

	var awarded *int64
	err := s.db.Model(&models.PointsTransaction{}).
		Where("points > 0").
		Select("SUM(points)").
		Scan(&awarded).Error
	if err != nil {
		return nil, err
	}
	if awarded != nil {
		stats.PointsAwarded = *awarded
	}
	return stats, nil
}

func mapReportToResponse(r *models.Report) dto.ReportResponse {
	var imageURLs []string
	if len(r.ImageURLs) > 0 {
		_ = json.Unmarshal(r.ImageURLs, &imageURLs)
	}
	return dto.ReportResponse{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		ReportType:        r.ReportType,
		Status:            r.Status,
		Priority:          r.Priority,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		LocationName:      r.LocationName,
		ImageURLs:         imageURLs,
		AIConfidenceScore: r.AIConfidenceScore,
		ValidationNotes:   r.ValidationNotes,
		ResolvedAt:        r.ResolvedAt,
		ReporterID:        r.ReporterID,
		AreaID:            r.AreaID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Reporter: dto.ReporterInfo{
			DisplayName: r.Reporter.DisplayName,
			Email:       r.Reporter.Email,
		},
	}
}
