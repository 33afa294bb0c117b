package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReportRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ReportType        string     `json:"report_type"`
	Priority          string     `json:"priority"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	LocationName      *string    `json:"location_name"`
	ImageURLs         []string   `json:"image_urls"`
	AIConfidenceScore *float64   `json:"ai_confidence_score"`
	AreaID            *uuid.UUID `json:"area_id"`
}

type UpdateReportStatusRequest struct {
	Status          string  `json:"status"`
	ValidationNotes *string `json:"validation_notes"`
}

// ReporterInfo is the read-side join of the reporter's public profile
// fields, included so list views can render names without extra lookups.
type ReporterInfo struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type ReportResponse struct {
	ID                uuid.UUID    `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	ReportType        string       `json:"report_type"`
	Status            string       `json:"status"`
	Priority          string       `json:"priority"`
	Latitude          float64      `json:"latitude"`
	Longitude         float64      `json:"longitude"`
	LocationName      *string      `json:"location_name,omitempty"`
	ImageURLs         []string     `json:"image_urls,omitempty"`
	AIConfidenceScore *float64     `json:"ai_confidence_score,omitempty"`
	ValidationNotes   *string      `json:"validation_notes,omitempty"`
	ResolvedAt        *time.Time   `json:"resolved_at,omitempty"`
	ReporterID        uuid.UUID    `json:"reporter_id"`
	AreaID            *uuid.UUID   `json:"area_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Reporter          ReporterInfo `json:"reporter"`
}

type ReportFilter struct {
	Status     string
	Priority   string
	ReportType string
	AreaID     *uuid.UUID
	ReporterID *uuid.UUID
}

type ReportListResponse struct {
	Reports    []ReportResponse `json:"reports"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type ReportStatsResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByPriority    map[string]int64 `json:"by_priority"`
	ByType        map[string]int64 `json:"by_type"`
	PointsAwarded int64            `json:"points_awarded"`
}
