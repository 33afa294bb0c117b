package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report types.
const (
	ReportTypeIllegalCutting = "illegal_cutting"
	ReportTypePollution      = "pollution"
	ReportTypeDumping        = "dumping"
	ReportTypeConstruction   = "construction"
	ReportTypeOther          = "other"
)

// Report lifecycle states. The only legal transitions are
// pending -> verified, pending -> rejected, and verified -> resolved.
// resolved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

// Priorities, shared with Alert severities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Report is one submitted incident record.
type Report struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"not null;size:255" json:"title"`
	Description       string         `gorm:"not null;type:text" json:"description"`
	ReportType        string         `gorm:"not null;size:50;index" json:"report_type"`
	Status            string         `gorm:"not null;default:'pending';size:50;index" json:"status"`
	Priority          string         `gorm:"not null;default:'medium';size:20;index" json:"priority"`
	Latitude          float64        `gorm:"not null" json:"latitude"`
	Longitude         float64        `gorm:"not null" json:"longitude"`
	LocationName      *string        `gorm:"size:255" json:"location_name,omitempty"`
	ImageURLs         datatypes.JSON `json:"image_urls,omitempty"`
	AIConfidenceScore *float64       `json:"ai_confidence_score,omitempty"`
	ValidationNotes   *string        `gorm:"type:text" json:"validation_notes,omitempty"`
	ResolvedAt        *time.Time     `json:"resolved_at,omitempty"`
	ReporterID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"reporter_id"`
	AreaID            *uuid.UUID     `gorm:"type:uuid;index" json:"area_id,omitempty"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Reporter          Profile        `gorm:"foreignKey:ReporterID" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidReportType reports whether t is one of the enumerated incident kinds.
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeIllegalCutting, ReportTypePollution, ReportTypeDumping,
		ReportTypeConstruction, ReportTypeOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the enumerated priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// CanTransition reports whether a status change is permitted by the
// report lifecycle state machine.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusVerified || to == StatusRejected
	case StatusVerified:
		return to == StatusResolved
	}
	return false
}
