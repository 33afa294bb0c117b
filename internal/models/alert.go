package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert types.
const (
	AlertTypeNewReport        = "new_report"
	AlertTypeCriticalIssue    = "critical_issue"
	AlertTypeSystemUpdate     = "system_update"
	AlertTypeValidationNeeded = "validation_needed"
)

// AlertTarget is the tagged form of an alert's audience. The persisted
// shape is a nullable user_id column; code constructs targets through
// Broadcast and TargetedAt so the two cases stay explicit.
type AlertTarget struct {
	userID *uuid.UUID
}

// Broadcast returns a target visible to every profile.
func Broadcast() AlertTarget {
	return AlertTarget{}
}

// TargetedAt returns a target visible only to the given profile.
func TargetedAt(profileID uuid.UUID) AlertTarget {
	return AlertTarget{userID: &profileID}
}

func (t AlertTarget) IsBroadcast() bool { return t.userID == nil }

// UserID returns the targeted profile ID, or uuid.Nil for broadcasts.
func (t AlertTarget) UserID() uuid.UUID {
	if t.userID == nil {
		return uuid.Nil
	}
	return *t.userID
}

func (t AlertTarget) column() *uuid.UUID { return t.userID }

// Alert is a notification row referencing a report or system event.
// read_at is set exactly once by the recipient; rows are never deleted.
type Alert struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"not null;size:255" json:"title"`
	Message   string     `gorm:"not null;type:text" json:"message"`
	AlertType string     `gorm:"not null;size:50;index" json:"alert_type"`
	Severity  string     `gorm:"not null;default:'medium';size:20" json:"severity"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ReportID  *uuid.UUID `gorm:"type:uuid;index" json:"report_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewAlert builds an alert for the given target.
func NewAlert(target AlertTarget, alertType, severity, title, message string, reportID *uuid.UUID) Alert {
	return Alert{
		Title:     title,
		Message:   message,
		AlertType: alertType,
		Severity:  severity,
		UserID:    target.column(),
		ReportID:  reportID,
	}
}

// Target returns the tagged audience of the alert.
func (a *Alert) Target() AlertTarget {
	if a.UserID == nil {
		return Broadcast()
	}
	return TargetedAt(*a.UserID)
}
