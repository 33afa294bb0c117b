package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger reasons written by the report lifecycle.
const (
	ReasonReportSubmitted = "report_submitted"
	ReasonReportVerified  = "report_verified"
	ReasonReportRejected  = "report_rejected"
)

// PointsTransaction is one immutable entry in the reputation ledger.
// Rows are append-only: nothing in the codebase updates or deletes them,
// and the sum over a profile's entries is the authoritative point total.
type PointsTransaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Points    int        `gorm:"not null" json:"points"`
	Reason    string     `gorm:"not null;size:100" json:"reason"`
	ReportID  *uuid.UUID `gorm:"type:uuid;index" json:"report_id,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	Profile   Profile    `gorm:"foreignKey:UserID" json:"-"`
}

func (t *PointsTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (PointsTransaction) TableName() string {
	return "point_transactions"
}
