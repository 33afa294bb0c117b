package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a profile can hold. RoleCommunityMember is the default for new
// registrations; moderation actions require RoleModerator or RoleAdmin.
const (
	RoleAdmin           = "admin"
	RoleModerator       = "moderator"
	RoleCommunityMember = "community_member"
	RoleResearcher      = "researcher"
)

// Profile is a registered participant's reputation record, 1:1 with a User.
//
// Points and TotalReports are cached aggregates. Their sources of truth are
// the point_transactions ledger and the reports table; they are only ever
// written inside the same transaction as the rows they summarize.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DisplayName  string    `gorm:"not null;size:255" json:"display_name"`
	Email        string    `gorm:"not null;size:255" json:"email"`
	Role         string    `gorm:"size:20;not null;default:'community_member'" json:"role"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	TotalReports int       `gorm:"not null;default:0" json:"total_reports"`
	Phone        *string   `gorm:"size:50" json:"phone,omitempty"`
	Location     *string   `gorm:"size:255" json:"location,omitempty"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether role is one of the enumerated profile roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleCommunityMember, RoleResearcher:
		return true
	}
	return false
}
