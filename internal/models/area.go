package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Area is a named monitored geographic zone that reports may reference.
type Area struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Latitude    float64    `gorm:"not null" json:"latitude"`
	Longitude   float64    `gorm:"not null" json:"longitude"`
	RadiusKm    *float64   `json:"radius_km,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Area) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
