package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/authz"
	"github.com/mangrovewatch/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAreaNameRequired = errors.New("area name is required")
	ErrInvalidRadius    = errors.New("radius_km must be non-negative")
)

// AreaService manages the registry of named monitored zones.
type AreaService struct {
	db *gorm.DB
}

func NewAreaService(db *gorm.DB) *AreaService {
	return &AreaService{db: db}
}

func (s *AreaService) Create(creatorProfileID uuid.UUID, actingRole, name string, description *string, lat, lng float64, radiusKm *float64) (*models.Area, error) {
	if !authz.Can(actingRole, authz.ActionCreateArea) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrAreaNameRequired
	}
	if lat < -90 || lat > 90 {
		return nil, ErrInvalidLatitude
	}
	if lng < -180 || lng > 180 {
		return nil, ErrInvalidLongitude
	}
	if radiusKm != nil && *radiusKm < 0 {
		return nil, ErrInvalidRadius
	}

	area := models.Area{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Latitude:    lat,
		Longitude:   lng,
		RadiusKm:    radiusKm,
		CreatedBy:   &creatorProfileID,
	}
	if err := s.db.Create(&area).Error; err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}
	return &area, nil
}

func (s *AreaService) List() ([]models.Area, error) {
	var areas []models.Area
	if err := s.db.Order("name ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *AreaService) Get(id uuid.UUID) (*models.Area, error) {
	var area models.Area
	if err := s.db.First(&area, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}
