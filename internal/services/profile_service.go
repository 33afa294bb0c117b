package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/models"
	"gorm.io/gorm"
)

var ErrDisplayNameRequired = errors.New("display_name cannot be empty")

// Badge tiers for the leaderboard, highest first.
var badgeTiers = []struct {
	name      string
	minPoints int
}{
	{"Guardian", 1000},
	{"Protector", 900},
	{"Scout", 800},
	{"Watcher", 700},
}

// ProfileService owns reads and self-service updates of profiles.
// Points and total_reports are derived aggregates and have no write
// path here.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetByUserID(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) Get(profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update applies self-service edits. Role, points, and total_reports are
// deliberately not reachable from here.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	updates := map[string]interface{}{}

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if trimmed == "" {
			return nil, ErrDisplayNameRequired
		}
		updates["display_name"] = trimmed
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) == 0 {
		return s.GetByUserID(userID)
	}

	result := s.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetByUserID(userID)
}

// Leaderboard returns profiles ranked by points, with badge tiers.
func (s *ProfileService) Leaderboard(limit int) (*dto.LeaderboardResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}

	var total int64
	if err := s.db.Model(&models.Profile{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var profiles []models.Profile
	err := s.db.Order("points DESC, created_at ASC").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{
		Entries: make([]dto.LeaderboardEntry, len(profiles)),
		Total:   total,
	}
	for i, p := range profiles {
		resp.Entries[i] = dto.LeaderboardEntry{
			Rank:         i + 1,
			ProfileID:    p.ID,
			DisplayName:  p.DisplayName,
			AvatarURL:    p.AvatarURL,
			Points:       p.Points,
			TotalReports: p.TotalReports,
			Badge:        BadgeForPoints(p.Points),
		}
	}
	return resp, nil
}

// BadgeForPoints maps a point total to its leaderboard badge tier.
func BadgeForPoints(points int) string {
	for _, tier := range badgeTiers {
		if points >= tier.minPoints {
			return tier.name
		}
	}
	return "Explorer"
}

func MapProfileToResponse(p *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Email:        p.Email,
		Role:         p.Role,
		Points:       p.Points,
		TotalReports: p.TotalReports,
		Phone:        p.Phone,
		Location:     p.Location,
		AvatarURL:    p.AvatarURL,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
