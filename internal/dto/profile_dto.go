package dto

import "github.com/google/uuid"

type ProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Points       int       `json:"points"`
	TotalReports int       `json:"total_reports"`
	Phone        *string   `json:"phone,omitempty"`
	Location     *string   `json:"location,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	AvatarURL   *string `json:"avatar_url"`
}

type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	ProfileID    uuid.UUID `json:"profile_id"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Points       int       `json:"points"`
	TotalReports int       `json:"total_reports"`
	Badge        string    `json:"badge"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int64              `json:"total"`
}
