package dto

import "github.com/google/uuid"

type BalanceResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int       `json:"balance"`
}
