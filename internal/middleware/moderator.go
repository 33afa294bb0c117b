package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mangrovewatch/backend/internal/authz"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/models"
	"github.com/mangrovewatch/backend/internal/session"
	"gorm.io/gorm"
)

// RequireAction gates a route on the central authorization policy.
// The role claim in the access token is checked first; if it fails, the
// stored profile is consulted so a promotion takes effect without
// waiting for the token to expire.
func RequireAction(db *gorm.DB, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := session.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if role := session.GetRole(c); authz.Can(role, action) {
			c.Locals("acting_role", role)
			return c.Next()
		}

		var profile models.Profile
		if err := db.First(&profile, "user_id = ?", userID).Error; err == nil {
			if authz.Can(profile.Role, action) {
				c.Locals("acting_role", profile.Role)
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Moderator access required",
		})
	}
}
