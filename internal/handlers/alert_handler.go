package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/services"
	"github.com/mangrovewatch/backend/internal/session"
)

type AlertHandler struct {
	alertService   *services.AlertService
	profileService *services.ProfileService
}

func NewAlertHandler(alertService *services.AlertService, profileService *services.ProfileService) *AlertHandler {
	return &AlertHandler{alertService: alertService, profileService: profileService}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	profile, err := h.profileService.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	alerts, err := h.alertService.ListForUser(profile.ID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch alerts",
		})
	}

	return c.JSON(fiber.Map{"alerts": alerts})
}

func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	alertID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid alert ID",
		})
	}

	profile, err := h.profileService.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	}

	alert, err := h.alertService.MarkRead(alertID, profile.ID)
	if err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAlertForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to mark alert as read",
		})
	}

	return c.JSON(alert)
}
