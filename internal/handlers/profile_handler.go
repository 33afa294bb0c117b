package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/services"
	"github.com/mangrovewatch/backend/internal/session"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	pointsService  *services.PointsService
}

func NewProfileHandler(profileService *services.ProfileService, pointsService *services.PointsService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, pointsService: pointsService}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
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

	return c.JSON(services.MapProfileToResponse(profile))
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.Update(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrDisplayNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update profile",
		})
	}

	return c.JSON(services.MapProfileToResponse(profile))
}

func (h *ProfileHandler) Leaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "25"))

	resp, err := h.profileService.Leaderboard(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch leaderboard",
		})
	}

	return c.JSON(resp)
}

func (h *ProfileHandler) PointsHistory(c *fiber.Ctx) error {
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

	txns, err := h.pointsService.History(profile.ID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch points history",
		})
	}

	return c.JSON(fiber.Map{"transactions": txns})
}

func (h *ProfileHandler) PointsBalance(c *fiber.Ctx) error {
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

	balance, err := h.pointsService.Balance(profile.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute balance",
		})
	}

	return c.JSON(dto.BalanceResponse{UserID: profile.ID, Balance: balance})
}
