package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/services"
	"github.com/mangrovewatch/backend/internal/session"
)

type AreaHandler struct {
	areaService    *services.AreaService
	profileService *services.ProfileService
}

func NewAreaHandler(areaService *services.AreaService, profileService *services.ProfileService) *AreaHandler {
	return &AreaHandler{areaService: areaService, profileService: profileService}
}

type createAreaRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	RadiusKm    *float64 `json:"radius_km"`
}

func (h *AreaHandler) Create(c *fiber.Ctx) error {
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

	var req createAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	area, err := h.areaService.Create(profile.ID, session.ActingRole(c), req.Name, req.Description, req.Latitude, req.Longitude, req.RadiusKm)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAreaNameRequired) ||
			errors.Is(err, services.ErrInvalidLatitude) ||
			errors.Is(err, services.ErrInvalidLongitude) ||
			errors.Is(err, services.ErrInvalidRadius) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create area",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(area)
}

func (h *AreaHandler) List(c *fiber.Ctx) error {
	areas, err := h.areaService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch areas",
		})
	}
	return c.JSON(fiber.Map{"areas": areas})
}

func (h *AreaHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid area ID",
		})
	}

	area, err := h.areaService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrAreaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch area",
		})
	}

	return c.JSON(area)
}
