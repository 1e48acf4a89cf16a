package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobops-service/internal/api/dto"
	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
	"github.com/spec-kit/jobops-service/internal/service"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// EquipmentHandler exposes the equipment catalog endpoints.
type EquipmentHandler struct {
	equipment *service.EquipmentService
}

// NewEquipmentHandler constructs handler.
func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipmentService}
}

// CreateEquipment POST /equipment.
func (h *EquipmentHandler) CreateEquipment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	equipment, err := h.equipment.CreateEquipment(c.Context(), actor, service.EquipmentInput{
		Name:         req.Name,
		Type:         req.Type,
		SerialNumber: req.SerialNumber,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEquipmentResponse(equipment)})
}

// ListEquipment GET /equipment.
func (h *EquipmentHandler) ListEquipment(c *fiber.Ctx) error {
	filter := parseEquipmentQuery(c)
	items, err := h.equipment.ListEquipment(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// ListActiveEquipment GET /equipment/active. Open to all authenticated roles.
func (h *EquipmentHandler) ListActiveEquipment(c *fiber.Ctx) error {
	filter := parseEquipmentQuery(c)
	filter.ActiveOnly = true
	items, err := h.equipment.ListEquipment(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// GetEquipment GET /equipment/:id.
func (h *EquipmentHandler) GetEquipment(c *fiber.Ctx) error {
	equipment, err := h.equipment.GetEquipment(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(equipment)})
}

// UpdateEquipment PUT /equipment/:id.
func (h *EquipmentHandler) UpdateEquipment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.EquipmentInput{
		Description: req.Description,
		Active:      req.Active,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Type != nil {
		input.Type = *req.Type
	}
	if req.SerialNumber != nil {
		input.SerialNumber = *req.SerialNumber
	}

	equipment, err := h.equipment.UpdateEquipment(c.Context(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(equipment)})
}

// DeleteEquipment DELETE /equipment/:id.
func (h *EquipmentHandler) DeleteEquipment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.equipment.DeleteEquipment(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseEquipmentQuery(c *fiber.Ctx) repository.EquipmentFilter {
	filter := repository.EquipmentFilter{}
	if typeStr := c.Query("type"); typeStr != "" {
		entryType := domain.EquipmentType(typeStr)
		filter.Type = &entryType
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

func equipmentResponses(items []domain.Equipment) []dto.EquipmentResponse {
	resp := make([]dto.EquipmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewEquipmentResponse(&items[i]))
	}
	return resp
}
