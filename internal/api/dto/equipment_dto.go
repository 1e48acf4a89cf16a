package dto

import (
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// CreateEquipmentRequest payload.
type CreateEquipmentRequest struct {
	Name         string               `json:"name"`
	Type         domain.EquipmentType `json:"type"`
	SerialNumber string               `json:"serial_number"`
	Description  *string              `json:"description"`
}

// UpdateEquipmentRequest payload; nil fields are unchanged.
type UpdateEquipmentRequest struct {
	Name         *string               `json:"name"`
	Type         *domain.EquipmentType `json:"type"`
	SerialNumber *string               `json:"serial_number"`
	Description  *string               `json:"description"`
	Active       *bool                 `json:"active"`
}

// EquipmentResponse represents a catalog entry.
type EquipmentResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Type         domain.EquipmentType `json:"type"`
	SerialNumber string               `json:"serial_number"`
	Description  *string              `json:"description"`
	Active       bool                 `json:"active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewEquipmentResponse maps a domain equipment record.
func NewEquipmentResponse(item *domain.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:           item.ID,
		Name:         item.Name,
		Type:         item.Type,
		SerialNumber: item.SerialNumber,
		Description:  item.Description,
		Active:       item.Active,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
