package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/repository"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// EquipmentService manages the equipment catalog.
type EquipmentService struct {
	equipment  repository.EquipmentRepository
	dispatcher events.Dispatcher

	Now func() time.Time
}

// NewEquipmentService constructs the service.
func NewEquipmentService(equipmentRepo repository.EquipmentRepository, dispatcher events.Dispatcher) *EquipmentService {
	return &EquipmentService{
		equipment:  equipmentRepo,
		dispatcher: dispatcher,
		Now:        time.Now,
	}
}

// EquipmentInput describes a catalog entry payload.
type EquipmentInput struct {
	Name         string
	Type         domain.EquipmentType
	SerialNumber string
	Description  *string
	Active       *bool
}

// CreateEquipment adds a catalog entry. Serial numbers are unique; the
// storage constraint backs the pre-check and both report the same error.
func (s *EquipmentService) CreateEquipment(ctx context.Context, actor Actor, input EquipmentInput) (*domain.Equipment, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" {
		return nil, apperrors.NewValidationError("serial number required", map[string]any{"field": "serial_number"})
	}
	entryType := input.Type
	if entryType == "" {
		entryType = domain.EquipmentTypeTool
	}
	if !entryType.Valid() {
		return nil, apperrors.NewValidationError("invalid equipment type", map[string]any{"field": "type"})
	}
	if err := s.checkSerialUnique(ctx, serial, ""); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	equipment := &domain.Equipment{
		Name:         strings.TrimSpace(input.Name),
		Type:         entryType,
		SerialNumber: serial,
		Description:  input.Description,
		Active:       active,
	}
	if err := s.equipment.Create(ctx, equipment); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, serialConflictMessage(serial)))
	}
	s.publishEvent(ctx, actor, events.EventEquipmentCreated, equipment.ID)
	return equipment, nil
}

// GetEquipment fetches a catalog entry.
func (s *EquipmentService) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment", map[string]any{"equipment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return equipment, nil
}

// ListEquipment returns catalog entries matching the filter.
func (s *EquipmentService) ListEquipment(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, error) {
	result, err := s.equipment.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// UpdateEquipment applies a full update to a catalog entry.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor Actor, id string, input EquipmentInput) (*domain.Equipment, error) {
	equipment, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	serial := strings.TrimSpace(input.SerialNumber)
	if serial != "" && serial != equipment.SerialNumber {
		if err := s.checkSerialUnique(ctx, serial, equipment.ID); err != nil {
			return nil, err
		}
		equipment.SerialNumber = serial
	}
	if input.Name != "" {
		equipment.Name = strings.TrimSpace(input.Name)
	}
	if input.Type != "" {
		if !input.Type.Valid() {
			return nil, apperrors.NewValidationError("invalid equipment type", map[string]any{"field": "type"})
		}
		equipment.Type = input.Type
	}
	if input.Description != nil {
		equipment.Description = input.Description
	}
	if input.Active != nil {
		equipment.Active = *input.Active
	}

	if err := s.equipment.Update(ctx, equipment); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, serialConflictMessage(equipment.SerialNumber)))
	}
	s.publishEvent(ctx, actor, events.EventEquipmentUpdated, equipment.ID)
	return equipment, nil
}

// DeleteEquipment removes a catalog entry; task references are detached at
// the storage layer.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, actor Actor, id string) error {
	if err := s.equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("equipment", map[string]any{"equipment_id": id})
		}
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.EventEquipmentDeleted, id)
	return nil
}

func (s *EquipmentService) checkSerialUnique(ctx context.Context, serial, excludeID string) error {
	existing, err := s.equipment.GetBySerialNumber(ctx, serial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID != excludeID {
		return apperrors.NewValidationError(serialConflictMessage(serial), map[string]any{"field": "serial_number"})
	}
	return nil
}

func serialConflictMessage(serial string) string {
	return fmt.Sprintf("Equipment with serial number %s already exists.", serial)
}

func (s *EquipmentService) publishEvent(ctx context.Context, actor Actor, eventType events.EventType, entityID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: "Equipment",
		EntityID:   entityID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
		Timestamp:  s.Now(),
	})
}
