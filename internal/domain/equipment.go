package domain

import "time"

// EquipmentType classifies catalog entries.
type EquipmentType string

const (
	EquipmentTypeTool    EquipmentType = "tool"
	EquipmentTypeMachine EquipmentType = "machine"
	EquipmentTypeVehicle EquipmentType = "vehicle"
	EquipmentTypeOther   EquipmentType = "other"
)

// Valid reports whether the type is one of the known values.
func (t EquipmentType) Valid() bool {
	switch t {
	case EquipmentTypeTool, EquipmentTypeMachine, EquipmentTypeVehicle, EquipmentTypeOther:
		return true
	}
	return false
}

// Equipment is a shared catalog resource referenced, never owned, by tasks.
type Equipment struct {
	ID           string
	Name         string
	Type         EquipmentType
	SerialNumber string
	Description  *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
