package events

import (
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobCreated        EventType = "job_created"
	EventJobUpdated        EventType = "job_updated"
	EventJobDeleted        EventType = "job_deleted"
	EventJobStatusChanged  EventType = "job_status_changed"
	EventTaskCreated       EventType = "task_created"
	EventTaskUpdated       EventType = "task_updated"
	EventTaskDeleted       EventType = "task_deleted"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventEquipmentCreated  EventType = "equipment_created"
	EventEquipmentUpdated  EventType = "equipment_updated"
	EventEquipmentDeleted  EventType = "equipment_deleted"
	EventUserCreated       EventType = "user_created"
	EventUserUpdated       EventType = "user_updated"
	EventUserDeactivated   EventType = "user_deactivated"
)

// Actor encapsulates the acting user for an event.
type Actor struct {
	UserID string `json:"user_id"`
	IP     string `json:"ip,omitempty"`
}

// FieldChange captures an optional single-field diff attached to an event.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string       `json:"id"`
	Type       EventType    `json:"type"`
	EntityType string       `json:"entity_type"`
	EntityID   string       `json:"entity_id"`
	Actor      Actor        `json:"actor"`
	Change     *FieldChange `json:"change,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	Payload    interface{}  `json:"payload,omitempty"`
}

// TaskStatusChangedPayload carries the detail the job-completion subscriber
// needs to re-check the completion gate.
type TaskStatusChangedPayload struct {
	JobID     string           `json:"job_id"`
	OldStatus domain.JobStatus `json:"old_status"`
	NewStatus domain.JobStatus `json:"new_status"`
}

// JobStatusChangedPayload payload.
type JobStatusChangedPayload struct {
	OldStatus domain.JobStatus `json:"old_status"`
	NewStatus domain.JobStatus `json:"new_status"`
}
