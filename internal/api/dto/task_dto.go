package dto

import (
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Status       domain.JobStatus `json:"status"`
	Order        int              `json:"order"`
	EquipmentIDs []string         `json:"equipment_ids"`
}

// UpdateTaskRequest payload; nil fields are unchanged.
type UpdateTaskRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Status       *domain.JobStatus `json:"status"`
	Order        *int              `json:"order"`
	EquipmentIDs []string          `json:"equipment_ids"`
}

// UpdateTaskStatusRequest payload for the dedicated status operation.
type UpdateTaskStatusRequest struct {
	Status domain.JobStatus `json:"status"`
}

// TaskResponse represents a task with its equipment set.
type TaskResponse struct {
	ID          string              `json:"id"`
	JobID       string              `json:"job_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.JobStatus    `json:"status"`
	Order       int                 `json:"order"`
	CompletedAt *time.Time          `json:"completed_at"`
	Equipment   []EquipmentResponse `json:"required_equipment"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.JobTask) TaskResponse {
	equipment := make([]EquipmentResponse, 0, len(task.Equipment))
	for i := range task.Equipment {
		equipment = append(equipment, NewEquipmentResponse(&task.Equipment[i]))
	}
	return TaskResponse{
		ID:          task.ID,
		JobID:       task.JobID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Order:       task.Order,
		CompletedAt: task.CompletedAt,
		Equipment:   equipment,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
