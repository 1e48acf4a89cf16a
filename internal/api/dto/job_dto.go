package dto

import (
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// CreateJobRequest payload.
type CreateJobRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ClientName    string    `json:"client_name"`
	AssignedTo    *string   `json:"assigned_to"`
	Priority      int       `json:"priority"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// UpdateJobRequest payload; nil fields are unchanged.
type UpdateJobRequest struct {
	Title         *string           `json:"title"`
	Description   *string           `json:"description"`
	ClientName    *string           `json:"client_name"`
	AssignedTo    *string           `json:"assigned_to"`
	ClearAssignee bool              `json:"clear_assignee"`
	Status        *domain.JobStatus `json:"status"`
	Priority      *int              `json:"priority"`
	ScheduledDate *time.Time        `json:"scheduled_date"`
}

// JobResponse represents a job.
type JobResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	ClientName    string           `json:"client_name"`
	CreatedBy     string           `json:"created_by"`
	AssignedTo    *string          `json:"assigned_to"`
	Status        domain.JobStatus `json:"status"`
	Priority      int              `json:"priority"`
	ScheduledDate time.Time        `json:"scheduled_date"`
	Overdue       bool             `json:"overdue"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewJobResponse maps a domain job.
func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		Description:   job.Description,
		ClientName:    job.ClientName,
		CreatedBy:     job.CreatedBy,
		AssignedTo:    job.AssignedTo,
		Status:        job.Status,
		Priority:      job.Priority,
		ScheduledDate: job.ScheduledDate,
		Overdue:       job.Overdue,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}
