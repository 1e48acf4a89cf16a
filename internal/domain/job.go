package domain

import "time"

// JobStatus enumerates lifecycle states shared by jobs and job tasks.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Job priority bounds; priorities are 1 (low) through 4 (critical).
const (
	PriorityMin = 1
	PriorityMax = 4
)

// Job is the aggregate root for a unit of client work.
type Job struct {
	ID            string
	Title         string
	Description   string
	ClientName    string
	CreatedBy     string
	AssignedTo    *string
	Status        JobStatus
	Priority      int
	ScheduledDate time.Time
	Overdue       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCompleted reports whether the job has reached the completed status.
func (j *Job) IsCompleted() bool { return j.Status == JobStatusCompleted }
