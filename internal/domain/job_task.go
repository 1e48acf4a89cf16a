package domain

import "time"

// JobTask is an ordered step within a job, owned exclusively by it.
type JobTask struct {
	ID          string
	JobID       string
	Title       string
	Description string
	Status      JobStatus
	Order       int
	CompletedAt *time.Time
	Equipment   []Equipment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue reports whether the parent job's scheduled date has passed,
// independent of the task's own status.
func (t *JobTask) IsOverdue(jobScheduledDate time.Time, now time.Time) bool {
	return now.After(jobScheduledDate)
}
