// Package validation holds the standalone business rules of the job
// lifecycle. Each rule is a pure function over entity state so it can be
// exercised without persistence.
package validation

import (
	"fmt"
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// ScheduledDateNotPast fails when the value is before now. Applied at job
// creation only; updates that push a date into the past are tolerated and
// handled by the overdue recomputation instead.
func ScheduledDateNotPast(value, now time.Time) error {
	if value.Before(now) {
		return apperrors.NewValidationError("Scheduled date cannot be in the past.", map[string]any{
			"field": "scheduled_date",
		})
	}
	return nil
}

// PriorityInRange fails when the priority falls outside [1,4].
func PriorityInRange(priority int) error {
	if priority < domain.PriorityMin || priority > domain.PriorityMax {
		return apperrors.NewValidationError(
			fmt.Sprintf("Priority must be between %d and %d.", domain.PriorityMin, domain.PriorityMax),
			map[string]any{"field": "priority"},
		)
	}
	return nil
}

// JobCanBeCompleted fails unless every task is completed. An empty task set
// passes vacuously.
func JobCanBeCompleted(tasks []domain.JobTask) error {
	for i := range tasks {
		if tasks[i].Status != domain.JobStatusCompleted {
			return apperrors.NewValidationError("Cannot complete job: not all tasks are completed.", nil)
		}
	}
	return nil
}

// TaskOrderUnique fails when a sibling task other than excludeTaskID already
// holds the order value.
func TaskOrderUnique(siblings []domain.JobTask, order int, excludeTaskID string) error {
	for i := range siblings {
		if siblings[i].ID == excludeTaskID {
			continue
		}
		if siblings[i].Order == order {
			return apperrors.NewValidationError(
				fmt.Sprintf("Task with order %d already exists in this job.", order),
				map[string]any{"field": "order"},
			)
		}
	}
	return nil
}

// TaskOrderConflictError is the uniform order-conflict error used by both the
// service pre-check and the storage constraint translation.
func TaskOrderConflictError(order int) error {
	return apperrors.NewValidationError(
		fmt.Sprintf("Task with order %d already exists in this job.", order),
		map[string]any{"field": "order"},
	)
}

// EquipmentAvailable is a named extension point for equipment scheduling
// conflicts. Not implemented.
func EquipmentAvailable(equipment []domain.Equipment, scheduledDate time.Time) error {
	return nil
}

// TechnicianAvailable is a named extension point for technician scheduling
// conflicts. Not implemented.
func TechnicianAvailable(technician *domain.User, scheduledDate time.Time) error {
	return nil
}
