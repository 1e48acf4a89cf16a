package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/repository"
	"github.com/spec-kit/jobops-service/internal/validation"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// TaskService owns the task side of the lifecycle engine.
type TaskService struct {
	tasks      repository.JobTaskRepository
	jobs       repository.JobRepository
	equipment  repository.EquipmentRepository
	dispatcher events.Dispatcher

	// Now is the clock used for completion stamping; overridable in tests.
	Now func() time.Time
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo      repository.JobTaskRepository
	JobRepo       repository.JobRepository
	EquipmentRepo repository.EquipmentRepository
	Dispatcher    events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		jobs:       deps.JobRepo,
		equipment:  deps.EquipmentRepo,
		dispatcher: deps.Dispatcher,
		Now:        time.Now,
	}
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title        string
	Description  string
	Status       domain.JobStatus
	Order        int
	EquipmentIDs []string
}

// TaskUpdateInput describes a partial task update. Nil fields are unchanged.
type TaskUpdateInput struct {
	Title        *string
	Description  *string
	Status       *domain.JobStatus
	Order        *int
	EquipmentIDs []string
}

// CreateTask validates and persists a new task under a job. The (job, order)
// pair must be unique; the storage constraint is the final arbiter and its
// violation is reported as the same validation error as the pre-check.
func (s *TaskService) CreateTask(ctx context.Context, actor Actor, jobID string, input TaskCreateInput) (*domain.JobTask, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Order < 0 {
		return nil, apperrors.NewValidationError("order must be non-negative", map[string]any{"field": "order"})
	}
	status := input.Status
	if status == "" {
		status = domain.JobStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
	}
	if err := s.checkOrderUnique(ctx, jobID, input.Order, ""); err != nil {
		return nil, err
	}
	if err := s.verifyEquipment(ctx, input.EquipmentIDs); err != nil {
		return nil, err
	}

	task := &domain.JobTask{
		JobID:       jobID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Order:       input.Order,
	}
	s.applyCompletionStamp(task)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, validation.TaskOrderConflictError(input.Order).Error()))
	}
	if len(input.EquipmentIDs) > 0 {
		if err := s.tasks.ReplaceEquipment(ctx, task.ID, input.EquipmentIDs); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	task.Equipment, _ = s.tasks.ListEquipment(ctx, task.ID)

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTaskCreated,
		EntityType: "JobTask",
		EntityID:   task.ID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	return task, nil
}

// GetTask fetches a task with its equipment set.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.JobTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}
	equipment, err := s.tasks.ListEquipment(ctx, task.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	task.Equipment = equipment
	return task, nil
}

// ListTasks returns the tasks of a job in order.
func (s *TaskService) ListTasks(ctx context.Context, jobID string) ([]domain.JobTask, error) {
	tasks, err := s.tasks.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range tasks {
		equipment, err := s.tasks.ListEquipment(ctx, tasks[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		tasks[i].Equipment = equipment
	}
	return tasks, nil
}

// UpdateTask applies a partial update with order-uniqueness and completion
// stamping rules.
func (s *TaskService) UpdateTask(ctx context.Context, actor Actor, taskID string, input TaskUpdateInput) (*domain.JobTask, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Order != nil {
		if *input.Order < 0 {
			return nil, apperrors.NewValidationError("order must be non-negative", map[string]any{"field": "order"})
		}
		if err := s.checkOrderUnique(ctx, task.JobID, *input.Order, task.ID); err != nil {
			return nil, err
		}
		task.Order = *input.Order
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		task.Status = *input.Status
	}
	if input.EquipmentIDs != nil {
		if err := s.verifyEquipment(ctx, input.EquipmentIDs); err != nil {
			return nil, err
		}
	}
	s.applyCompletionStamp(task)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, validation.TaskOrderConflictError(task.Order).Error()))
	}
	if input.EquipmentIDs != nil {
		if err := s.tasks.ReplaceEquipment(ctx, task.ID, input.EquipmentIDs); err != nil {
			return nil, apperrors.MapError(err)
		}
		task.Equipment, _ = s.tasks.ListEquipment(ctx, task.ID)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTaskUpdated,
		EntityType: "JobTask",
		EntityID:   task.ID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	if task.Status != oldStatus {
		s.publishStatusChange(ctx, actor, task, oldStatus)
	}
	return task, nil
}

// UpdateStatus is the dedicated task-status-update operation. It stamps or
// clears completed_at and publishes the status-change event that drives the
// cascading job-completion check.
func (s *TaskService) UpdateStatus(ctx context.Context, actor Actor, taskID string, newStatus domain.JobStatus) (*domain.JobTask, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
	}
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = newStatus
	s.applyCompletionStamp(task)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	if task.Status != oldStatus {
		s.publishStatusChange(ctx, actor, task, oldStatus)
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, actor Actor, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTaskDeleted,
		EntityType: "JobTask",
		EntityID:   taskID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	return nil
}

// applyCompletionStamp enforces the completed_at invariant on every save:
// stamped when entering completed and currently null, cleared whenever the
// status is anything else. An existing stamp is never overwritten.
func (s *TaskService) applyCompletionStamp(task *domain.JobTask) {
	if task.Status == domain.JobStatusCompleted {
		if task.CompletedAt == nil {
			now := s.Now()
			task.CompletedAt = &now
		}
		return
	}
	task.CompletedAt = nil
}

func (s *TaskService) checkOrderUnique(ctx context.Context, jobID string, order int, excludeTaskID string) error {
	count, err := s.tasks.CountByJobOrder(ctx, jobID, order, excludeTaskID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return validation.TaskOrderConflictError(order)
	}
	return nil
}

func (s *TaskService) verifyEquipment(ctx context.Context, equipmentIDs []string) error {
	for _, equipmentID := range equipmentIDs {
		if _, err := s.equipment.GetByID(ctx, equipmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("equipment does not exist", map[string]any{
					"equipment_id": equipmentID,
				})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

func (s *TaskService) publishStatusChange(ctx context.Context, actor Actor, task *domain.JobTask, oldStatus domain.JobStatus) {
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTaskStatusChanged,
		EntityType: "JobTask",
		EntityID:   task.ID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
		Change: &events.FieldChange{
			Field:    "status",
			OldValue: string(oldStatus),
			NewValue: string(task.Status),
		},
		Payload: events.TaskStatusChangedPayload{
			JobID:     task.JobID,
			OldStatus: oldStatus,
			NewStatus: task.Status,
		},
	})
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
