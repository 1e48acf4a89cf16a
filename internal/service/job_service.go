package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/repository"
	"github.com/spec-kit/jobops-service/internal/validation"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// Actor identifies the authenticated caller performing a mutation.
type Actor struct {
	UserID string
	IP     string
}

// JobService owns the job side of the lifecycle engine.
type JobService struct {
	jobs       repository.JobRepository
	tasks      repository.JobTaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// Now is the clock used for overdue computation; overridable in tests.
	Now func() time.Time
}

// JobDependencies bundles repositories for the job service.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	TaskRepo   repository.JobTaskRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobs:       deps.JobRepo,
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		Now:        time.Now,
	}
}

// JobCreateInput describes job creation payload.
type JobCreateInput struct {
	Title         string
	Description   string
	ClientName    string
	AssignedTo    *string
	Priority      int
	ScheduledDate time.Time
}

// JobUpdateInput describes a partial job update. Nil fields are unchanged.
// The creator is immutable and has no slot here.
type JobUpdateInput struct {
	Title         *string
	Description   *string
	ClientName    *string
	AssignedTo    *string
	ClearAssignee bool
	Status        *domain.JobStatus
	Priority      *int
	ScheduledDate *time.Time
}

// CreateJob validates and persists a new job. The scheduled date must not be
// in the past at submission time; the overdue flag is computed at save.
func (s *JobService) CreateJob(ctx context.Context, actor Actor, input JobCreateInput) (*domain.Job, error) {
	now := s.Now()
	if err := validation.PriorityInRange(input.Priority); err != nil {
		return nil, err
	}
	if err := validation.ScheduledDateNotPast(input.ScheduledDate, now); err != nil {
		return nil, err
	}
	if input.AssignedTo != nil {
		if err := s.ensureUserExists(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	job := &domain.Job{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		ClientName:    strings.TrimSpace(input.ClientName),
		CreatedBy:     actor.UserID,
		AssignedTo:    input.AssignedTo,
		Status:        domain.JobStatusPending,
		Priority:      input.Priority,
		ScheduledDate: input.ScheduledDate,
		Overdue:       s.Now().After(input.ScheduledDate),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobCreated,
		EntityType: "Job",
		EntityID:   job.ID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	return job, nil
}

// GetJob fetches a job by id.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
		}
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// ListJobs returns jobs matching the filter.
func (s *JobService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	jobs, err := s.jobs.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return jobs, nil
}

// UpdateJob applies a partial update. The overdue flag is recomputed on every
// save; pushing the date into the past is tolerated here (only creation
// rejects past dates) and simply flags the job overdue. Setting the status to
// completed runs the completion gate.
func (s *JobService) UpdateJob(ctx context.Context, actor Actor, jobID string, input JobUpdateInput) (*domain.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	oldStatus := job.Status

	if input.Title != nil {
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		job.Description = strings.TrimSpace(*input.Description)
	}
	if input.ClientName != nil {
		job.ClientName = strings.TrimSpace(*input.ClientName)
	}
	if input.ClearAssignee {
		job.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if err := s.ensureUserExists(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		job.AssignedTo = input.AssignedTo
	}
	if input.Priority != nil {
		if err := validation.PriorityInRange(*input.Priority); err != nil {
			return nil, err
		}
		job.Priority = *input.Priority
	}
	if input.ScheduledDate != nil {
		job.ScheduledDate = *input.ScheduledDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		job.Status = *input.Status
	}

	if job.Status == domain.JobStatusCompleted {
		tasks, err := s.tasks.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if err := validation.JobCanBeCompleted(tasks); err != nil {
			return nil, err
		}
	}

	job.Overdue = s.Now().After(job.ScheduledDate)

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobUpdated,
		EntityType: "Job",
		EntityID:   job.ID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	if job.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventJobStatusChanged,
			EntityType: "Job",
			EntityID:   job.ID,
			Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
			Change: &events.FieldChange{
				Field:    "status",
				OldValue: string(oldStatus),
				NewValue: string(job.Status),
			},
			Payload: events.JobStatusChangedPayload{OldStatus: oldStatus, NewStatus: job.Status},
		})
	}
	return job, nil
}

// DeleteJob removes a job; owned tasks are deleted with it.
func (s *JobService) DeleteJob(ctx context.Context, actor Actor, jobID string) error {
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
		}
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobDeleted,
		EntityType: "Job",
		EntityID:   jobID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
	})
	return nil
}

// RegisterEventHandlers subscribes the job-completion-check handler so that
// completing the last task of a job completes the job itself.
func (s *JobService) RegisterEventHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTaskStatusChanged, s.handleTaskStatusChanged)
}

// handleTaskStatusChanged re-checks the parent job's completion gate after a
// task enters the completed status and completes the job when it now passes.
func (s *JobService) handleTaskStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TaskStatusChangedPayload)
	if !ok || payload.NewStatus != domain.JobStatusCompleted {
		return nil
	}

	job, err := s.jobs.GetByID(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job.Status == domain.JobStatusCompleted {
		return nil
	}

	tasks, err := s.tasks.ListByJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if validation.JobCanBeCompleted(tasks) != nil {
		return nil
	}

	oldStatus := job.Status
	job.Status = domain.JobStatusCompleted
	job.Overdue = s.Now().After(job.ScheduledDate)
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}
	s.logger.Info("job auto-completed",
		zap.String("job_id", job.ID),
		zap.String("trigger_task_id", event.EntityID),
	)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobStatusChanged,
		EntityType: "Job",
		EntityID:   job.ID,
		Actor:      event.Actor,
		Change: &events.FieldChange{
			Field:    "status",
			OldValue: string(oldStatus),
			NewValue: string(job.Status),
		},
		Payload: events.JobStatusChangedPayload{OldStatus: oldStatus, NewStatus: job.Status},
	})
	return nil
}

func (s *JobService) ensureUserExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("assigned user does not exist", map[string]any{
				"field": "assigned_to",
			})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *JobService) publishEvent(ctx context.Context, event events.Event) {
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
