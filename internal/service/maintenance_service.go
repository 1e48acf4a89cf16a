package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobops-service/internal/config"
	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// MaintenanceService exposes the periodic sweeps as plain callables. The
// scheduling cadence lives in the worker, not here.
type MaintenanceService struct {
	jobs   repository.JobRepository
	cfg    config.MaintenanceConfig
	logger *zap.Logger

	Now func() time.Time
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(jobRepo repository.JobRepository, cfg config.MaintenanceConfig, logger *zap.Logger) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{jobs: jobRepo, cfg: cfg, logger: logger, Now: time.Now}
}

// SweepOverdueJobs flags pending and in-progress jobs whose scheduled date
// has passed and which are not yet flagged. Idempotent: a second run finds
// nothing once all qualifying jobs are flagged.
func (s *MaintenanceService) SweepOverdueJobs(ctx context.Context) (int, error) {
	candidates, err := s.jobs.ListOverdueCandidates(ctx, s.Now())
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	updated := 0
	for i := range candidates {
		job := candidates[i]
		job.Overdue = true
		if err := s.jobs.Update(ctx, &job); err != nil {
			return updated, apperrors.MapError(err)
		}
		updated++
	}
	if updated > 0 {
		s.logger.Info("overdue sweep complete", zap.Int("updated", updated))
	}
	return updated, nil
}

// PurgeOldCompletedJobs deletes completed jobs past the retention window.
func (s *MaintenanceService) PurgeOldCompletedJobs(ctx context.Context) (int64, error) {
	cutoff := s.Now().Add(-s.cfg.Retention())
	deleted, err := s.jobs.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if deleted > 0 {
		s.logger.Info("retention purge complete", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// ScanUpcomingReminders returns pending jobs scheduled within the reminder
// window. Delivery is left to an external notifier; candidates are logged.
func (s *MaintenanceService) ScanUpcomingReminders(ctx context.Context) ([]domain.Job, error) {
	now := s.Now()
	candidates, err := s.jobs.ListScheduledBetween(ctx, now, now.Add(s.cfg.ReminderWindow()), domain.JobStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range candidates {
		s.logger.Debug("reminder candidate",
			zap.String("job_id", candidates[i].ID),
			zap.Time("scheduled_date", candidates[i].ScheduledDate),
		)
	}
	return candidates, nil
}
