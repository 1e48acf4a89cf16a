package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobops-service/internal/config"
	"github.com/spec-kit/jobops-service/internal/service"
)

// MaintenanceWorker drives the periodic sweeps. The service operations are
// plain callables; cadence lives here.
type MaintenanceWorker struct {
	maintenance *service.MaintenanceService
	cfg         config.MaintenanceConfig
	logger      *zap.Logger
}

// NewMaintenanceWorker constructs a worker.
func NewMaintenanceWorker(maintenance *service.MaintenanceService, cfg config.MaintenanceConfig, logger *zap.Logger) *MaintenanceWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceWorker{maintenance: maintenance, cfg: cfg, logger: logger}
}

// Start launches the sweep loops. They stop when ctx is cancelled.
func (w *MaintenanceWorker) Start(ctx context.Context) {
	if !w.cfg.Enabled {
		w.logger.Info("maintenance worker disabled")
		return
	}
	go w.loop(ctx, w.cfg.SweepInterval(), "overdue sweep", func(ctx context.Context) error {
		_, err := w.maintenance.SweepOverdueJobs(ctx)
		return err
	})
	go w.loop(ctx, w.cfg.PurgeInterval(), "retention purge", func(ctx context.Context) error {
		_, err := w.maintenance.PurgeOldCompletedJobs(ctx)
		return err
	})
	go w.loop(ctx, w.cfg.ReminderInterval(), "reminder scan", func(ctx context.Context) error {
		_, err := w.maintenance.ScanUpcomingReminders(ctx)
		return err
	})
}

func (w *MaintenanceWorker) loop(ctx context.Context, interval time.Duration, name string, run func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := run(ctx); err != nil {
				w.logger.Error("maintenance run failed", zap.String("task", name), zap.Error(err))
			}
		}
	}
}
