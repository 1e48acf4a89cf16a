package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// DashboardTask is one open task on a technician's schedule.
type DashboardTask struct {
	Task      domain.JobTask
	Job       domain.Job
	IsOverdue bool
}

// TechnicianDashboard groups a technician's open tasks by the scheduled date
// of their parent job, keyed by ISO date and sorted ascending.
type TechnicianDashboard struct {
	Dates       []string
	TasksByDate map[string][]DashboardTask
}

// DashboardService builds per-technician work views.
type DashboardService struct {
	jobs  repository.JobRepository
	tasks repository.JobTaskRepository

	Now func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(jobRepo repository.JobRepository, taskRepo repository.JobTaskRepository) *DashboardService {
	return &DashboardService{jobs: jobRepo, tasks: taskRepo, Now: time.Now}
}

// ForTechnician returns the pending and in-progress tasks of jobs assigned
// to the technician, grouped by scheduled date.
func (s *DashboardService) ForTechnician(ctx context.Context, technicianID string) (*TechnicianDashboard, error) {
	assignee := technicianID
	jobs, err := s.jobs.ListWithFilter(ctx, repository.JobFilter{
		AssignedTo: &assignee,
		Limit:      500,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.Now()
	dashboard := &TechnicianDashboard{TasksByDate: make(map[string][]DashboardTask)}
	for i := range jobs {
		job := jobs[i]
		tasks, err := s.tasks.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for j := range tasks {
			task := tasks[j]
			if task.Status != domain.JobStatusPending && task.Status != domain.JobStatusInProgress {
				continue
			}
			dateKey := job.ScheduledDate.Format("2006-01-02")
			dashboard.TasksByDate[dateKey] = append(dashboard.TasksByDate[dateKey], DashboardTask{
				Task:      task,
				Job:       job,
				IsOverdue: task.IsOverdue(job.ScheduledDate, now),
			})
		}
	}

	dashboard.Dates = make([]string, 0, len(dashboard.TasksByDate))
	for date := range dashboard.TasksByDate {
		dashboard.Dates = append(dashboard.Dates, date)
	}
	sort.Strings(dashboard.Dates)
	return dashboard, nil
}
