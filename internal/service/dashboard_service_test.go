package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

func TestTechnicianDashboardGroupsByScheduledDate(t *testing.T) {
	jobs := newFakeJobRepo()
	tasks := newFakeTaskRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewDashboardService(jobs, tasks)
	svc.Now = pinned(now)

	tech := "user-9"
	dayOne := now.Add(24 * time.Hour)
	dayTwo := now.Add(48 * time.Hour)

	jobA := &domain.Job{Title: "A", ClientName: "Acme", CreatedBy: "user-1", AssignedTo: &tech, Status: domain.JobStatusPending, Priority: 2, ScheduledDate: dayTwo}
	jobB := &domain.Job{Title: "B", ClientName: "Acme", CreatedBy: "user-1", AssignedTo: &tech, Status: domain.JobStatusInProgress, Priority: 2, ScheduledDate: dayOne}
	other := "user-2"
	jobC := &domain.Job{Title: "C", ClientName: "Acme", CreatedBy: "user-1", AssignedTo: &other, Status: domain.JobStatusPending, Priority: 2, ScheduledDate: dayOne}
	for _, job := range []*domain.Job{jobA, jobB, jobC} {
		if err := jobs.Create(context.Background(), job); err != nil {
			t.Fatal(err)
		}
	}

	_ = tasks.Create(context.Background(), &domain.JobTask{JobID: jobA.ID, Title: "open", Status: domain.JobStatusPending, Order: 1})
	_ = tasks.Create(context.Background(), &domain.JobTask{JobID: jobA.ID, Title: "done", Status: domain.JobStatusCompleted, Order: 2})
	_ = tasks.Create(context.Background(), &domain.JobTask{JobID: jobB.ID, Title: "running", Status: domain.JobStatusInProgress, Order: 1})
	_ = tasks.Create(context.Background(), &domain.JobTask{JobID: jobC.ID, Title: "not mine", Status: domain.JobStatusPending, Order: 1})

	view, err := svc.ForTechnician(context.Background(), tech)
	if err != nil {
		t.Fatal(err)
	}

	if len(view.Dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", view.Dates)
	}
	if view.Dates[0] != dayOne.Format("2006-01-02") || view.Dates[1] != dayTwo.Format("2006-01-02") {
		t.Fatalf("dates must be ascending, got %v", view.Dates)
	}

	dayOneTasks := view.TasksByDate[view.Dates[0]]
	if len(dayOneTasks) != 1 || dayOneTasks[0].Task.Title != "running" {
		t.Fatalf("unexpected day-one tasks: %+v", dayOneTasks)
	}
	dayTwoTasks := view.TasksByDate[view.Dates[1]]
	if len(dayTwoTasks) != 1 || dayTwoTasks[0].Task.Title != "open" {
		t.Fatalf("completed tasks must be excluded, got %+v", dayTwoTasks)
	}
}

func TestTechnicianDashboardMarksOverdue(t *testing.T) {
	jobs := newFakeJobRepo()
	tasks := newFakeTaskRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewDashboardService(jobs, tasks)
	svc.Now = pinned(now)

	tech := "user-9"
	job := &domain.Job{Title: "Late", ClientName: "Acme", CreatedBy: "user-1", AssignedTo: &tech, Status: domain.JobStatusPending, Priority: 2, ScheduledDate: now.Add(-time.Hour), Overdue: true}
	if err := jobs.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	_ = tasks.Create(context.Background(), &domain.JobTask{JobID: job.ID, Title: "late step", Status: domain.JobStatusPending, Order: 1})

	view, err := svc.ForTechnician(context.Background(), tech)
	if err != nil {
		t.Fatal(err)
	}
	entries := view.TasksByDate[view.Dates[0]]
	if len(entries) != 1 || !entries[0].IsOverdue {
		t.Fatalf("task of a past-dated job must be flagged overdue: %+v", entries)
	}
}
