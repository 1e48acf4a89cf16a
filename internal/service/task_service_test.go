package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
)

func newTaskFixture(t *testing.T) (*TaskService, *fakeJobRepo, *fakeTaskRepo, *domain.Job, time.Time) {
	t.Helper()
	jobs := newFakeJobRepo()
	tasks := newFakeTaskRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewTaskService(TaskDependencies{
		TaskRepo:      tasks,
		JobRepo:       jobs,
		EquipmentRepo: newFakeEquipmentRepo(),
	})
	svc.Now = pinned(now)

	job := &domain.Job{
		Title:         "Fixture job",
		ClientName:    "Acme",
		CreatedBy:     testActor.UserID,
		Status:        domain.JobStatusPending,
		Priority:      2,
		ScheduledDate: now.Add(time.Hour),
	}
	if err := jobs.Create(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	return svc, jobs, tasks, job, now
}

func TestCreateTaskOrderConflict(t *testing.T) {
	svc, _, tasks, job, _ := newTaskFixture(t)

	if _, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "First", Order: 1}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Duplicate", Order: 1})
	if err == nil {
		t.Fatal("expected order conflict")
	}
	if err.Error() != "Task with order 1 already exists in this job." {
		t.Fatalf("unexpected conflict message: %q", err.Error())
	}
	if len(tasks.tasks) != 1 {
		t.Fatalf("conflicting create must persist nothing, found %d tasks", len(tasks.tasks))
	}
}

func TestCreateTaskSameOrderAcrossJobs(t *testing.T) {
	svc, jobs, _, job, now := newTaskFixture(t)

	other := &domain.Job{
		Title:         "Other job",
		ClientName:    "Acme",
		CreatedBy:     testActor.UserID,
		Status:        domain.JobStatusPending,
		Priority:      2,
		ScheduledDate: now.Add(time.Hour),
	}
	if err := jobs.Create(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "A", Order: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTask(context.Background(), testActor, other.ID, TaskCreateInput{Title: "B", Order: 1}); err != nil {
		t.Fatalf("order uniqueness is scoped per job: %v", err)
	}
}

func TestCreateTaskRejectsNegativeOrder(t *testing.T) {
	svc, _, _, job, _ := newTaskFixture(t)

	if _, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Bad", Order: -1}); err == nil {
		t.Fatal("expected validation error for negative order")
	}
}

func TestCreateTaskUnknownJob(t *testing.T) {
	svc, _, _, _, _ := newTaskFixture(t)

	if _, err := svc.CreateTask(context.Background(), testActor, "job-missing", TaskCreateInput{Title: "Orphan", Order: 1}); err == nil {
		t.Fatal("expected not-found error for unknown job")
	}
}

func TestCompletedAtStampedOnCompletion(t *testing.T) {
	svc, _, _, job, now := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Step", Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt != nil {
		t.Fatal("pending task must not carry a completion stamp")
	}

	task, err = svc.UpdateStatus(context.Background(), testActor, task.ID, domain.JobStatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completion stamp %v, got %v", now, task.CompletedAt)
	}
}

func TestCompletedAtNotOverwrittenWhileCompleted(t *testing.T) {
	svc, _, _, job, now := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Step", Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	task, err = svc.UpdateStatus(context.Background(), testActor, task.ID, domain.JobStatusCompleted)
	if err != nil {
		t.Fatal(err)
	}

	// Advance the clock and touch the task; the stamp must not move.
	svc.Now = pinned(now.Add(2 * time.Hour))
	title := "Step renamed"
	task, err = svc.UpdateTask(context.Background(), testActor, task.ID, TaskUpdateInput{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("existing completion stamp must not be overwritten, got %v", task.CompletedAt)
	}
}

func TestCompletedAtClearedOnReopen(t *testing.T) {
	svc, _, _, job, _ := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Step", Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(context.Background(), testActor, task.ID, domain.JobStatusCompleted); err != nil {
		t.Fatal(err)
	}
	task, err = svc.UpdateStatus(context.Background(), testActor, task.ID, domain.JobStatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletedAt != nil {
		t.Fatal("reopening a task must clear the completion stamp")
	}
}

func TestUpdateTaskOrderConflictExcludesSelf(t *testing.T) {
	svc, _, _, job, _ := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Only", Order: 1})
	if err != nil {
		t.Fatal(err)
	}

	// Re-saving a task with its own order is not a conflict.
	order := 1
	if _, err := svc.UpdateTask(context.Background(), testActor, task.ID, TaskUpdateInput{Order: &order}); err != nil {
		t.Fatalf("own order must not conflict: %v", err)
	}

	if _, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Second", Order: 2}); err != nil {
		t.Fatal(err)
	}
	conflicting := 2
	if _, err := svc.UpdateTask(context.Background(), testActor, task.ID, TaskUpdateInput{Order: &conflicting}); err == nil {
		t.Fatal("expected conflict when moving onto a sibling's order")
	}
}

func TestCreateTaskRejectsUnknownEquipment(t *testing.T) {
	svc, _, _, job, _ := newTaskFixture(t)

	_, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{
		Title:        "Needs gear",
		Order:        1,
		EquipmentIDs: []string{"equipment-missing"},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown equipment")
	}
}

func TestUpdateTaskUnknownEquipmentLeavesTaskUnchanged(t *testing.T) {
	svc, _, tasks, job, _ := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), testActor, job.ID, TaskCreateInput{Title: "Original", Order: 1})
	if err != nil {
		t.Fatal(err)
	}

	title := "Changed title"
	_, err = svc.UpdateTask(context.Background(), testActor, task.ID, TaskUpdateInput{
		Title:        &title,
		EquipmentIDs: []string{"equipment-missing"},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown equipment")
	}

	stored, err := tasks.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Title != "Original" {
		t.Fatalf("rejected update must persist nothing, stored title %q", stored.Title)
	}
}
