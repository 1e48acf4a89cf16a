package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
)

// In-memory repository fakes. They mimic the storage contract the pgx
// implementations expose: missing rows surface as pgx.ErrNoRows.

type fakeJobRepo struct {
	seq  int
	jobs map[string]domain.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]domain.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.Job) error {
	r.seq++
	job.ID = fmt.Sprintf("job-%d", r.seq)
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Update(ctx context.Context, job *domain.Job) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return pgx.ErrNoRows
	}
	job.UpdatedAt = time.Now()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &job, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) ListWithFilter(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	var result []domain.Job
	for _, job := range r.jobs {
		if filter.AssignedTo != nil && (job.AssignedTo == nil || *job.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, job.Status) {
			continue
		}
		result = append(result, job)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeJobRepo) ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.Job, error) {
	var result []domain.Job
	for _, job := range r.jobs {
		if job.Overdue {
			continue
		}
		if job.Status != domain.JobStatusPending && job.Status != domain.JobStatusInProgress {
			continue
		}
		if job.ScheduledDate.Before(now) {
			result = append(result, job)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeJobRepo) ListScheduledBetween(ctx context.Context, from, to time.Time, status domain.JobStatus) ([]domain.Job, error) {
	var result []domain.Job
	for _, job := range r.jobs {
		if job.Status != status {
			continue
		}
		if job.ScheduledDate.Before(from) || job.ScheduledDate.After(to) {
			continue
		}
		result = append(result, job)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeJobRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, job := range r.jobs {
		if job.Status == domain.JobStatusCompleted && job.UpdatedAt.Before(cutoff) {
			delete(r.jobs, id)
			deleted++
		}
	}
	return deleted, nil
}

func containsStatus(statuses []domain.JobStatus, status domain.JobStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeTaskRepo struct {
	seq       int
	tasks     map[string]domain.JobTask
	equipment map[string][]domain.Equipment
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:     make(map[string]domain.JobTask),
		equipment: make(map[string][]domain.Equipment),
	}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.JobTask) error {
	r.seq++
	task.ID = fmt.Sprintf("task-%d", r.seq)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.JobTask) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.JobTask, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &task, nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	delete(r.equipment, id)
	return nil
}

func (r *fakeTaskRepo) ListByJob(ctx context.Context, jobID string) ([]domain.JobTask, error) {
	var result []domain.JobTask
	for _, task := range r.tasks {
		if task.JobID == jobID {
			result = append(result, task)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (r *fakeTaskRepo) CountByJobOrder(ctx context.Context, jobID string, order int, excludeTaskID string) (int, error) {
	count := 0
	for _, task := range r.tasks {
		if task.JobID == jobID && task.Order == order && task.ID != excludeTaskID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) ReplaceEquipment(ctx context.Context, taskID string, equipmentIDs []string) error {
	items := make([]domain.Equipment, 0, len(equipmentIDs))
	for _, id := range equipmentIDs {
		items = append(items, domain.Equipment{ID: id})
	}
	r.equipment[taskID] = items
	return nil
}

func (r *fakeTaskRepo) ListEquipment(ctx context.Context, taskID string) ([]domain.Equipment, error) {
	return r.equipment[taskID], nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			matched := user
			return &matched, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeEquipmentRepo struct {
	seq   int
	items map[string]domain.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: make(map[string]domain.Equipment)}
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, equipment *domain.Equipment) error {
	r.seq++
	equipment.ID = fmt.Sprintf("equipment-%d", r.seq)
	equipment.CreatedAt = time.Now()
	equipment.UpdatedAt = equipment.CreatedAt
	r.items[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, equipment *domain.Equipment) error {
	if _, ok := r.items[equipment.ID]; !ok {
		return pgx.ErrNoRows
	}
	equipment.UpdatedAt = time.Now()
	r.items[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &equipment, nil
}

func (r *fakeEquipmentRepo) GetBySerialNumber(ctx context.Context, serial string) (*domain.Equipment, error) {
	for _, equipment := range r.items {
		if equipment.SerialNumber == serial {
			matched := equipment
			return &matched, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEquipmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, error) {
	var result []domain.Equipment
	for _, equipment := range r.items {
		if filter.ActiveOnly && !equipment.Active {
			continue
		}
		if filter.Type != nil && equipment.Type != *filter.Type {
			continue
		}
		result = append(result, equipment)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	entry.ID = fmt.Sprintf("audit-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

type fakeAnalyticsRepo struct {
	total, completed, overdue int64
	byStatus                  map[domain.JobStatus]int64
	byPriority                map[int]int64
	avgHours                  *float64
	topEquipment              []repository.EquipmentUsage
}

func (r *fakeAnalyticsRepo) JobTotals(ctx context.Context) (int64, int64, int64, error) {
	return r.total, r.completed, r.overdue, nil
}

func (r *fakeAnalyticsRepo) CountJobsByStatus(ctx context.Context) (map[domain.JobStatus]int64, error) {
	if r.byStatus == nil {
		return map[domain.JobStatus]int64{}, nil
	}
	return r.byStatus, nil
}

func (r *fakeAnalyticsRepo) CountJobsByPriority(ctx context.Context) (map[int]int64, error) {
	if r.byPriority == nil {
		return map[int]int64{}, nil
	}
	return r.byPriority, nil
}

func (r *fakeAnalyticsRepo) AvgTaskCompletionHours(ctx context.Context) (*float64, error) {
	return r.avgHours, nil
}

func (r *fakeAnalyticsRepo) TopEquipmentUsage(ctx context.Context, limit int) ([]repository.EquipmentUsage, error) {
	return r.topEquipment, nil
}
