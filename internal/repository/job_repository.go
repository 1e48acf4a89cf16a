package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// JobFilter captures job listing parameters.
type JobFilter struct {
	Statuses   []domain.JobStatus
	Priorities []int
	Overdue    *bool
	AssignedTo *string
	CreatedBy  *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// JobRepository encapsulates job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.Job, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time, status domain.JobStatus) ([]domain.Job, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, client_name, created_by, assigned_to, status, priority, scheduled_date, overdue, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, description, client_name, created_by, assigned_to, status, priority, scheduled_date, overdue)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.ClientName,
		job.CreatedBy,
		job.AssignedTo,
		job.Status,
		job.Priority,
		job.ScheduledDate,
		job.Overdue,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, client_name=$3, assigned_to=$4, status=$5,
            priority=$6, scheduled_date=$7, overdue=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.ClientName,
		job.AssignedTo,
		job.Status,
		job.Priority,
		job.ScheduledDate,
		job.Overdue,
		job.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.ClientName,
		&job.CreatedBy,
		&job.AssignedTo,
		&job.Status,
		&job.Priority,
		&job.ScheduledDate,
		&job.Overdue,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete removes the job; owned tasks cascade at the storage layer.
func (r *jobRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Overdue != nil {
		args = append(args, *filter.Overdue)
		clauses = append(clauses, fmt.Sprintf("overdue=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(client_name) LIKE %s OR LOWER(description) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		jobColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListOverdueCandidates(ctx context.Context, now time.Time) ([]domain.Job, error) {
	const query = `
        SELECT ` + jobColumns + ` FROM jobs
        WHERE scheduled_date < $1 AND status IN ('pending','in_progress') AND overdue=FALSE
        ORDER BY scheduled_date ASC`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListScheduledBetween(ctx context.Context, from, to time.Time, status domain.JobStatus) ([]domain.Job, error) {
	const query = `
        SELECT ` + jobColumns + ` FROM jobs
        WHERE scheduled_date >= $1 AND scheduled_date <= $2 AND status = $3
        ORDER BY scheduled_date ASC`
	rows, err := r.pool.Query(ctx, query, from, to, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE status='completed' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.ClientName,
			&job.CreatedBy,
			&job.AssignedTo,
			&job.Status,
			&job.Priority,
			&job.ScheduledDate,
			&job.Overdue,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
