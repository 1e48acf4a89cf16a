package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// JobTaskRepository encapsulates task persistence.
type JobTaskRepository interface {
	Create(ctx context.Context, task *domain.JobTask) error
	Update(ctx context.Context, task *domain.JobTask) error
	GetByID(ctx context.Context, id string) (*domain.JobTask, error)
	Delete(ctx context.Context, id string) error
	ListByJob(ctx context.Context, jobID string) ([]domain.JobTask, error)
	CountByJobOrder(ctx context.Context, jobID string, order int, excludeTaskID string) (int, error)
	ReplaceEquipment(ctx context.Context, taskID string, equipmentIDs []string) error
	ListEquipment(ctx context.Context, taskID string) ([]domain.Equipment, error)
}

type jobTaskRepository struct {
	pool *pgxpool.Pool
}

// NewJobTaskRepository instantiates repository.
func NewJobTaskRepository(pool *pgxpool.Pool) JobTaskRepository {
	return &jobTaskRepository{pool: pool}
}

const taskColumns = `id, job_id, title, description, status, task_order, completed_at, created_at, updated_at`

func (r *jobTaskRepository) Create(ctx context.Context, task *domain.JobTask) error {
	const query = `
        INSERT INTO job_tasks (job_id, title, description, status, task_order, completed_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.JobID,
		task.Title,
		task.Description,
		task.Status,
		task.Order,
		task.CompletedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *jobTaskRepository) Update(ctx context.Context, task *domain.JobTask) error {
	const query = `
        UPDATE job_tasks SET title=$1, description=$2, status=$3, task_order=$4, completed_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Order,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobTaskRepository) GetByID(ctx context.Context, id string) (*domain.JobTask, error) {
	var task domain.JobTask
	if err := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM job_tasks WHERE id=$1`, id).Scan(
		&task.ID,
		&task.JobID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Order,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *jobTaskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM job_tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobTaskRepository) ListByJob(ctx context.Context, jobID string) ([]domain.JobTask, error) {
	const query = `SELECT ` + taskColumns + ` FROM job_tasks WHERE job_id=$1 ORDER BY task_order ASC`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *jobTaskRepository) CountByJobOrder(ctx context.Context, jobID string, order int, excludeTaskID string) (int, error) {
	query := `SELECT COUNT(*) FROM job_tasks WHERE job_id=$1 AND task_order=$2`
	args := []any{jobID, order}
	if excludeTaskID != "" {
		args = append(args, excludeTaskID)
		query += ` AND id != $3`
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobTaskRepository) ReplaceEquipment(ctx context.Context, taskID string, equipmentIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM job_task_equipment WHERE task_id=$1`, taskID); err != nil {
		return err
	}
	for _, equipmentID := range equipmentIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_task_equipment (task_id, equipment_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			taskID, equipmentID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *jobTaskRepository) ListEquipment(ctx context.Context, taskID string) ([]domain.Equipment, error) {
	const query = `
        SELECT e.id, e.name, e.type, e.serial_number, e.description, e.is_active, e.created_at, e.updated_at
        FROM equipment e
        JOIN job_task_equipment te ON te.equipment_id = e.id
        WHERE te.task_id = $1
        ORDER BY e.name`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Equipment
	for rows.Next() {
		var equipment domain.Equipment
		if err := rows.Scan(
			&equipment.ID,
			&equipment.Name,
			&equipment.Type,
			&equipment.SerialNumber,
			&equipment.Description,
			&equipment.Active,
			&equipment.CreatedAt,
			&equipment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, equipment)
	}
	return result, rows.Err()
}

func scanTasks(rows pgx.Rows) ([]domain.JobTask, error) {
	var result []domain.JobTask
	for rows.Next() {
		var task domain.JobTask
		if err := rows.Scan(
			&task.ID,
			&task.JobID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Order,
			&task.CompletedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
