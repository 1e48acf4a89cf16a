package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// EquipmentUsage reports how many tasks reference a piece of equipment.
type EquipmentUsage struct {
	EquipmentID string
	Name        string
	UsageCount  int64
}

// AnalyticsRepository runs the aggregate queries behind the admin report.
type AnalyticsRepository interface {
	JobTotals(ctx context.Context) (total, completed, overdue int64, err error)
	CountJobsByStatus(ctx context.Context) (map[domain.JobStatus]int64, error)
	CountJobsByPriority(ctx context.Context) (map[int]int64, error)
	AvgTaskCompletionHours(ctx context.Context) (*float64, error)
	TopEquipmentUsage(ctx context.Context, limit int) ([]EquipmentUsage, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) JobTotals(ctx context.Context) (int64, int64, int64, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='completed'),
               COUNT(*) FILTER (WHERE overdue=TRUE)
        FROM jobs`
	var total, completed, overdue int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &completed, &overdue); err != nil {
		return 0, 0, 0, err
	}
	return total, completed, overdue, nil
}

func (r *analyticsRepository) CountJobsByStatus(ctx context.Context) (map[domain.JobStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.JobStatus]int64)
	for rows.Next() {
		var status domain.JobStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *analyticsRepository) CountJobsByPriority(ctx context.Context) (map[int]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM jobs GROUP BY priority ORDER BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]int64)
	for rows.Next() {
		var priority int
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

// AvgTaskCompletionHours returns nil when no task has ever been completed.
func (r *analyticsRepository) AvgTaskCompletionHours(ctx context.Context) (*float64, error) {
	const query = `
        SELECT AVG(EXTRACT(EPOCH FROM (completed_at - created_at)) / 3600.0)
        FROM job_tasks
        WHERE status='completed' AND completed_at IS NOT NULL`
	var avg *float64
	if err := r.pool.QueryRow(ctx, query).Scan(&avg); err != nil {
		return nil, err
	}
	return avg, nil
}

func (r *analyticsRepository) TopEquipmentUsage(ctx context.Context, limit int) ([]EquipmentUsage, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT e.id, e.name, COUNT(te.task_id) AS usage_count
        FROM equipment e
        JOIN job_task_equipment te ON te.equipment_id = e.id
        GROUP BY e.id, e.name
        ORDER BY usage_count DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EquipmentUsage
	for rows.Next() {
		var usage EquipmentUsage
		if err := rows.Scan(&usage.EquipmentID, &usage.Name, &usage.UsageCount); err != nil {
			return nil, err
		}
		result = append(result, usage)
	}
	return result, rows.Err()
}
