package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobops-service/internal/domain"
)

// EquipmentFilter captures catalog listing parameters.
type EquipmentFilter struct {
	Type       *domain.EquipmentType
	ActiveOnly bool
	SearchTerm *string
	Limit      int
	Offset     int
}

// EquipmentRepository encapsulates catalog persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	Update(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	GetBySerialNumber(ctx context.Context, serial string) (*domain.Equipment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EquipmentFilter) ([]domain.Equipment, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

const equipmentColumns = `id, name, type, serial_number, description, is_active, created_at, updated_at`

func (r *equipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        INSERT INTO equipment (name, type, serial_number, description, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		equipment.Name,
		equipment.Type,
		equipment.SerialNumber,
		equipment.Description,
		equipment.Active,
	).Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        UPDATE equipment SET name=$1, type=$2, serial_number=$3, description=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		equipment.Name,
		equipment.Type,
		equipment.SerialNumber,
		equipment.Description,
		equipment.Active,
		equipment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	return r.fetchSingle(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id=$1`, id)
}

func (r *equipmentRepository) GetBySerialNumber(ctx context.Context, serial string) (*domain.Equipment, error) {
	return r.fetchSingle(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE serial_number=$1`, serial)
}

func (r *equipmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Equipment, error) {
	var equipment domain.Equipment
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
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
	return &equipment, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM equipment WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) List(ctx context.Context, filter EquipmentFilter) ([]domain.Equipment, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "is_active=TRUE")
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(serial_number) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM equipment WHERE %s ORDER BY name LIMIT %d OFFSET %d`,
		equipmentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
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
