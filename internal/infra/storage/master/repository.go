package master

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/psqlbuilder"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/txmanager"
)

var masterColumns = []string{
	"id",
	"name",
	"work_hours",
	"manager_ids",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий мастеров
// Рабочий график хранится в колонке work_hours (JSONB)
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActive получает активного мастера
// Салон работает с одним активным мастером; если активных нет - ErrMasterNotFound
func (r *Repository) GetActive(ctx context.Context) (*domain.Master, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From("masters").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanMaster(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - scan master: %v", ErrScanRow, err)
	}

	return m, nil
}

// GetByID получает мастера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From("masters").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanMaster(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan master: %v", ErrScanRow, err)
	}

	return m, nil
}

// UpdateWorkHours обновляет рабочий график мастера (административная операция)
func (r *Repository) UpdateWorkHours(ctx context.Context, id int64, schedule domain.WorkSchedule) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	raw, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkHours - marshal schedule: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("masters").
		Set("work_hours", raw).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkHours - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMasterNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMaster(row rowScanner) (*domain.Master, error) {
	var m domain.Master
	var rawSchedule []byte
	var managerIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.Name,
		&rawSchedule,
		&managerIDs,
		&m.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(rawSchedule) > 0 {
		if err := json.Unmarshal(rawSchedule, &m.WorkHours); err != nil {
			return nil, fmt.Errorf("unmarshal work_hours: %v", err)
		}
	}

	m.ManagerIDs = managerIDs
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}
