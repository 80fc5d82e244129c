package bay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/psqlbuilder"
)

var bayColumns = []string{
	"id",
	"location_id",
	"number",
	"is_active",
	"closed_reason",
	"closed_at",
	"reopened_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с локациями и боксами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория боксов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLocation получает локацию по ID
func (r *Repository) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "address", "bays_count", "created_at").
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - build select query: %v", ErrBuildQuery, err)
	}

	var location domain.Location
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.BaysCount,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("%w: GetLocation - execute query: %v", ErrExecQuery, err)
	}

	location.CreatedAt = createdAt.Time

	return &location, nil
}

// GetBay получает бокс по локации и номеру
func (r *Repository) GetBay(ctx context.Context, locationID string, number int) (*domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From("bays").
		Where(squirrel.Eq{"location_id": locationID, "number": number}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBay - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	bay, err := r.scanBay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBayNotFound
		}
		return nil, err
	}

	return bay, nil
}

// ListBays получает все боксы локации, упорядоченные по номеру
func (r *Repository) ListBays(ctx context.Context, locationID string) ([]*domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From("bays").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bays := make([]*domain.Bay, 0)
	for rows.Next() {
		bay, err := r.scanBay(rows)
		if err != nil {
			return nil, err
		}
		bays = append(bays, bay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBays - rows error: %v", ErrScanRow, err)
	}

	return bays, nil
}

// CountActiveBays считает открытые боксы локации
func (r *Repository) CountActiveBays(ctx context.Context, locationID string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bays").
		Where(squirrel.Eq{"location_id": locationID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBays - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBays - execute query: %v", ErrExecQuery, err)
	}

	return count, nil
}

// Close закрывает бокс с обязательной причиной и временем закрытия
func (r *Repository) Close(ctx context.Context, locationID string, number int, reason string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bays").
		Set("is_active", false).
		Set("closed_reason", reason).
		Set("closed_at", now).
		Set("reopened_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"location_id": locationID, "number": number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Close")
}

// Reopen открывает бокс, снимает причину закрытия и фиксирует время открытия
func (r *Repository) Reopen(ctx context.Context, locationID string, number int, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bays").
		Set("is_active", true).
		Set("closed_reason", nil).
		Set("closed_at", nil).
		Set("reopened_at", now).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"location_id": locationID, "number": number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reopen - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Reopen")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBayNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBay(row rowScanner) (*domain.Bay, error) {
	var bay domain.Bay
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&bay.ID,
		&bay.LocationID,
		&bay.Number,
		&bay.IsActive,
		&bay.ClosedReason,
		&bay.ClosedAt,
		&bay.ReopenedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scanBay - scan row: %v", ErrScanRow, err)
	}

	bay.CreatedAt = createdAt.Time
	bay.UpdatedAt = updatedAt.Time

	return &bay, nil
}
