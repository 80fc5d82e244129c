package car

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/psqlbuilder"
)

var carColumns = []string{
	"id",
	"client_id",
	"plate_normalized",
	"plate_display",
	"make_display",
	"model_display",
	"created_at",
}

// Repository репозиторий для работы с автомобилями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает автомобиль по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(carColumns...).
		From("cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanCar(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// FindByPlate ищет автомобиль по нормализованному номеру
func (r *Repository) FindByPlate(ctx context.Context, plateNormalized string) (*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(carColumns...).
		From("cars").
		Where(squirrel.Eq{"plate_normalized": plateNormalized}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByPlate - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanCar(executor.QueryRowContext(ctx, query, args...), "FindByPlate")
}

// Create создает новый автомобиль
func (r *Repository) Create(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if car.ID == "" {
		car.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("cars").
		Columns("id", "client_id", "plate_normalized", "plate_display", "make_display", "model_display").
		Values(car.ID, car.ClientID, car.PlateNormalized, car.PlateDisplay, car.MakeDisplay, car.ModelDisplay).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	car.CreatedAt = createdAt.Time

	return car, nil
}

// ListByClient получает автомобили клиента
func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(carColumns...).
		From("cars").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		var car domain.Car
		var createdAt sql.NullTime

		err := rows.Scan(
			&car.ID,
			&car.ClientID,
			&car.PlateNormalized,
			&car.PlateDisplay,
			&car.MakeDisplay,
			&car.ModelDisplay,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByClient - scan row: %v", ErrScanRow, err)
		}

		car.CreatedAt = createdAt.Time
		cars = append(cars, &car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByClient - rows error: %v", ErrScanRow, err)
	}

	return cars, nil
}

// Delete удаляет автомобиль
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCarNotFound
	}

	return nil
}

func (r *Repository) scanCar(row *sql.Row, op string) (*domain.Car, error) {
	var car domain.Car
	var createdAt sql.NullTime

	err := row.Scan(
		&car.ID,
		&car.ClientID,
		&car.PlateNormalized,
		&car.PlateDisplay,
		&car.MakeDisplay,
		&car.ModelDisplay,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}

	car.CreatedAt = createdAt.Time

	return &car, nil
}
