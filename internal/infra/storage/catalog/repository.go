package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"location_id",
	"name",
	"duration_min",
	"price_rub",
	"is_addon",
	"is_active",
	"created_at",
}

// Repository репозиторий для чтения каталога услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.LocationID,
		&service.Name,
		&service.DurationMin,
		&service.PriceRub,
		&service.IsAddon,
		&service.IsActive,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: GetService - execute query: %v", ErrExecQuery, err)
	}

	service.CreatedAt = createdAt.Time

	return &service, nil
}

// ListServices получает активные услуги локации
func (r *Repository) ListServices(ctx context.Context, locationID string) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"location_id": locationID, "is_active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		var createdAt sql.NullTime

		err := rows.Scan(
			&service.ID,
			&service.LocationID,
			&service.Name,
			&service.DurationMin,
			&service.PriceRub,
			&service.IsAddon,
			&service.IsActive,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}

		service.CreatedAt = createdAt.Time
		services = append(services, &service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
