package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/psqlbuilder"
)

var requestColumns = []string{
	"id",
	"location_id",
	"desired_date_time",
	"desired_bay_number",
	"client_id",
	"car_id",
	"service_id",
	"comment",
	"status",
	"reason",
	"converted_booking_id",
	"invited_at",
	"created_at",
}

// Repository репозиторий для работы с листом ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку в листе ожидания
func (r *Repository) Create(ctx context.Context, request *domain.WaitlistRequest) (*domain.WaitlistRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("waitlist_requests").
		Columns(
			"id",
			"location_id",
			"desired_date_time",
			"desired_bay_number",
			"client_id",
			"car_id",
			"service_id",
			"comment",
			"status",
			"reason",
		).
		Values(
			request.ID,
			request.LocationID,
			request.DesiredDateTime,
			request.DesiredBayNumber,
			request.ClientID,
			request.CarID,
			request.ServiceID,
			request.Comment,
			request.Status,
			request.Reason,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	request.CreatedAt = createdAt.Time

	return request, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.WaitlistRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("waitlist_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	request, err := r.scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// ListByClient получает заявки клиента, новые первыми
func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]*domain.WaitlistRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("waitlist_requests").
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

	requests := make([]*domain.WaitlistRequest, 0)
	for rows.Next() {
		request, err := r.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByClient - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// Cancel отменяет заявку в листе ожидания
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_requests").
		Set("status", domain.WaitlistCanceled).
		Set("reason", reason).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// MarkConverted помечает заявку сконвертированной в бронь.
// Выполняется в одной транзакции с созданием брони.
func (r *Repository) MarkConverted(ctx context.Context, id string, bookingID string, invitedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_requests").
		Set("status", domain.WaitlistConverted).
		Set("converted_booking_id", bookingID).
		Set("invited_at", invitedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.WaitlistWaiting}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkConverted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkConverted")
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
		return ErrRequestNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanRequest(row rowScanner) (*domain.WaitlistRequest, error) {
	var request domain.WaitlistRequest
	var createdAt sql.NullTime

	err := row.Scan(
		&request.ID,
		&request.LocationID,
		&request.DesiredDateTime,
		&request.DesiredBayNumber,
		&request.ClientID,
		&request.CarID,
		&request.ServiceID,
		&request.Comment,
		&request.Status,
		&request.Reason,
		&request.ConvertedBookingID,
		&request.InvitedAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scanRequest - scan row: %v", ErrScanRow, err)
	}

	request.CreatedAt = createdAt.Time

	return &request, nil
}
