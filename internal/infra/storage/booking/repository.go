package booking

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

// bookingColumns колонки брони с приджойненной длительностью базовой услуги
// и суммой длительностей допуслуг (snapshot * qty)
var bookingColumns = []string{
	"b.id",
	"b.location_id",
	"b.bay_number",
	"b.requested_bay_number",
	"b.car_id",
	"b.client_id",
	"b.service_id",
	"b.date_time",
	"b.buffer_min",
	"b.comment",
	"b.status",
	"b.payment_due_at",
	"b.started_at",
	"b.finished_at",
	"b.canceled_at",
	"b.cancel_reason",
	"COALESCE(s.duration_min, 0) AS service_duration_min",
	"COALESCE(SUM(a.qty * a.duration_min_snapshot), 0) AS addon_minutes",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями и их допуслугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую бронь.
// Если в контексте передана активная транзакция (через context.Value),
// использует её — так создание участвует в сериализуемой транзакции
// вместе с проверкой пересечений.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"location_id",
			"bay_number",
			"requested_bay_number",
			"car_id",
			"client_id",
			"service_id",
			"date_time",
			"buffer_min",
			"comment",
			"status",
			"payment_due_at",
		).
		Values(
			booking.ID,
			booking.LocationID,
			booking.BayNumber,
			booking.RequestedBayNumber,
			booking.CarID,
			booking.ClientID,
			booking.ServiceID,
			booking.DateTime,
			booking.BufferMin,
			booking.Comment,
			booking.Status,
			booking.PaymentDueAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронь по ID вместе с допуслугами
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	booking := bookings[0]

	addons, err := r.ListAddons(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Addons = addons

	return booking, nil
}

// List получает список броней с фильтрацией по клиенту и локации
func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().OrderBy("b.date_time ASC")

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.client_id": *filter.ClientID})
	}
	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.location_id": *filter.LocationID})
	}
	if !filter.IncludeCanceled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": domain.StatusCanceled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListNearby получает брони вокруг кандидатского интервала для проверки
// пересечений и расчета занятых слотов. Выборка ограничена окном
// [WindowStart, WindowEnd] по date_time — блок всегда сильно меньше суток.
func (r *Repository) ListNearby(ctx context.Context, filter domain.NearbyFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().
		Where(squirrel.GtOrEq{"b.date_time": filter.WindowStart}).
		Where(squirrel.LtOrEq{"b.date_time": filter.WindowEnd}).
		OrderBy("b.date_time ASC")

	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.location_id": *filter.LocationID})
	}
	if filter.BayNumber != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.bay_number": *filter.BayNumber})
	}
	if filter.CarID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.car_id": *filter.CarID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": statuses})
	}
	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.id": *filter.ExcludeBookingID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListNearby - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListNearby - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// HasActiveFrom проверяет, есть ли у автомобиля активная бронь,
// начинающаяся не раньше from. Используется как guard при удалении автомобиля.
func (r *Repository) HasActiveFrom(ctx context.Context, carID string, from time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"car_id": carID, "status": domain.StatusActive}).
		Where(squirrel.GtOrEq{"date_time": from}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveFrom - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: HasActiveFrom - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// UpdateStatus обновляет статус брони
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// Cancel отменяет бронь с фиксацией времени и причины отмены
func (r *Repository) Cancel(ctx context.Context, id string, reason string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCanceled).
		Set("canceled_at", now).
		Set("cancel_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// Activate переводит бронь в ACTIVE и снимает дедлайн оплаты
func (r *Repository) Activate(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusActive).
		Set("payment_due_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Activate - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Activate")
}

// UpdateSchedule переносит бронь на новое время и/или бокс
func (r *Repository) UpdateSchedule(ctx context.Context, id string, newStart time.Time, newBayNumber int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("date_time", newStart).
		Set("bay_number", newBayNumber).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateSchedule")
}

// MarkStarted фиксирует начало обслуживания. started_at ставится один раз:
// повторный вызов не перетирает уже записанное время.
func (r *Repository) MarkStarted(ctx context.Context, id string, startedAt time.Time, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("started_at", squirrel.Expr("COALESCE(started_at, ?)", startedAt)).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkStarted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkStarted")
}

// MarkFinished завершает обслуживание и переводит бронь в COMPLETED
func (r *Repository) MarkFinished(ctx context.Context, id string, finishedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("started_at", squirrel.Expr("COALESCE(started_at, ?)", finishedAt)).
		Set("finished_at", squirrel.Expr("COALESCE(finished_at, ?)", finishedAt)).
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkFinished - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkFinished")
}

// ExpireDuePayments пакетно отменяет неоплаченные брони с истекшим дедлайном.
// Возвращает затронутые боксы для рассылки уведомлений.
func (r *Repository) ExpireDuePayments(ctx context.Context, now time.Time) ([]domain.BayRef, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCanceled).
		Set("canceled_at", now).
		Set("cancel_reason", domain.CancelReasonPaymentExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPendingPayment}).
		Where(squirrel.NotEq{"payment_due_at": nil}).
		Where(squirrel.Lt{"payment_due_at": now}).
		Suffix("RETURNING location_id, bay_number").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDuePayments - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDuePayments - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	refs := make([]domain.BayRef, 0)
	for rows.Next() {
		var ref domain.BayRef
		if err := rows.Scan(&ref.LocationID, &ref.BayNumber); err != nil {
			return nil, fmt.Errorf("%w: ExpireDuePayments - scan row: %v", ErrScanRow, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpireDuePayments - rows error: %v", ErrScanRow, err)
	}

	return refs, nil
}

// ListAutoCompleteCandidates получает ACTIVE-брони, начавшиеся в прошлом.
// Конец блока вычисляется в сервисе по актуальным допуслугам.
func (r *Repository) ListAutoCompleteCandidates(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.status": domain.StatusActive}).
		Where(squirrel.Lt{"b.date_time": now}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoCompleteCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoCompleteCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CompleteByIDs пакетно переводит брони в COMPLETED
func (r *Repository) CompleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CompleteByIDs - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CompleteByIDs - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// UpsertAddon прикрепляет допуслугу к брони. При повторном прикреплении той же
// услуги количество суммируется, снапшоты цены и длительности обновляются.
func (r *Repository) UpsertAddon(ctx context.Context, addon *domain.BookingAddon) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_addons").
		Columns("booking_id", "service_id", "qty", "price_rub_snapshot", "duration_min_snapshot").
		Values(addon.BookingID, addon.ServiceID, addon.Qty, addon.PriceRubSnapshot, addon.DurationMinSnapshot).
		Suffix(`ON CONFLICT (booking_id, service_id) DO UPDATE SET
			qty = booking_addons.qty + EXCLUDED.qty,
			price_rub_snapshot = EXCLUDED.price_rub_snapshot,
			duration_min_snapshot = EXCLUDED.duration_min_snapshot`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertAddon - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertAddon - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteAddon открепляет допуслугу от брони
func (r *Repository) DeleteAddon(ctx context.Context, bookingID, serviceID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_addons").
		Where(squirrel.Eq{"booking_id": bookingID, "service_id": serviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteAddon - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteAddon - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteAddon - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAddonNotFound
	}

	return nil
}

// ListAddons получает допуслуги брони
func (r *Repository) ListAddons(ctx context.Context, bookingID string) ([]domain.BookingAddon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"service_id",
		"qty",
		"price_rub_snapshot",
		"duration_min_snapshot",
		"created_at",
	).
		From("booking_addons").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAddons - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAddons - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	addons := make([]domain.BookingAddon, 0)
	for rows.Next() {
		var a domain.BookingAddon
		var createdAt sql.NullTime

		err := rows.Scan(
			&a.BookingID,
			&a.ServiceID,
			&a.Qty,
			&a.PriceRubSnapshot,
			&a.DurationMinSnapshot,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAddons - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		addons = append(addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAddons - rows error: %v", ErrScanRow, err)
	}

	return addons, nil
}

// AddPayment фиксирует платеж по брони
func (r *Repository) AddPayment(ctx context.Context, payment *domain.Payment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("payments").
		Columns("id", "booking_id", "amount_rub", "method", "paid_at").
		Values(payment.ID, payment.BookingID, payment.AmountRub, payment.Method, payment.PaidAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddPayment - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddPayment - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// selectBookings базовый SELECT броней с джойнами каталога и допуслуг
func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("services s ON s.id = b.service_id").
		LeftJoin("booking_addons a ON a.booking_id = b.id").
		GroupBy("b.id", "s.duration_min")
}

// execExpectingRow выполняет запрос и возвращает ErrBookingNotFound,
// если не затронуто ни одной строки
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
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс броней
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.LocationID,
			&booking.BayNumber,
			&booking.RequestedBayNumber,
			&booking.CarID,
			&booking.ClientID,
			&booking.ServiceID,
			&booking.DateTime,
			&booking.BufferMin,
			&booking.Comment,
			&booking.Status,
			&booking.PaymentDueAt,
			&booking.StartedAt,
			&booking.FinishedAt,
			&booking.CanceledAt,
			&booking.CancelReason,
			&booking.ServiceDurationMin,
			&booking.AddonMinutes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
