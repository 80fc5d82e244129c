// Package get_busy_slots расчет занятых интервалов бокса в запрошенном
// диапазоне. Используется клиентским расписанием для отрисовки сетки.
package get_busy_slots

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
)

// Request модель запроса занятых слотов
type Request struct {
	LocationID string
	BayNumber  int
	From       time.Time
	To         time.Time
}

// UseCase use case для расчета занятых слотов
type UseCase struct {
	bookingRepo  BookingRepository
	housekeeper  Housekeeper
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, housekeeper Housekeeper, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		housekeeper:  housekeeper,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает занятые интервалы бокса, отсортированные по началу.
// Учитываются активные брони и неоплаченные с живым дедлайном; интервалы
// обрезаются фильтром пересечения с запрошенным диапазоном, но не по границам.
func (uc *UseCase) Execute(ctx context.Context, req *Request) ([]domain.Interval, error) {
	// 1. Валидация входных данных
	if req.LocationID == "" {
		return nil, fmt.Errorf("%w: locationID is required", ErrInvalidInput)
	}
	if req.BayNumber < domain.MinBayNumber || req.BayNumber > domain.MaxBayNumber {
		return nil, fmt.Errorf("%w: bayNumber must be between %d and %d",
			ErrInvalidInput, domain.MinBayNumber, domain.MaxBayNumber)
	}
	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	// 2. Синхронная уборка: истекшие брони не должны отображаться занятыми
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("GetBusySlots: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	// 3. Выборка броней вокруг диапазона: бронь, начавшаяся до from,
	// может дотягиваться блоком внутрь диапазона
	bookings, err := uc.bookingRepo.ListNearby(ctx, domain.NearbyFilter{
		LocationID:  ptr.Ptr(req.LocationID),
		BayNumber:   ptr.Ptr(req.BayNumber),
		WindowStart: req.From.Add(-domain.ConflictWindow),
		WindowEnd:   req.To.Add(domain.ConflictWindow),
		Statuses:    domain.BusyStatuses,
	})
	if err != nil {
		uc.logger.Error("GetBusySlots: repository error, location=%s bay=%d: %v",
			req.LocationID, req.BayNumber, err)
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	// 4. Занятые интервалы, пересекающиеся с запрошенным диапазоном
	requested := domain.Interval{Start: req.From, End: req.To}
	busy := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.OccupiesSlot(now) {
			continue
		}
		interval := b.Interval()
		if interval.Overlaps(requested) {
			busy = append(busy, interval)
		}
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	return busy, nil
}
