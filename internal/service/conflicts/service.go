// Package conflicts проверка пересечений кандидатского интервала брони
// с уже существующими бронями по боксу и по автомобилю.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
)

// CheckRequest параметры проверяемого интервала
type CheckRequest struct {
	LocationID string
	BayNumber  int
	CarID      string
	Start      time.Time
	BlockMin   int
	// ExcludeBookingID собственная бронь при переносе: с самой собой не конфликтует
	ExcludeBookingID *string
}

// Service сервис проверки пересечений
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса проверки пересечений
func NewService(bookingRepo BookingRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// EnsureSlotFree проверяет, что интервал свободен и по боксу, и по автомобилю.
// Автомобиль проверяется глобально по всем локациям: одна машина не может
// обслуживаться в двух местах одновременно. Вызывается внутри сериализуемой
// транзакции — параллельные создания пересекающихся броней приводят
// к serialization failure, а не к двойной записи.
func (s *Service) EnsureSlotFree(ctx context.Context, req CheckRequest) error {
	now := s.timeProvider.Now()
	candidate := domain.Interval{Start: req.Start, End: domain.End(req.Start, req.BlockMin)}

	// Окно выборки: блок всегда сильно короче суток, поэтому любая бронь,
	// пересекающаяся с кандидатом, начинается в пределах ±24 часов от него.
	windowStart := req.Start.Add(-domain.ConflictWindow)
	windowEnd := candidate.End.Add(domain.ConflictWindow)

	// 1. Конфликт по боксу
	bayBookings, err := s.bookingRepo.ListNearby(ctx, domain.NearbyFilter{
		LocationID:       ptr.Ptr(req.LocationID),
		BayNumber:        ptr.Ptr(req.BayNumber),
		WindowStart:      windowStart,
		WindowEnd:        windowEnd,
		Statuses:         domain.BusyStatuses,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		s.logger.Error("EnsureSlotFree: failed to list bay bookings, location=%s bay=%d: %v",
			req.LocationID, req.BayNumber, err)
		return fmt.Errorf("%w: EnsureSlotFree - list bay bookings: %v", ErrInternal, err)
	}

	if conflicting := s.firstOverlap(bayBookings, candidate, now); conflicting != nil {
		s.logger.Warn("EnsureSlotFree: bay conflict, location=%s bay=%d booking=%s",
			req.LocationID, req.BayNumber, conflicting.ID)
		return ErrBayConflict
	}

	// 2. Конфликт по автомобилю (глобально, без фильтра по локации)
	carBookings, err := s.bookingRepo.ListNearby(ctx, domain.NearbyFilter{
		CarID:            ptr.Ptr(req.CarID),
		WindowStart:      windowStart,
		WindowEnd:        windowEnd,
		Statuses:         domain.BusyStatuses,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		s.logger.Error("EnsureSlotFree: failed to list car bookings, car=%s: %v", req.CarID, err)
		return fmt.Errorf("%w: EnsureSlotFree - list car bookings: %v", ErrInternal, err)
	}

	if conflicting := s.firstOverlap(carBookings, candidate, now); conflicting != nil {
		s.logger.Warn("EnsureSlotFree: car conflict, car=%s booking=%s", req.CarID, conflicting.ID)
		return ErrCarConflict
	}

	return nil
}

// firstOverlap ищет первую бронь, занимающую слот в момент now
// и пересекающуюся с кандидатским интервалом
func (s *Service) firstOverlap(bookings []*domain.Booking, candidate domain.Interval, now time.Time) *domain.Booking {
	for _, b := range bookings {
		if !b.OccupiesSlot(now) {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return b
		}
	}
	return nil
}
