// Package move_booking перенос брони на новое время и/или бокс.
// Операция персонала: требует явную причину и подтверждение,
// что клиент предупрежден.
package move_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

// UseCase use case для переноса брони
type UseCase struct {
	bookingRepo  BookingRepository
	conflicts    ConflictChecker
	capacityGate CapacityGate
	housekeeper  Housekeeper
	txManager    TransactionManager
	notifier     Notifier
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	conflictChecker ConflictChecker,
	capacityGate CapacityGate,
	housekeeper Housekeeper,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		conflicts:    conflictChecker,
		capacityGate: capacityGate,
		housekeeper:  housekeeper,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
	}
}

// Execute переносит бронь. Проверка пересечений выполняется на новом
// интервале с исключением собственной строки брони: бронь не может
// конфликтовать сама с собой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("MoveBooking: booking=%s newDateTime=%s newBay=%v",
		req.BookingID, req.NewDateTime.Format(time.RFC3339), req.NewBayNumber)

	// 1. Валидация входных данных
	if err := uc.validate(req); err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Синхронная уборка статусов
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("MoveBooking: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("MoveBooking: booking=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("MoveBooking: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.IsTerminal() {
		uc.logger.Warn("MoveBooking: booking=%s in terminal status=%s", req.BookingID, booking.Status)
		return nil, ErrBookingImmutable
	}

	oldBay := booking.BayNumber
	newBay := booking.BayNumber
	if req.NewBayNumber != nil {
		newBay = *req.NewBayNumber
	}

	// 3. Смена бокса требует открытый целевой бокс
	if newBay != oldBay {
		if err := uc.capacityGate.RequireBayActive(ctx, booking.LocationID, newBay); err != nil {
			if errors.Is(err, capacity.ErrBayInactive) || errors.Is(err, capacity.ErrBayNotFound) {
				uc.logger.Warn("MoveBooking: bay unavailable, location=%s bay=%d", booking.LocationID, newBay)
				return nil, ErrBayUnavailable
			}
			uc.logger.Error("MoveBooking: capacity check failed: %v", err)
			return nil, fmt.Errorf("%w: capacity check: %v", ErrInternal, err)
		}
	}

	// 4. Проверка пересечений и перенос в сериализуемой транзакции
	var moved *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.conflicts.EnsureSlotFree(txCtx, conflicts.CheckRequest{
			LocationID:       booking.LocationID,
			BayNumber:        newBay,
			CarID:            booking.CarID,
			Start:            req.NewDateTime,
			BlockMin:         booking.BlockMinutes(),
			ExcludeBookingID: ptr.Ptr(booking.ID),
		}); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, req.NewDateTime, newBay); err != nil {
			return fmt.Errorf("%w: update schedule: %v", ErrInternal, err)
		}

		var err error
		moved, err = uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrSlotConflict) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("MoveBooking: slot conflict, booking=%s bay=%d dateTime=%s",
				req.BookingID, newBay, req.NewDateTime.Format(time.RFC3339))
			return nil, ErrSlotConflict
		}
		uc.logger.Error("MoveBooking: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("MoveBooking: booking=%s moved, justification=%q", moved.ID, req.Justification)

	// 5. Уведомляем старый бокс и, при смене, новый
	uc.notifier.NotifyBayChanged(ctx, booking.LocationID, oldBay)
	if newBay != oldBay {
		uc.notifier.NotifyBayChanged(ctx, booking.LocationID, newBay)
	}

	return moved, nil
}

func (uc *UseCase) validate(req *Request) error {
	if req.BookingID == "" {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.NewDateTime.IsZero() {
		return fmt.Errorf("%w: newDateTime is required", ErrInvalidInput)
	}
	if req.NewBayNumber != nil {
		if *req.NewBayNumber < domain.MinBayNumber || *req.NewBayNumber > domain.MaxBayNumber {
			return fmt.Errorf("%w: newBayNumber must be between %d and %d",
				ErrInvalidInput, domain.MinBayNumber, domain.MaxBayNumber)
		}
	}
	if strings.TrimSpace(req.Justification) == "" {
		return ErrJustificationRequired
	}
	if len(req.Justification) > domain.MaxReasonLength {
		return fmt.Errorf("%w: justification is too long", ErrInvalidInput)
	}
	if !req.ClientAgreed {
		return ErrClientNotAgreed
	}
	return nil
}
