// Package confirm_payment подтверждение оплаты брони: перевод
// PENDING_PAYMENT → ACTIVE с фиксацией платежа. Просроченный дедлайн
// оплаты отменяет бронь прямо в этой операции.
package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
)

// UseCase use case для подтверждения оплаты
type UseCase struct {
	bookingRepo  BookingRepository
	housekeeper  Housekeeper
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	housekeeper Housekeeper,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		housekeeper:  housekeeper,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute подтверждает оплату. Повторное подтверждение уже активной
// брони идемпотентно возвращает её без изменений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("ConfirmPayment: booking=%s client=%s", req.BookingID, req.ClientID)

	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.AmountRub != nil && *req.AmountRub < 0 {
		return nil, fmt.Errorf("%w: amountRub must not be negative", ErrInvalidInput)
	}

	// 1. Синхронная уборка: просроченные брони отменяются до чтения
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("ConfirmPayment: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmPayment: booking=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmPayment: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.ClientID != nil && *booking.ClientID != req.ClientID {
		uc.logger.Warn("ConfirmPayment: access denied for client=%s to booking=%s", req.ClientID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 2. Статусные проверки
	if booking.IsCanceled() {
		return nil, ErrBookingCanceled
	}
	if booking.IsCompleted() {
		return nil, ErrBookingCompleted
	}
	if booking.Status == domain.StatusActive {
		uc.logger.Info("ConfirmPayment: booking=%s already active", req.BookingID)
		return booking, nil
	}

	now := uc.timeProvider.Now()

	// 3. Истекший дедлайн оплаты: бронь отменяется здесь же
	if booking.PaymentDueAt == nil || !booking.PaymentDueAt.After(now) {
		if err := uc.bookingRepo.Cancel(ctx, req.BookingID, domain.CancelReasonPaymentExpired, now); err != nil {
			uc.logger.Error("ConfirmPayment: failed to expire booking=%s: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: expire booking: %v", ErrInternal, err)
		}
		uc.logger.Warn("ConfirmPayment: booking=%s expired", req.BookingID)
		uc.notifier.NotifyBayChanged(ctx, booking.LocationID, booking.BayNumber)
		return nil, ErrPaymentExpired
	}

	// 4. Время брони уже наступило — оплачивать поздно
	if !booking.DateTime.After(now) {
		uc.logger.Warn("ConfirmPayment: booking=%s already started", req.BookingID)
		return nil, ErrAlreadyStarted
	}

	// 5. Фиксируем платеж и активируем бронь
	amount := 0
	if req.AmountRub != nil {
		amount = *req.AmountRub
	}
	method := DefaultMethod
	if req.Method != nil && *req.Method != "" {
		method = *req.Method
	}

	if err := uc.bookingRepo.AddPayment(ctx, &domain.Payment{
		BookingID: booking.ID,
		AmountRub: amount,
		Method:    method,
		PaidAt:    now,
	}); err != nil {
		uc.logger.Error("ConfirmPayment: failed to add payment for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: add payment: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.Activate(ctx, booking.ID); err != nil {
		uc.logger.Error("ConfirmPayment: failed to activate booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: activate booking: %v", ErrInternal, err)
	}

	updated, err := uc.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("ConfirmPayment: failed to reload booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmPayment: booking=%s activated", updated.ID)
	uc.notifier.NotifyBayChanged(ctx, updated.LocationID, updated.BayNumber)

	return updated, nil
}
