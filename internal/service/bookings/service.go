// Package bookings операции жизненного цикла брони: чтение, отмена,
// начало и завершение обслуживания, открепление допуслуг.
// Создание, оплата, перенос и прикрепление допуслуг живут в usecase-слое:
// им нужна сериализуемая транзакция.
package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
)

// Service сервис жизненного цикла броней
type Service struct {
	bookingRepo  BookingRepository
	capacity     CapacityService
	housekeeper  Housekeeper
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	bookingRepo BookingRepository,
	capacitySvc CapacityService,
	housekeeper Housekeeper,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		capacity:     capacitySvc,
		housekeeper:  housekeeper,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронь. Клиент видит только свои брони,
// бронь без клиента (созданная персоналом) доступна всем.
func (s *Service) GetByID(ctx context.Context, id string, clientID string) (*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	booking, err := s.getOwned(ctx, id, clientID, "GetByID")
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// List получает брони клиента, отмененные по умолчанию скрыты
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return list, nil
}

// Cancel отменяет бронь клиента. Повторная отмена идемпотентна.
// Начатое или истекшее обслуживание отменить нельзя.
func (s *Service) Cancel(ctx context.Context, id string, clientID string) (*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	booking, err := s.getOwned(ctx, id, clientID, "Cancel")
	if err != nil {
		return nil, err
	}

	// Уже отменена — возвращаем как есть
	if booking.IsCanceled() {
		s.logger.Info("Cancel: booking=%s already canceled", id)
		return booking, nil
	}

	now := s.timeProvider.Now()

	if booking.IsCompleted() || booking.StartedAt != nil || !booking.DateTime.After(now) {
		s.logger.Warn("Cancel: booking=%s cannot be canceled, status=%s", id, booking.Status)
		return nil, ErrCannotCancel
	}

	reason := domain.CancelReasonUserCanceled
	if booking.Status == domain.StatusPendingPayment {
		reason = domain.CancelReasonUserCanceledPending
	}

	if err := s.bookingRepo.Cancel(ctx, id, reason, now); err != nil {
		s.logger.Error("Cancel: repository error for booking=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking=%s canceled, reason=%s", id, reason)
	s.notifier.NotifyBayChanged(ctx, booking.LocationID, booking.BayNumber)

	return s.reload(ctx, id, "Cancel")
}

// Start начинает обслуживание по брони (операция персонала).
// Неоплаченная, но не просроченная бронь при старте автоматически
// становится активной. Бокс должен быть открыт.
func (s *Service) Start(ctx context.Context, id string) (*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	booking, err := s.get(ctx, id, "Start")
	if err != nil {
		return nil, err
	}

	if booking.IsTerminal() {
		s.logger.Warn("Start: booking=%s in terminal status=%s", id, booking.Status)
		return nil, ErrCannotStart
	}

	if err := s.capacity.RequireBayActive(ctx, booking.LocationID, booking.BayNumber); err != nil {
		if errors.Is(err, capacity.ErrBayInactive) || errors.Is(err, capacity.ErrBayNotFound) {
			s.logger.Warn("Start: bay unavailable for booking=%s, location=%s bay=%d",
				id, booking.LocationID, booking.BayNumber)
			return nil, ErrCannotStart
		}
		return nil, fmt.Errorf("%w: Start - require bay active: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.MarkStarted(ctx, id, s.timeProvider.Now(), domain.StatusActive); err != nil {
		s.logger.Error("Start: repository error for booking=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Start - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Start: booking=%s started", id)

	return s.reload(ctx, id, "Start")
}

// Finish завершает обслуживание по брони (операция персонала).
// Если старт не был зафиксирован, startedAt проставляется временем завершения.
func (s *Service) Finish(ctx context.Context, id string) (*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	booking, err := s.get(ctx, id, "Finish")
	if err != nil {
		return nil, err
	}

	if booking.IsCompleted() {
		s.logger.Info("Finish: booking=%s already completed", id)
		return booking, nil
	}
	if booking.IsCanceled() {
		s.logger.Warn("Finish: booking=%s is canceled", id)
		return nil, ErrCannotFinish
	}

	if err := s.bookingRepo.MarkFinished(ctx, id, s.timeProvider.Now()); err != nil {
		s.logger.Error("Finish: repository error for booking=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Finish - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Finish: booking=%s completed", id)
	s.notifier.NotifyBayChanged(ctx, booking.LocationID, booking.BayNumber)

	return s.reload(ctx, id, "Finish")
}

// DetachAddon открепляет допуслугу от брони клиента.
// Блок брони укорачивается, поэтому расписание бокса меняется.
func (s *Service) DetachAddon(ctx context.Context, bookingID, serviceID string, clientID string) (*domain.Booking, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	booking, err := s.getOwned(ctx, bookingID, clientID, "DetachAddon")
	if err != nil {
		return nil, err
	}

	if booking.IsTerminal() {
		s.logger.Warn("DetachAddon: booking=%s in terminal status=%s", bookingID, booking.Status)
		return nil, ErrBookingImmutable
	}

	if err := s.bookingRepo.DeleteAddon(ctx, bookingID, serviceID); err != nil {
		if errors.Is(err, bookingRepo.ErrAddonNotFound) {
			s.logger.Warn("DetachAddon: addon service=%s not found on booking=%s", serviceID, bookingID)
			return nil, ErrAddonNotFound
		}
		s.logger.Error("DetachAddon: repository error for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: DetachAddon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DetachAddon: addon service=%s detached from booking=%s", serviceID, bookingID)
	s.notifier.NotifyBayChanged(ctx, booking.LocationID, booking.BayNumber)

	return s.reload(ctx, bookingID, "DetachAddon")
}

func (s *Service) sweep(ctx context.Context) error {
	if err := s.housekeeper.Run(ctx); err != nil {
		s.logger.Error("sweep: housekeeping failed: %v", err)
		return fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getOwned(ctx context.Context, id string, clientID string, op string) (*domain.Booking, error) {
	booking, err := s.get(ctx, id, op)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != nil && *booking.ClientID != clientID {
		s.logger.Warn("%s: access denied for client=%s to booking=%s", op, clientID, id)
		return nil, ErrAccessDenied
	}
	return booking, nil
}

func (s *Service) reload(ctx context.Context, id string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("%s: failed to reload booking=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - reload booking: %v", ErrInternal, op, err)
	}
	return booking, nil
}
