// Package convert_waitlist конвертация заявки из листа ожидания в бронь.
// Операция персонала: заявка становится активной бронью (оплата считается
// согласованной на месте), лист ожидания помечается CONVERTED атомарно
// с созданием брони.
package convert_waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
	waitlistRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

// Request модель запроса на конвертацию заявки
type Request struct {
	WaitlistID string
	// BayNumber целевой бокс; nil = желаемый из заявки либо бокс по умолчанию
	BayNumber *int
	// DateTime целевое время; nil = желаемое из заявки
	DateTime *time.Time
}

// Config бизнес-настройки конвертации
type Config struct {
	DefaultBufferMin int
}

// UseCase use case для конвертации заявки
type UseCase struct {
	bookingRepo  BookingRepository
	waitlistRepo WaitlistRepository
	catalogRepo  CatalogRepository
	conflicts    ConflictChecker
	capacityGate CapacityGate
	housekeeper  Housekeeper
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	config       Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	waitlistRepo WaitlistRepository,
	catalogRepo CatalogRepository,
	conflictChecker ConflictChecker,
	capacityGate CapacityGate,
	housekeeper Housekeeper,
	txManager TransactionManager,
	notifier Notifier,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		catalogRepo:  catalogRepo,
		conflicts:    conflictChecker,
		capacityGate: capacityGate,
		housekeeper:  housekeeper,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		config:       config,
		logger:       logger,
	}
}

// Execute конвертирует заявку в активную бронь
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("ConvertWaitlist: request=%s bay=%v dateTime=%v", req.WaitlistID, req.BayNumber, req.DateTime)

	if req.WaitlistID == "" {
		return nil, fmt.Errorf("%w: waitlistID is required", ErrInvalidInput)
	}
	if req.BayNumber != nil {
		if *req.BayNumber < domain.MinBayNumber || *req.BayNumber > domain.MaxBayNumber {
			return nil, fmt.Errorf("%w: bayNumber must be between %d and %d",
				ErrInvalidInput, domain.MinBayNumber, domain.MaxBayNumber)
		}
	}

	// 1. Синхронная уборка статусов
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("ConvertWaitlist: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	// 2. Заявка и её статус
	request, err := uc.waitlistRepo.GetByID(ctx, req.WaitlistID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrRequestNotFound) {
			uc.logger.Warn("ConvertWaitlist: request=%s not found", req.WaitlistID)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("ConvertWaitlist: failed to get request=%s: %v", req.WaitlistID, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}
	if !request.IsWaiting() {
		uc.logger.Warn("ConvertWaitlist: request=%s is not waiting, status=%s", req.WaitlistID, request.Status)
		return nil, ErrNotWaiting
	}

	// 3. Целевые бокс и время: явные из запроса либо желаемые из заявки
	bayNumber := domain.MinBayNumber
	if request.DesiredBayNumber != nil {
		bayNumber = *request.DesiredBayNumber
	}
	if req.BayNumber != nil {
		bayNumber = *req.BayNumber
	}

	start := request.DesiredDateTime
	if req.DateTime != nil {
		start = *req.DateTime
	}

	// 4. Конвертация возможна только в открытый бокс
	if err := uc.capacityGate.RequireBayActive(ctx, request.LocationID, bayNumber); err != nil {
		if errors.Is(err, capacity.ErrBayInactive) || errors.Is(err, capacity.ErrBayNotFound) {
			uc.logger.Warn("ConvertWaitlist: bay unavailable, location=%s bay=%d", request.LocationID, bayNumber)
			return nil, ErrBayUnavailable
		}
		uc.logger.Error("ConvertWaitlist: capacity check failed: %v", err)
		return nil, fmt.Errorf("%w: capacity check: %v", ErrInternal, err)
	}

	// 5. Длина блока: базовая услуга заявки + буфер по умолчанию
	service, err := uc.catalogRepo.GetService(ctx, request.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("ConvertWaitlist: service=%s not found", request.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ConvertWaitlist: failed to get service=%s: %v", request.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	blockMin := domain.BlockMinutes(service.DurationOrDefault(), 0, uc.config.DefaultBufferMin)
	now := uc.timeProvider.Now()

	// 6. Создание брони и пометка заявки в одной сериализуемой транзакции:
	// заявка не может сконвертироваться дважды, бронь не может остаться
	// без пометки CONVERTED.
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.conflicts.EnsureSlotFree(txCtx, conflicts.CheckRequest{
			LocationID: request.LocationID,
			BayNumber:  bayNumber,
			CarID:      request.CarID,
			Start:      start,
			BlockMin:   blockMin,
		}); err != nil {
			return err
		}

		booking := &domain.Booking{
			LocationID:         request.LocationID,
			BayNumber:          bayNumber,
			RequestedBayNumber: request.DesiredBayNumber,
			CarID:              request.CarID,
			ClientID:           &request.ClientID,
			ServiceID:          request.ServiceID,
			DateTime:           start,
			BufferMin:          uc.config.DefaultBufferMin,
			Comment:            request.Comment,
			Status:             domain.StatusActive,
		}

		inserted, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}

		if err := uc.waitlistRepo.MarkConverted(txCtx, request.ID, inserted.ID, now); err != nil {
			if errors.Is(err, waitlistRepo.ErrRequestNotFound) {
				// Заявку увели из-под конвертации в параллельной транзакции
				return ErrNotWaiting
			}
			return fmt.Errorf("%w: mark converted: %v", ErrInternal, err)
		}

		created, err = uc.bookingRepo.GetByID(txCtx, inserted.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrSlotConflict) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("ConvertWaitlist: slot conflict, request=%s bay=%d", req.WaitlistID, bayNumber)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("ConvertWaitlist: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ConvertWaitlist: request=%s converted to booking=%s", request.ID, created.ID)
	uc.notifier.NotifyBayChanged(ctx, created.LocationID, created.BayNumber)

	return created, nil
}
