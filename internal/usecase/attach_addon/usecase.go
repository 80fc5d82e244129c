// Package attach_addon прикрепление допуслуги к существующей брони.
// Допуслуга удлиняет блок, поэтому перед записью блок пересчитывается
// и проверяется на пересечения в сериализуемой транзакции.
package attach_addon

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

// Request модель запроса на прикрепление допуслуги
type Request struct {
	BookingID string
	ClientID  string
	ServiceID string
	// Qty количество; 0 трактуется как 1
	Qty int
}

// UseCase use case для прикрепления допуслуги
type UseCase struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	conflicts   ConflictChecker
	housekeeper Housekeeper
	txManager   TransactionManager
	notifier    Notifier
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	conflictChecker ConflictChecker,
	housekeeper Housekeeper,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		conflicts:   conflictChecker,
		housekeeper: housekeeper,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// Execute прикрепляет допуслугу. Повторное прикрепление той же услуги
// суммирует количество и обновляет снапшоты цены и длительности.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("AttachAddon: booking=%s service=%s qty=%d", req.BookingID, req.ServiceID, req.Qty)

	// 1. Валидация входных данных
	if req.BookingID == "" {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	qty := req.Qty
	if qty == 0 {
		qty = 1
	}
	if qty < 0 || qty > domain.MaxAddonQty {
		return nil, fmt.Errorf("%w: qty must be between 1 and %d", ErrInvalidInput, domain.MaxAddonQty)
	}

	// 2. Синхронная уборка статусов
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("AttachAddon: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	// 3. Допуслуга из каталога — снапшоты берутся из актуальной записи
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("AttachAddon: service=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("AttachAddon: failed to get service=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Пересчет блока и запись в сериализуемой транзакции
	var updated *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.ClientID != nil && *booking.ClientID != req.ClientID {
			return ErrAccessDenied
		}
		if booking.IsTerminal() {
			return ErrBookingImmutable
		}

		// Новый блок: текущие допуслуги плюс прикрепляемая
		newAddonMinutes := booking.AddonMinutes + service.DurationOrDefault()*qty
		blockMin := domain.BlockMinutes(
			domain.ServiceDurationOrDefault(booking.ServiceDurationMin),
			newAddonMinutes,
			booking.BufferMin,
		)

		if err := uc.conflicts.EnsureSlotFree(txCtx, conflicts.CheckRequest{
			LocationID:       booking.LocationID,
			BayNumber:        booking.BayNumber,
			CarID:            booking.CarID,
			Start:            booking.DateTime,
			BlockMin:         blockMin,
			ExcludeBookingID: ptr.Ptr(booking.ID),
		}); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpsertAddon(txCtx, &domain.BookingAddon{
			BookingID:           booking.ID,
			ServiceID:           service.ID,
			Qty:                 qty,
			PriceRubSnapshot:    service.PriceRub,
			DurationMinSnapshot: service.DurationMin,
		}); err != nil {
			return fmt.Errorf("%w: upsert addon: %v", ErrInternal, err)
		}

		updated, err = uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrSlotConflict) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("AttachAddon: slot conflict for booking=%s", req.BookingID)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("AttachAddon: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("AttachAddon: addon service=%s attached to booking=%s", req.ServiceID, updated.ID)
	uc.notifier.NotifyBayChanged(ctx, updated.LocationID, updated.BayNumber)

	return updated, nil
}
