// Package create_booking создание брони: проверка автомобиля и услуг,
// ворота вместимости с отводом в лист ожидания, проверка пересечений
// и вставка в сериализуемой транзакции.
package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	carRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/car"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

// Config бизнес-настройки создания брони
type Config struct {
	PaymentHoldMinutes int
	DefaultBufferMin   int
}

// UseCase use case для создания брони
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	carRepo      CarRepository
	conflicts    ConflictChecker
	capacityGate CapacityGate
	waitlistSvc  WaitlistService
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
	catalogRepo CatalogRepository,
	carRepo CarRepository,
	conflictChecker ConflictChecker,
	capacityGate CapacityGate,
	waitlistSvc WaitlistService,
	housekeeper Housekeeper,
	txManager TransactionManager,
	notifier Notifier,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		carRepo:      carRepo,
		conflicts:    conflictChecker,
		capacityGate: capacityGate,
		waitlistSvc:  waitlistSvc,
		housekeeper:  housekeeper,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		config:       config,
		logger:       logger,
	}
}

// Execute выполняет создание брони. Возвращает созданную бронь либо,
// при закрытом боксе, заявку в листе ожидания — отвод не является ошибкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%s, location=%s, car=%s, service=%s, dateTime=%s",
		req.ClientID, req.LocationID, req.CarID, req.ServiceID, req.DateTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Синхронная уборка статусов: истекшие брони освобождают слоты
	if err := uc.housekeeper.Run(ctx); err != nil {
		uc.logger.Error("CreateBooking: housekeeping failed: %v", err)
		return nil, fmt.Errorf("%w: housekeeping sweep: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	if err := validateNotInPast(req.DateTime, now); err != nil {
		uc.logger.Warn("CreateBooking: dateTime=%s is in the past", req.DateTime.Format(time.RFC3339))
		return nil, err
	}

	// 3. Автомобиль и его принадлежность
	car, err := uc.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, carRepo.ErrCarNotFound) {
			uc.logger.Warn("CreateBooking: car=%s not found", req.CarID)
			return nil, ErrCarNotFound
		}
		uc.logger.Error("CreateBooking: failed to get car=%s: %v", req.CarID, err)
		return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
	}
	if car.BelongsToAnother(req.ClientID) {
		uc.logger.Warn("CreateBooking: car=%s belongs to another client", req.CarID)
		return nil, ErrNotYourCar
	}

	// 4. Базовая услуга
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Допуслуги: существование и снапшоты цены/длительности
	addonServices, err := uc.loadAddonServices(ctx, req.Addons)
	if err != nil {
		return nil, err
	}

	// 6. Назначенный бокс: запрошенный либо бокс по умолчанию
	bayNumber := domain.MinBayNumber
	if req.BayNumber != nil {
		bayNumber = *req.BayNumber
	}

	// 7. Ворота вместимости: закрытый бокс отводит запись в лист ожидания
	diversion, err := uc.capacityGate.Check(ctx, req.LocationID, bayNumber)
	if err != nil {
		if errors.Is(err, capacity.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location=%s not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: capacity check failed: %v", err)
		return nil, fmt.Errorf("%w: capacity check: %v", ErrInternal, err)
	}
	if diversion != nil {
		return uc.divert(ctx, req, diversion)
	}

	// 8. Длина блока: база + допуслуги + буфер, округление вверх до шага сетки
	bufferMin := uc.config.DefaultBufferMin
	if req.BufferMin != nil {
		bufferMin = *req.BufferMin
	}

	addonMinutes := 0
	for _, a := range req.Addons {
		addonMinutes += addonServices[a.ServiceID].DurationOrDefault() * a.Qty
	}

	blockMin := domain.BlockMinutes(service.DurationOrDefault(), addonMinutes, bufferMin)
	paymentDueAt := now.Add(time.Duration(uc.config.PaymentHoldMinutes) * time.Minute)

	booking := &domain.Booking{
		LocationID:         req.LocationID,
		BayNumber:          bayNumber,
		RequestedBayNumber: req.BayNumber,
		CarID:              req.CarID,
		ClientID:           &req.ClientID,
		ServiceID:          req.ServiceID,
		DateTime:           req.DateTime,
		BufferMin:          bufferMin,
		Comment:            req.Comment,
		Status:             domain.StatusPendingPayment,
		PaymentDueAt:       &paymentDueAt,
	}

	// 9. Проверка пересечений и вставка в сериализуемой транзакции.
	// Гонка двух создающих запросов разрешается на уровне изоляции:
	// проигравший получает serialization failure и после повтора — конфликт.
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.conflicts.EnsureSlotFree(txCtx, conflicts.CheckRequest{
			LocationID: req.LocationID,
			BayNumber:  bayNumber,
			CarID:      req.CarID,
			Start:      req.DateTime,
			BlockMin:   blockMin,
		}); err != nil {
			return err
		}

		inserted, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}

		for _, a := range req.Addons {
			svc := addonServices[a.ServiceID]
			if err := uc.bookingRepo.UpsertAddon(txCtx, &domain.BookingAddon{
				BookingID:           inserted.ID,
				ServiceID:           svc.ID,
				Qty:                 a.Qty,
				PriceRubSnapshot:    svc.PriceRub,
				DurationMinSnapshot: svc.DurationMin,
			}); err != nil {
				return fmt.Errorf("%w: attach addon: %v", ErrInternal, err)
			}
		}

		created, err = uc.bookingRepo.GetByID(txCtx, inserted.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrSlotConflict) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: slot conflict, location=%s bay=%d dateTime=%s",
				req.LocationID, bayNumber, req.DateTime.Format(time.RFC3339))
			return nil, ErrSlotConflict
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking=%s created, location=%s bay=%d block=%dmin",
		created.ID, created.LocationID, created.BayNumber, blockMin)
	uc.notifier.NotifyBayChanged(ctx, created.LocationID, created.BayNumber)

	return &Response{ResultType: ResultBooking, Booking: created}, nil
}

// divert создает заявку в листе ожидания вместо брони.
// Желаемый бокс — строго то, что просил клиент: конкретный номер или любой.
func (uc *UseCase) divert(ctx context.Context, req *Request, diversion *capacity.Diversion) (*Response, error) {
	request, err := uc.waitlistSvc.CreateDiverted(ctx, &domain.WaitlistRequest{
		LocationID:       req.LocationID,
		DesiredDateTime:  req.DateTime,
		DesiredBayNumber: req.BayNumber,
		ClientID:         req.ClientID,
		CarID:            req.CarID,
		ServiceID:        req.ServiceID,
		Comment:          req.Comment,
		Reason:           diversion.Reason,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: waitlist diversion failed: %v", err)
		return nil, fmt.Errorf("%w: waitlist diversion: %v", ErrInternal, err)
	}

	notifyBay := domain.MinBayNumber
	if req.BayNumber != nil {
		notifyBay = *req.BayNumber
	}

	uc.logger.Info("CreateBooking: diverted to waitlist, request=%s reason=%s", request.ID, request.Reason)
	uc.notifier.NotifyBayChanged(ctx, req.LocationID, notifyBay)

	return &Response{ResultType: ResultWaitlist, Waitlist: request}, nil
}

// loadAddonServices получает допуслуги из каталога, дедуплицируя идентификаторы
func (uc *UseCase) loadAddonServices(ctx context.Context, addons []AddonInput) (map[string]*domain.Service, error) {
	services := make(map[string]*domain.Service, len(addons))
	for _, a := range addons {
		if _, ok := services[a.ServiceID]; ok {
			continue
		}
		svc, err := uc.catalogRepo.GetService(ctx, a.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: addon service=%s not found", a.ServiceID)
				return nil, fmt.Errorf("%w: %s", ErrAddonNotFound, a.ServiceID)
			}
			uc.logger.Error("CreateBooking: failed to get addon service=%s: %v", a.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get addon service: %v", ErrInternal, err)
		}
		services[a.ServiceID] = svc
	}
	return services, nil
}
