// Package cars учет автомобилей клиентов: регистрация с нормализацией
// госномера, список и удаление с проверкой активных броней.
package cars

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	carRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/car"
)

// CreateRequest параметры регистрации автомобиля
type CreateRequest struct {
	ClientID     string
	PlateDisplay string
	MakeDisplay  string
	ModelDisplay string
}

// Service сервис учета автомобилей
type Service struct {
	carRepo      CarRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса автомобилей
func NewService(carRepo CarRepository, bookingRepo BookingRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		carRepo:      carRepo,
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create регистрирует автомобиль клиента. Номер уникален глобально.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Car, error) {
	plate := NormalizePlate(req.PlateDisplay)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.MakeDisplay) == "" {
		return nil, fmt.Errorf("%w: make is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ModelDisplay) == "" {
		return nil, fmt.Errorf("%w: model is required", ErrInvalidInput)
	}

	if _, err := s.carRepo.FindByPlate(ctx, plate); err == nil {
		s.logger.Warn("Create: plate=%s already registered", plate)
		return nil, ErrPlateTaken
	} else if !errors.Is(err, carRepo.ErrCarNotFound) {
		s.logger.Error("Create: failed to check plate=%s: %v", plate, err)
		return nil, fmt.Errorf("%w: Create - check plate: %v", ErrInternal, err)
	}

	car, err := s.carRepo.Create(ctx, &domain.Car{
		ClientID:        &req.ClientID,
		PlateNormalized: plate,
		PlateDisplay:    plate,
		MakeDisplay:     strings.ToUpper(strings.TrimSpace(req.MakeDisplay)),
		ModelDisplay:    strings.ToUpper(strings.TrimSpace(req.ModelDisplay)),
	})
	if err != nil {
		s.logger.Error("Create: repository error for plate=%s: %v", plate, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: car=%s registered for client=%s", car.ID, req.ClientID)

	return car, nil
}

// ListByClient получает автомобили клиента
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*domain.Car, error) {
	cars, err := s.carRepo.ListByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	return cars, nil
}

// Remove удаляет автомобиль клиента. Автомобиль с активной будущей бронью
// удалить нельзя: сначала нужно отменить бронь.
func (s *Service) Remove(ctx context.Context, id string, clientID string) error {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, carRepo.ErrCarNotFound) {
			return ErrCarNotFound
		}
		s.logger.Error("Remove: repository error for car=%s: %v", id, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	if car.BelongsToAnother(clientID) {
		s.logger.Warn("Remove: access denied for client=%s to car=%s", clientID, id)
		return ErrAccessDenied
	}

	busy, err := s.bookingRepo.HasActiveFrom(ctx, id, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Remove: failed to check bookings for car=%s: %v", id, err)
		return fmt.Errorf("%w: Remove - check bookings: %v", ErrInternal, err)
	}
	if busy {
		s.logger.Warn("Remove: car=%s has active future bookings", id)
		return ErrCarInUse
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Remove: delete error for car=%s: %v", id, err)
		return fmt.Errorf("%w: Remove - delete: %v", ErrInternal, err)
	}

	s.logger.Info("Remove: car=%s deleted", id)

	return nil
}

// NormalizePlate приводит госномер к каноническому виду:
// верхний регистр, без пробелов и дефисов
func NormalizePlate(plate string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(plate))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}
