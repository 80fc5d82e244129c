// Package bays административное управление боксами: закрытие с причиной
// и повторное открытие. Закрытие не трогает существующие брони —
// новые записи в закрытый бокс отводятся в лист ожидания воротами вместимости.
package bays

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bayRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/bay"
)

// Service сервис управления боксами
type Service struct {
	bayRepo      BayRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса боксов
func NewService(bayRepo BayRepository, notifier Notifier, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bayRepo:      bayRepo,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// List получает боксы локации
func (s *Service) List(ctx context.Context, locationID string) ([]*domain.Bay, error) {
	if _, err := s.bayRepo.GetLocation(ctx, locationID); err != nil {
		if errors.Is(err, bayRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("%w: List - get location: %v", ErrInternal, err)
	}

	bays, err := s.bayRepo.ListBays(ctx, locationID)
	if err != nil {
		s.logger.Error("List: repository error for location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return bays, nil
}

// SetState открывает или закрывает бокс. Закрытие требует непустую причину.
// Повторное закрытие закрытого бокса обновляет причину и время закрытия.
func (s *Service) SetState(ctx context.Context, locationID string, number int, isActive bool, reason string) (*domain.Bay, error) {
	now := s.timeProvider.Now()

	if isActive {
		if err := s.bayRepo.Reopen(ctx, locationID, number, now); err != nil {
			return nil, s.mapUpdateError("SetState", locationID, number, err)
		}
		s.logger.Info("SetState: bay reopened, location=%s bay=%d", locationID, number)
	} else {
		if strings.TrimSpace(reason) == "" {
			s.logger.Warn("SetState: close without reason, location=%s bay=%d", locationID, number)
			return nil, ErrReasonRequired
		}
		if err := s.bayRepo.Close(ctx, locationID, number, reason, now); err != nil {
			return nil, s.mapUpdateError("SetState", locationID, number, err)
		}
		s.logger.Info("SetState: bay closed, location=%s bay=%d reason=%s", locationID, number, reason)
	}

	s.notifier.NotifyBayChanged(ctx, locationID, number)

	bay, err := s.bayRepo.GetBay(ctx, locationID, number)
	if err != nil {
		return nil, fmt.Errorf("%w: SetState - reload bay: %v", ErrInternal, err)
	}

	return bay, nil
}

func (s *Service) mapUpdateError(op string, locationID string, number int, err error) error {
	if errors.Is(err, bayRepo.ErrBayNotFound) {
		s.logger.Warn("%s: bay not found, location=%s bay=%d", op, locationID, number)
		return ErrBayNotFound
	}
	s.logger.Error("%s: repository error, location=%s bay=%d: %v", op, locationID, number, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
