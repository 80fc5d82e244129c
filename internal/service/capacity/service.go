// Package capacity ворота вместимости: решает, можно ли записать клиента
// в запрошенный бокс или запись нужно отвести в лист ожидания.
package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bayRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/bay"
)

// Diversion решение об отводе записи в лист ожидания вместо создания брони.
// Отвод — не ошибка: клиент получает заявку в листе ожидания.
type Diversion struct {
	Reason string
}

// Service сервис проверки вместимости
type Service struct {
	bayRepo BayRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса вместимости
func NewService(bayRepo BayRepository, logger Logger) *Service {
	return &Service{
		bayRepo: bayRepo,
		logger:  logger,
	}
}

// Check проверяет доступность бокса для новой брони.
// Возвращает nil, nil если бокс открыт; *Diversion — если запись нужно
// отвести в лист ожидания; ошибку — если локация не существует.
func (s *Service) Check(ctx context.Context, locationID string, bayNumber int) (*Diversion, error) {
	if _, err := s.bayRepo.GetLocation(ctx, locationID); err != nil {
		if errors.Is(err, bayRepo.ErrLocationNotFound) {
			s.logger.Warn("Check: location=%s not found", locationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("Check: failed to get location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: Check - get location: %v", ErrInternal, err)
	}

	// 1. Вся локация без открытых боксов — отвод независимо от запрошенного бокса
	activeCount, err := s.bayRepo.CountActiveBays(ctx, locationID)
	if err != nil {
		s.logger.Error("Check: failed to count active bays, location=%s: %v", locationID, err)
		return nil, fmt.Errorf("%w: Check - count active bays: %v", ErrInternal, err)
	}
	if activeCount == 0 {
		s.logger.Info("Check: all bays closed, location=%s", locationID)
		return &Diversion{Reason: domain.WaitlistReasonAllBaysClosed}, nil
	}

	// 2. Конкретный бокс закрыт или отсутствует
	bay, err := s.bayRepo.GetBay(ctx, locationID, bayNumber)
	if err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			s.logger.Info("Check: bay=%d missing, location=%s", bayNumber, locationID)
			return &Diversion{Reason: domain.WaitlistReasonBayClosed}, nil
		}
		s.logger.Error("Check: failed to get bay, location=%s bay=%d: %v", locationID, bayNumber, err)
		return nil, fmt.Errorf("%w: Check - get bay: %v", ErrInternal, err)
	}
	if !bay.IsActive {
		reason := domain.WaitlistReasonBayClosed
		if bay.ClosedReason != nil && *bay.ClosedReason != "" {
			reason = *bay.ClosedReason
		}
		s.logger.Info("Check: bay closed, location=%s bay=%d reason=%s", locationID, bayNumber, reason)
		return &Diversion{Reason: reason}, nil
	}

	return nil, nil
}

// RequireBayActive проверяет, что бокс существует и открыт.
// Используется при старте обслуживания, переносе на другой бокс
// и конвертации из листа ожидания — там отвод невозможен.
func (s *Service) RequireBayActive(ctx context.Context, locationID string, bayNumber int) error {
	bay, err := s.bayRepo.GetBay(ctx, locationID, bayNumber)
	if err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			s.logger.Warn("RequireBayActive: bay not found, location=%s bay=%d", locationID, bayNumber)
			return ErrBayNotFound
		}
		s.logger.Error("RequireBayActive: failed to get bay, location=%s bay=%d: %v", locationID, bayNumber, err)
		return fmt.Errorf("%w: RequireBayActive - get bay: %v", ErrInternal, err)
	}
	if !bay.IsActive {
		s.logger.Warn("RequireBayActive: bay inactive, location=%s bay=%d", locationID, bayNumber)
		return ErrBayInactive
	}

	return nil
}
