// Package waitlist операции над листом ожидания: создание отведенной заявки,
// просмотр и отмена клиентом. Конвертация заявки в бронь живет
// в usecase-слое: ей нужна сериализуемая транзакция.
package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/waitlist"
)

// Service сервис листа ожидания
type Service struct {
	waitlistRepo WaitlistRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(waitlistRepo WaitlistRepository, logger Logger) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		logger:       logger,
	}
}

// CreateDiverted создает заявку по отводу из ворот вместимости.
// Желаемый бокс фиксируется как просил клиент: конкретный номер или любой.
func (s *Service) CreateDiverted(ctx context.Context, request *domain.WaitlistRequest) (*domain.WaitlistRequest, error) {
	request.Status = domain.WaitlistWaiting

	created, err := s.waitlistRepo.Create(ctx, request)
	if err != nil {
		s.logger.Error("CreateDiverted: repository error, location=%s client=%s: %v",
			request.LocationID, request.ClientID, err)
		return nil, fmt.Errorf("%w: CreateDiverted - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDiverted: request=%s created, location=%s reason=%s",
		created.ID, created.LocationID, created.Reason)

	return created, nil
}

// ListByClient получает заявки клиента
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*domain.WaitlistRequest, error) {
	requests, err := s.waitlistRepo.ListByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	return requests, nil
}

// CancelByClient отменяет заявку клиента. Повторная отмена идемпотентна,
// сконвертированную заявку отменить нельзя.
func (s *Service) CancelByClient(ctx context.Context, id string, clientID string) (*domain.WaitlistRequest, error) {
	request, err := s.getOwned(ctx, id, clientID, "CancelByClient")
	if err != nil {
		return nil, err
	}

	if request.Status == domain.WaitlistCanceled {
		s.logger.Info("CancelByClient: request=%s already canceled", id)
		return request, nil
	}
	if !request.IsWaiting() {
		s.logger.Warn("CancelByClient: request=%s is not waiting, status=%s", id, request.Status)
		return nil, ErrNotWaiting
	}

	if err := s.waitlistRepo.Cancel(ctx, id, domain.WaitlistReasonClientCanceled); err != nil {
		s.logger.Error("CancelByClient: repository error for request=%s: %v", id, err)
		return nil, fmt.Errorf("%w: CancelByClient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelByClient: request=%s canceled by client=%s", id, clientID)

	return s.reload(ctx, id)
}

// GetOwned получает заявку с проверкой принадлежности клиенту
func (s *Service) GetOwned(ctx context.Context, id string, clientID string) (*domain.WaitlistRequest, error) {
	return s.getOwned(ctx, id, clientID, "GetOwned")
}

func (s *Service) getOwned(ctx context.Context, id string, clientID string, op string) (*domain.WaitlistRequest, error) {
	request, err := s.waitlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrRequestNotFound) {
			s.logger.Warn("%s: request=%s not found", op, id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("%s: repository error for request=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if request.ClientID != clientID {
		s.logger.Warn("%s: access denied for client=%s to request=%s", op, clientID, id)
		return nil, ErrAccessDenied
	}
	return request, nil
}

func (s *Service) reload(ctx context.Context, id string) (*domain.WaitlistRequest, error) {
	request, err := s.waitlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: reload request: %v", ErrInternal, err)
	}
	return request, nil
}
