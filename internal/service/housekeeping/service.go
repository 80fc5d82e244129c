// Package housekeeping уборка устаревших статусов броней: отмена неоплаченных
// с истекшим дедлайном и автозавершение броней с истекшим блоком.
// Запускается периодически по таймеру и синхронно в начале каждой
// операции чтения/записи, поэтому обязана быть идемпотентной.
package housekeeping

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// Service сервис уборки статусов
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса уборки
func NewService(bookingRepo BookingRepository, notifier Notifier, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Run выполняет один проход уборки. Повторный запуск на тех же данных
// ничего не меняет: просроченные брони уже отменены, истекшие — завершены.
func (s *Service) Run(ctx context.Context) error {
	now := s.timeProvider.Now()

	// 1. Отменяем неоплаченные брони с истекшим дедлайном
	expiredRefs, err := s.bookingRepo.ExpireDuePayments(ctx, now)
	if err != nil {
		s.logger.Error("Run: failed to expire due payments: %v", err)
		return fmt.Errorf("%w: Run - expire due payments: %v", ErrInternal, err)
	}
	if len(expiredRefs) > 0 {
		s.logger.Info("Run: expired %d unpaid bookings", len(expiredRefs))
	}

	// 2. Автозавершаем активные брони, у которых блок полностью в прошлом.
	// Конец блока зависит от допуслуг, поэтому считается здесь, а не в SQL.
	candidates, err := s.bookingRepo.ListAutoCompleteCandidates(ctx, now)
	if err != nil {
		s.logger.Error("Run: failed to list auto-complete candidates: %v", err)
		return fmt.Errorf("%w: Run - list auto-complete candidates: %v", ErrInternal, err)
	}

	completedIDs := make([]string, 0, len(candidates))
	completedRefs := make([]domain.BayRef, 0, len(candidates))
	for _, b := range candidates {
		if !b.IntervalEnd().After(now) {
			completedIDs = append(completedIDs, b.ID)
			completedRefs = append(completedRefs, domain.BayRef{LocationID: b.LocationID, BayNumber: b.BayNumber})
		}
	}

	if len(completedIDs) > 0 {
		if err := s.bookingRepo.CompleteByIDs(ctx, completedIDs); err != nil {
			s.logger.Error("Run: failed to complete %d bookings: %v", len(completedIDs), err)
			return fmt.Errorf("%w: Run - complete bookings: %v", ErrInternal, err)
		}
		s.logger.Info("Run: auto-completed %d bookings", len(completedIDs))
	}

	// 3. Уведомляем затронутые боксы, каждый не более одного раза
	s.notifyUnique(ctx, append(expiredRefs, completedRefs...))

	return nil
}

// notifyUnique рассылает уведомления по уникальным боксам
func (s *Service) notifyUnique(ctx context.Context, refs []domain.BayRef) {
	seen := make(map[domain.BayRef]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		s.notifier.NotifyBayChanged(ctx, ref.LocationID, ref.BayNumber)
	}
}
