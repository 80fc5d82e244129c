// Package txmanager менеджер сериализуемых транзакций поверх dbmetrics.DB.
// Используется для операций, чувствительных к гонкам (создание/перенос брони):
// две конкурентные транзакции не могут одновременно увидеть слот свободным.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
)

// ErrSerializationFailure возвращается, когда транзакция дважды подряд
// отклонена из-за конфликта сериализации (SQLSTATE 40001).
// Вызывающий код трактует это как конфликт слота.
var ErrSerializationFailure = errors.New("txmanager: serialization failure")

// maxAttempts: одна повторная попытка при конфликте сериализации, не больше,
// чтобы не раздувать латентность под нагрузкой
const maxAttempts = 2

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри serializable-транзакции
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции с уровнем изоляции SERIALIZABLE.
// Executor транзакции кладется в контекст — репозитории подхватывают его через
// dbmetrics.GetExecutor. При конфликте сериализации делается ровно одна повторная
// попытка; вторая неудача возвращает ErrSerializationFailure.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if IsSerializationFailure(err) {
			lastErr = err
			continue
		}

		return err
	}

	return fmt.Errorf("%w: %v", ErrSerializationFailure, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit transaction: %w", err)
	}

	return nil
}

// IsSerializationFailure проверяет, является ли ошибка конфликтом
// сериализации PostgreSQL (SQLSTATE 40001)
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001"
	}
	return false
}
