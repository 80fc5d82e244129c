// Package simpletxmanager менеджер сериализуемых транзакций поверх *sql.DB
// без сбора метрик. Семантика идентична pkg/txmanager.
package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

const maxAttempts = 2

// TransactionManager выполняет функции внутри serializable-транзакции
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри SERIALIZABLE-транзакции с одной повторной
// попыткой при конфликте сериализации. См. txmanager.DoSerializable.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if txmanager.IsSerializationFailure(err) {
			lastErr = err
			continue
		}

		return err
	}

	return fmt.Errorf("%w: %v", txmanager.ErrSerializationFailure, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("simpletxmanager: begin transaction: %w", err)
	}

	var txExec dbmetrics.TxExecutor = tx
	txCtx := dbmetrics.WithExecutor(ctx, txExec)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("simpletxmanager: commit transaction: %w", err)
	}

	return nil
}
