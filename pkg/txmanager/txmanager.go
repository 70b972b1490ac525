// Package txmanager выполняет функции внутри транзакций базы данных,
// передаваемых через контекст, поверх инструментированного dbmetrics.DB
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
)

const serializableRetries = 3

// ErrTransaction оборачивает ошибки begin и commit
var ErrTransaction = errors.New("txmanager: transaction error")

// TransactionManager открывает транзакции на инструментированном DB и
// кладёт их в контекст, передаваемый в fn
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает новый экземпляр менеджера транзакций
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции чтения-записи с изоляцией по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return run(ctx, m.db, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return run(ctx, m.db, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции с ограниченным
// числом повторов при ошибках сериализации и дедлоках
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt < serializableRetries; attempt++ {
		err = run(ctx, m.db, opts, fn)
		if !IsSerializationFailure(err) {
			return err
		}
	}
	return err
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

func run(ctx context.Context, db txBeginner, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	// Ошибка pq остаётся в цепочке, чтобы до неё дошёл IsSerializationFailure
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}
	return nil
}

// IsSerializationFailure сообщает, является ли err ошибкой сериализации
// PostgreSQL (40001) или дедлоком (40P01), обе безопасно повторять
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
