// Package event хранит идентификаторы уже обработанных событий платёжного
// вебхука. Провайдер доставляет at-least-once; запись id события в одной
// транзакции с бронированием делает каждую доставку exactly-once с точки
// зрения реестра
package event

import (
	"context"
	"fmt"

	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Barber-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с обработанными событиями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// MarkProcessed записывает id события и сообщает, был ли этот вызов первым.
// false означает, что событие уже обрабатывалось и доставка повторная.
// Выполняется в транзакции из контекста, если она есть, так что отметка
// коммитится или откатывается вместе с записью бронирования
func (r *Repository) MarkProcessed(ctx context.Context, eventID string, eventType string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("processed_events").
		Columns("id", "event_type").
		Values(eventID, eventType).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
