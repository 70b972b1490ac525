package booking

import (
	"context"
	"database/sql"

	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
)

// Интерфейсы исполнителей запросов общие с dbmetrics, поэтому репозиторий
// работает поверх *sql.DB, инструментированной обёртки и открытых транзакций
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner открывает транзакции; реализуется *dbmetrics.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
