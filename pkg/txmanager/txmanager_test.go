package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Barber-BookingService/pkg/metrics"
)

// Коллекторы регистрируются в глобальном реестре prometheus, поэтому
// создаются один раз на весь тестовый бинарник.
var testMetrics = metrics.New("txmanager-test")

// fakeConn эмулирует соединение, у которого Commit по очереди возвращает
// заданные ошибки. Позволяет проверить retry-логику без реальной БД.
type fakeConn struct {
	beginCalls int
	rollbacks  int
	commits    int
	commitErrs []error
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.beginCalls++
	return &fakeTx{conn: c}, nil
}

type fakeTx struct{ conn *fakeConn }

func (t *fakeTx) Commit() error {
	i := t.conn.commits
	t.conn.commits++
	if i < len(t.conn.commitErrs) {
		return t.conn.commitErrs[i]
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	t.conn.rollbacks++
	return nil
}

type fakeConnector struct{ conn *fakeConn }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c *fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use OpenDB") }

func newManager(conn *fakeConn) (*TransactionManager, *sql.DB) {
	db := sql.OpenDB(&fakeConnector{conn: conn})
	db.SetMaxOpenConns(1)
	return NewTransactionManager(dbmetrics.Wrap(db, testMetrics)), db
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	conn := &fakeConn{commitErrs: []error{
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40P01"},
	}}
	m, db := newManager(conn)
	defer db.Close()

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 3, conn.beginCalls)
}

func TestDoSerializable_GivesUpAfterBoundedRetries(t *testing.T) {
	conn := &fakeConn{commitErrs: []error{
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
	}}
	m, db := newManager(conn)
	defer db.Close()

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, 3, conn.beginCalls)
}

func TestDoSerializable_FnErrorRollsBackWithoutRetry(t *testing.T) {
	conn := &fakeConn{}
	m, db := newManager(conn)
	defer db.Close()

	errBusiness := errors.New("slot taken")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return errBusiness })

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, conn.beginCalls)
	assert.Equal(t, 1, conn.rollbacks)
}

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{
			// Обёртка commit-пути run(): код должен остаться доступным.
			name: "wrapped commit error",
			err:  fmt.Errorf("%w: commit: %w", ErrTransaction, &pq.Error{Code: "40001"}),
			want: true,
		},
		{
			// Обёртка ошибки запроса в репозитории поверх обёртки use case.
			name: "double-wrapped statement error",
			err: fmt.Errorf("internal error: %w",
				fmt.Errorf("storage: failed to execute query: %w", &pq.Error{Code: "40P01"})),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}
