package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Barber-BookingService/pkg/psqlbuilder"
)

// Имена частичных уникальных индексов, охраняющих два правила конфликтов.
// Оба исключают отменённые строки, так что отмена освобождает слот
const (
	constraintResourceSlot = "bookings_resource_slot_uniq"
	constraintUserSlot     = "bookings_user_slot_uniq"
)

const pqUniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"user_id",
	"barbershop_id",
	"service_id",
	"start_at",
	"duration_minutes",
	"cancelled",
	"barbershop_name",
	"service_name",
	"price_in_cents",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новое неотменённое бронирование и возвращает его с
// заполненными полями хранилища.
//
// Частичные уникальные индексы по (barbershop_id, service_id, start_at) и
// (user_id, start_at) это авторитетная защита от конфликтов: два
// параллельных запроса, прошедших проверку use case, не могут закоммититься
// оба. Нарушения уникальности мапятся в ErrSlotTaken / ErrUserSlotTaken,
// чтобы вызывающие отдавали их как обычные конфликты
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"user_id",
			"barbershop_id",
			"service_id",
			"start_at",
			"duration_minutes",
			"cancelled",
			"barbershop_name",
			"service_name",
			"price_in_cents",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.BarbershopID,
			booking.ServiceID,
			booking.StartAt,
			booking.DurationMinutes,
			false,
			booking.BarbershopName,
			booking.ServiceName,
			booking.PriceInCents,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if conflictErr := mapUniqueViolation(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.Cancelled = false
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по идентификатору
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID возвращает бронирования пользователя, новые первыми.
// Отменённые включены; кому нужны только активные, фильтрует по флагу
func (r *Repository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetOverlapping возвращает активные бронирования, чей занятый интервал
// пересекается с заданным полуоткрытым интервалом, по фильтру: по владельцу
// (правило самоконфликта) или по ресурсу (барбершоп, услуга).
//
// Предикат пересечения это полный интервальный тест, а не равенство времён
// начала, поэтому он остаётся верным при разных длительностях услуг. Внутри
// транзакции строки блокируются FOR UPDATE, и последовательность
// проверка-вставка сериализуется с параллельными записями
func (r *Repository) GetOverlapping(ctx context.Context, filter domain.OverlapFilter, interval domain.TimeInterval) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"cancelled": false}).
		Where(squirrel.Lt{"start_at": interval.End}).
		Where(squirrel.Expr("start_at + duration_minutes * interval '1 minute' > ?", interval.Start))

	switch {
	case filter.UserID != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	case filter.Resource != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{
			"barbershop_id": filter.Resource.BarbershopID,
			"service_id":    filter.Resource.ServiceID,
		})
	default:
		return nil, fmt.Errorf("%w: GetOverlapping - filter must select by user or resource", ErrBuildQuery)
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetOccupiedSlots возвращает занятые интервалы активных бронирований в
// окне дня, для ресурса и/или пользователя. Когда заданы оба, результат это
// объединение, зеркально двум правилам конфликтов. Возвращаются полные
// интервалы, а не только начала: бронирование длиннее шага сетки занимает
// каждый слот, который накрывает его хвост
func (r *Repository) GetOccupiedSlots(ctx context.Context, q domain.OccupiedSlotsQuery) ([]domain.TimeInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	identity := make(squirrel.Or, 0, 2)
	if q.Resource != nil {
		identity = append(identity, squirrel.Eq{
			"barbershop_id": q.Resource.BarbershopID,
			"service_id":    q.Resource.ServiceID,
		})
	}
	if q.UserID != nil {
		identity = append(identity, squirrel.Eq{"user_id": *q.UserID})
	}
	if len(identity) == 0 {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - query must select a resource or a user", ErrBuildQuery)
	}

	query, args, err := psqlbuilder.Select("start_at", "duration_minutes").
		From("bookings").
		Where(squirrel.Eq{"cancelled": false}).
		Where(squirrel.GtOrEq{"start_at": q.DayStart}).
		Where(squirrel.LtOrEq{"start_at": q.DayEnd}).
		Where(identity).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.TimeInterval, 0)
	for rows.Next() {
		var startAt time.Time
		var duration int
		if err := rows.Scan(&startAt, &duration); err != nil {
			return nil, fmt.Errorf("%w: GetOccupiedSlots - scan booking interval: %w", ErrScanRow, err)
		}
		if duration <= 0 {
			duration = domain.DefaultSlotDurationMinutes
		}
		intervals = append(intervals, domain.NewTimeInterval(startAt, duration))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// Cancel мягко удаляет бронирование от имени владельца. Несуществующее и
// чужое бронирование для вызывающего неразличимы: оба отдают
// ErrBookingNotFound. Отмена уже отменённого успешна; флаг односторонний
func (r *Repository) Cancel(ctx context.Context, id string, userID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("cancelled", true).
		Set("cancelled_at", squirrel.Expr("COALESCE(cancelled_at, NOW())")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// mapUniqueViolation конвертирует нарушение уникального индекса в
// соответствующую ошибку конфликта, для прочих ошибок возвращает nil
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case constraintUserSlot:
		return ErrUserSlotTaken
	case constraintResourceSlot:
		return ErrSlotTaken
	default:
		return ErrSlotTaken
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingFields(row rowScanner, b *domain.Booking) error {
	var cancelledAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.BarbershopID,
		&b.ServiceID,
		&b.StartAt,
		&b.DurationMinutes,
		&b.Cancelled,
		&b.BarbershopName,
		&b.ServiceName,
		&b.PriceInCents,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return err
	}

	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanBookingFields(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		if err := scanBookingFields(rows, &b); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
