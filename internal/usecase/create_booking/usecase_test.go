package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
)

type fakeBookingRepo struct {
	userOverlaps     []*domain.Booking
	resourceOverlaps []*domain.Booking
	overlapErr       error
	createErr        error
	created          *domain.Booking
	overlapCalls     []domain.OverlapFilter

	// userOverlapsAfterCreate моделирует гонку: параллельная запись стала
	// видна только после того, как Create упал на уникальном индексе.
	createCalled            bool
	userOverlapsAfterCreate []*domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = "booking-1"
	created.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetOverlapping(ctx context.Context, filter domain.OverlapFilter, interval domain.TimeInterval) ([]*domain.Booking, error) {
	f.overlapCalls = append(f.overlapCalls, filter)
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	if filter.UserID != nil {
		if f.createCalled && f.userOverlapsAfterCreate != nil {
			return f.userOverlapsAfterCreate, nil
		}
		return f.userOverlaps, nil
	}
	return f.resourceOverlaps, nil
}

type fakeCatalog struct {
	barbershop    *catalogservice.Barbershop
	service       *catalogservice.Service
	barbershopErr error
	serviceErr    error
}

func (f *fakeCatalog) GetBarbershop(ctx context.Context, id string) (*catalogservice.Barbershop, error) {
	if f.barbershopErr != nil {
		return nil, f.barbershopErr
	}
	return f.barbershop, nil
}

func (f *fakeCatalog) GetService(ctx context.Context, id string) (*catalogservice.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	createdSources []string
}

func (f *fakeMetrics) BookingCreated(source string) {
	f.createdSources = append(f.createdSources, source)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeBookingRepo, catalog *fakeCatalog, m *fakeMetrics) *UseCase {
	uc := NewUseCase(repo, catalog, passthroughTxManager{}, m, nopLogger{})
	uc.timeProvider = fixedClock{now: testNow}
	return uc
}

func validCatalog() *fakeCatalog {
	return &fakeCatalog{
		barbershop: &catalogservice.Barbershop{ID: "shop-1", Name: "Navalha de Ouro"},
		service: &catalogservice.Service{
			ID:              "svc-1",
			BarbershopID:    "shop-1",
			Name:            "Corte de cabelo",
			PriceInCents:    4500,
			DurationMinutes: 30,
		},
	}
}

func validRequest() *Request {
	return &Request{
		UserID:       "user-1",
		BarbershopID: "shop-1",
		ServiceID:    "svc-1",
		StartAt:      testNow.Add(24 * time.Hour),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	m := &fakeMetrics{}
	uc := newTestUseCase(repo, validCatalog(), m)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Navalha de Ouro", resp.BarbershopName)
	assert.Equal(t, "Corte de cabelo", resp.ServiceName)
	assert.Equal(t, int64(4500), resp.PriceInCents)
	assert.Equal(t, []string{domain.SourceDirect}, m.createdSources)

	// Денормализованные данные каталога должны попасть и в сохранённую строку.
	require.NotNil(t, repo.created)
	assert.Equal(t, "Navalha de Ouro", repo.created.BarbershopName)
}

func TestUseCase_Execute_UserConflictWins(t *testing.T) {
	conflictStart := testNow.Add(24 * time.Hour)
	repo := &fakeBookingRepo{
		userOverlaps: []*domain.Booking{{
			BarbershopName: "Outro Salão",
			ServiceName:    "Barba",
			StartAt:        conflictStart,
		}},
		// Нарушены оба правила; отдано должно быть пользовательское.
		resourceOverlaps: []*domain.Booking{{}},
	}
	uc := newTestUseCase(repo, validCatalog(), &fakeMetrics{})

	_, err := uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrUserBookingConflict)

	var conflict *UserConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Outro Salão", conflict.Conflicting.BarbershopName)
	assert.Equal(t, "Barba", conflict.Conflicting.ServiceName)
	assert.Equal(t, conflictStart, conflict.Conflicting.StartAt)

	// Ресурсное правило не должно было проверяться.
	require.Len(t, repo.overlapCalls, 1)
	assert.NotNil(t, repo.overlapCalls[0].UserID)
}

func TestUseCase_Execute_SlotTaken(t *testing.T) {
	repo := &fakeBookingRepo{
		resourceOverlaps: []*domain.Booking{{StartAt: testNow.Add(24 * time.Hour)}},
	}
	uc := newTestUseCase(repo, validCatalog(), &fakeMetrics{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	require.Len(t, repo.overlapCalls, 2)
	assert.NotNil(t, repo.overlapCalls[0].UserID)
	assert.NotNil(t, repo.overlapCalls[1].Resource)
}

func TestUseCase_Execute_ConstraintRace(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		wantErr   error
	}{
		{name: "resource constraint", createErr: bookingRepo.ErrSlotTaken, wantErr: ErrSlotNotAvailable},
		{name: "user constraint", createErr: bookingRepo.ErrUserSlotTaken, wantErr: ErrUserBookingConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{createErr: tt.createErr}
			uc := newTestUseCase(repo, validCatalog(), &fakeMetrics{})

			_, err := uc.Execute(context.Background(), validRequest())

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_ConstraintRaceReportsWinner(t *testing.T) {
	conflictStart := testNow.Add(24 * time.Hour)
	repo := &fakeBookingRepo{
		createErr: bookingRepo.ErrUserSlotTaken,
		userOverlapsAfterCreate: []*domain.Booking{{
			BarbershopName: "Outro Salão",
			ServiceName:    "Barba",
			StartAt:        conflictStart,
		}},
	}
	uc := newTestUseCase(repo, validCatalog(), &fakeMetrics{})

	_, err := uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrUserBookingConflict)

	// Бронирование, выигравшее гонку, должно попасть в payload конфликта.
	var conflict *UserConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Outro Salão", conflict.Conflicting.BarbershopName)
	assert.Equal(t, "Barba", conflict.Conflicting.ServiceName)
	assert.Equal(t, conflictStart, conflict.Conflicting.StartAt)

	// Три чтения: правило A, правило B и дочитывание после гонки.
	require.Len(t, repo.overlapCalls, 3)
	assert.NotNil(t, repo.overlapCalls[2].UserID)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{name: "missing user", mutate: func(r *Request) { r.UserID = "" }, wantErr: ErrInvalidInput},
		{name: "missing barbershop", mutate: func(r *Request) { r.BarbershopID = "" }, wantErr: ErrInvalidInput},
		{name: "missing service", mutate: func(r *Request) { r.ServiceID = "" }, wantErr: ErrInvalidInput},
		{name: "zero date", mutate: func(r *Request) { r.StartAt = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "past date", mutate: func(r *Request) { r.StartAt = testNow.Add(-time.Hour) }, wantErr: ErrInvalidDate},
		{name: "start exactly now", mutate: func(r *Request) { r.StartAt = testNow }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeBookingRepo{}, validCatalog(), &fakeMetrics{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUseCase_Execute_CatalogErrors(t *testing.T) {
	t.Run("service not found", func(t *testing.T) {
		catalog := validCatalog()
		catalog.serviceErr = catalogservice.ErrServiceNotFound
		uc := newTestUseCase(&fakeBookingRepo{}, catalog, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service from another barbershop", func(t *testing.T) {
		catalog := validCatalog()
		catalog.service.BarbershopID = "shop-2"
		uc := newTestUseCase(&fakeBookingRepo{}, catalog, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("barbershop not found", func(t *testing.T) {
		catalog := validCatalog()
		catalog.barbershopErr = catalogservice.ErrBarbershopNotFound
		uc := newTestUseCase(&fakeBookingRepo{}, catalog, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrBarbershopNotFound)
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		catalog := validCatalog()
		catalog.serviceErr = errors.New("connection refused")
		uc := newTestUseCase(&fakeBookingRepo{}, catalog, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUseCase_Execute_DefaultDuration(t *testing.T) {
	catalog := validCatalog()
	catalog.service.DurationMinutes = 0
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, catalog, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.DurationMinutes)
}
