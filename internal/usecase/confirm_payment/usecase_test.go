package confirm_payment

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
	createErr        error
	created          *domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = "booking-7"
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetOverlapping(ctx context.Context, filter domain.OverlapFilter, interval domain.TimeInterval) ([]*domain.Booking, error) {
	if filter.UserID != nil {
		return f.userOverlaps, nil
	}
	return f.resourceOverlaps, nil
}

type fakeEventRepo struct {
	seen      map[string]bool
	markErr   error
	markCalls []string
}

func (f *fakeEventRepo) MarkProcessed(ctx context.Context, eventID string, eventType string) (bool, error) {
	f.markCalls = append(f.markCalls, eventID)
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.seen[eventID] {
		return false, nil
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[eventID] = true
	return true, nil
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
	dropReasons    []string
}

func (f *fakeMetrics) BookingCreated(source string)      { f.createdSources = append(f.createdSources, source) }
func (f *fakeMetrics) ConfirmationDropped(reason string) { f.dropReasons = append(f.dropReasons, reason) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

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
		EventID:      "evt-1",
		EventType:    "checkout.session.completed",
		UserID:       "user-1",
		BarbershopID: "shop-1",
		ServiceID:    "svc-1",
		StartAt:      time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}
}

func newTestUseCase(repo *fakeBookingRepo, events *fakeEventRepo, catalog *fakeCatalog, m *fakeMetrics) *UseCase {
	return NewUseCase(repo, events, catalog, passthroughTxManager{}, m, nopLogger{})
}

func TestUseCase_Execute_CreatesBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	events := &fakeEventRepo{}
	m := &fakeMetrics{}
	uc := newTestUseCase(repo, events, validCatalog(), m)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, resp.Outcome)
	assert.Equal(t, "booking-7", resp.BookingID)
	assert.Equal(t, []string{domain.SourceWebhook}, m.createdSources)
	assert.Empty(t, m.dropReasons)

	require.NotNil(t, repo.created)
	assert.Equal(t, "user-1", repo.created.UserID)
	assert.Equal(t, "Navalha de Ouro", repo.created.BarbershopName)
	assert.Equal(t, int64(4500), repo.created.PriceInCents)
}

func TestUseCase_Execute_DuplicateDelivery(t *testing.T) {
	repo := &fakeBookingRepo{}
	events := &fakeEventRepo{seen: map[string]bool{"evt-1": true}}
	m := &fakeMetrics{}
	uc := newTestUseCase(repo, events, validCatalog(), m)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, resp.Outcome)
	assert.Nil(t, repo.created, "a replay must not create a second booking")
	assert.Empty(t, m.createdSources)
}

func TestUseCase_Execute_DropsOnConflict(t *testing.T) {
	tests := []struct {
		name       string
		repo       *fakeBookingRepo
		wantReason string
	}{
		{
			name:       "user conflict",
			repo:       &fakeBookingRepo{userOverlaps: []*domain.Booking{{}}},
			wantReason: DropReasonUserConflict,
		},
		{
			name:       "slot taken",
			repo:       &fakeBookingRepo{resourceOverlaps: []*domain.Booking{{}}},
			wantReason: DropReasonSlotTaken,
		},
		{
			name:       "user constraint race",
			repo:       &fakeBookingRepo{createErr: bookingRepo.ErrUserSlotTaken},
			wantReason: DropReasonUserConflict,
		},
		{
			name:       "slot constraint race",
			repo:       &fakeBookingRepo{createErr: bookingRepo.ErrSlotTaken},
			wantReason: DropReasonSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEventRepo{}
			m := &fakeMetrics{}
			uc := newTestUseCase(tt.repo, events, validCatalog(), m)

			resp, err := uc.Execute(context.Background(), validRequest())

			// Оплата сохранена, доставка подтверждена; нет только
			// бронирования.
			require.NoError(t, err)
			assert.Equal(t, OutcomeDropped, resp.Outcome)
			assert.Equal(t, tt.wantReason, resp.DropReason)
			assert.Equal(t, []string{tt.wantReason}, m.dropReasons)
			assert.Empty(t, m.createdSources)

			// Событие остаётся отмеченным, повтор должен стать дубликатом.
			assert.Equal(t, []string{"evt-1"}, events.markCalls)
		})
	}
}

func TestUseCase_Execute_DropsWhenCatalogRecordGone(t *testing.T) {
	catalog := validCatalog()
	catalog.serviceErr = catalogservice.ErrServiceNotFound
	events := &fakeEventRepo{}
	m := &fakeMetrics{}
	uc := newTestUseCase(&fakeBookingRepo{}, events, catalog, m)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, resp.Outcome)
	assert.Equal(t, DropReasonServiceMissing, resp.DropReason)
	assert.Empty(t, events.markCalls, "the event stays unmarked before the transaction")
}

func TestUseCase_Execute_MetadataShopMismatchDrops(t *testing.T) {
	catalog := validCatalog()
	catalog.service.BarbershopID = "shop-2"
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeEventRepo{}, catalog, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, resp.Outcome)
	assert.Equal(t, DropReasonServiceMissing, resp.DropReason)
}

func TestUseCase_Execute_TransientFailuresAreRetryable(t *testing.T) {
	t.Run("catalog unavailable", func(t *testing.T) {
		catalog := validCatalog()
		catalog.serviceErr = errors.New("connection refused")
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeEventRepo{}, catalog, &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("event store failure", func(t *testing.T) {
		events := &fakeEventRepo{markErr: errors.New("deadlock detected")}
		uc := newTestUseCase(&fakeBookingRepo{}, events, validCatalog(), &fakeMetrics{})

		_, err := uc.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUseCase_Execute_RejectsIncompleteMetadata(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "missing event id", mutate: func(r *Request) { r.EventID = "" }},
		{name: "missing user", mutate: func(r *Request) { r.UserID = "" }},
		{name: "missing barbershop", mutate: func(r *Request) { r.BarbershopID = "" }},
		{name: "missing service", mutate: func(r *Request) { r.ServiceID = "" }},
		{name: "zero date", mutate: func(r *Request) { r.StartAt = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeBookingRepo{}, &fakeEventRepo{}, validCatalog(), &fakeMetrics{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
