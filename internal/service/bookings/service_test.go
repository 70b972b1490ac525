package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
)

type fakeRepo struct {
	booking     *domain.Booking
	bookings    []*domain.Booking
	getErr      error
	listErr     error
	cancelErr   error
	cancelCalls int
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeRepo) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bookings, nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id string, userID string) error {
	f.cancelCalls++
	return f.cancelErr
}

type fakeMetrics struct {
	cancelled int
}

func (f *fakeMetrics) BookingCancelled() { f.cancelled++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func ownBooking() *domain.Booking {
	return &domain.Booking{
		ID:             "booking-1",
		UserID:         "user-1",
		BarbershopID:   "shop-1",
		ServiceID:      "svc-1",
		StartAt:        time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		BarbershopName: "Navalha de Ouro",
		ServiceName:    "Corte de cabelo",
	}
}

func TestService_GetByID(t *testing.T) {
	t.Run("owner sees the booking", func(t *testing.T) {
		svc := NewService(&fakeRepo{booking: ownBooking()}, &fakeMetrics{}, nopLogger{})

		resp, err := svc.GetByID(context.Background(), "booking-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, "booking-1", resp.ID)
		assert.Equal(t, "Navalha de Ouro", resp.BarbershopName)
	})

	t.Run("another user's booking reads as missing", func(t *testing.T) {
		svc := NewService(&fakeRepo{booking: ownBooking()}, &fakeMetrics{}, nopLogger{})

		_, err := svc.GetByID(context.Background(), "booking-1", "user-2")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc := NewService(&fakeRepo{getErr: bookingRepo.ErrBookingNotFound}, &fakeMetrics{}, nopLogger{})

		_, err := svc.GetByID(context.Background(), "booking-x", "user-1")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc := NewService(&fakeRepo{getErr: errors.New("connection reset")}, &fakeMetrics{}, nopLogger{})

		_, err := svc.GetByID(context.Background(), "booking-1", "user-1")

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_GetUserBookings(t *testing.T) {
	cancelled := ownBooking()
	cancelled.Cancelled = true

	svc := NewService(&fakeRepo{bookings: []*domain.Booking{ownBooking(), cancelled}}, &fakeMetrics{}, nopLogger{})

	resp, err := svc.GetUserBookings(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.False(t, resp.Bookings[0].Cancelled)
	assert.True(t, resp.Bookings[1].Cancelled, "history includes cancelled bookings")
}

func TestService_Cancel(t *testing.T) {
	t.Run("success reports the metric", func(t *testing.T) {
		repo := &fakeRepo{}
		m := &fakeMetrics{}
		svc := NewService(repo, m, nopLogger{})

		err := svc.Cancel(context.Background(), "booking-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, 1, repo.cancelCalls)
		assert.Equal(t, 1, m.cancelled)
	})

	t.Run("not found or not owner", func(t *testing.T) {
		m := &fakeMetrics{}
		svc := NewService(&fakeRepo{cancelErr: bookingRepo.ErrBookingNotFound}, m, nopLogger{})

		err := svc.Cancel(context.Background(), "booking-1", "user-2")

		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Zero(t, m.cancelled)
	})

	t.Run("missing ids", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeMetrics{}, nopLogger{})

		err := svc.Cancel(context.Background(), "", "user-1")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
