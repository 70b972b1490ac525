package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Barber-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/Barber-BookingService/internal/usecase/create_booking"
)

type fakeUseCase struct {
	resp    *createBooking.Response
	err     error
	lastReq *createBooking.Request
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc *fakeUseCase, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

const validBody = `{"barbershopId": "shop-1", "serviceId": "svc-1", "date": "2026-09-15T10:30:00Z"}`

func TestHandler_Created(t *testing.T) {
	start := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              "booking-1",
		UserID:          "user-1",
		BarbershopID:    "shop-1",
		ServiceID:       "svc-1",
		StartAt:         start,
		DurationMinutes: 30,
		BarbershopName:  "Navalha de Ouro",
		ServiceName:     "Corte de cabelo",
		PriceInCents:    4500,
		CreatedAt:       start.Add(-time.Hour),
		UpdatedAt:       start.Add(-time.Hour),
	}}

	rec := doRequest(t, uc, "user-1", validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "2026-09-15T10:30:00Z", resp.Date)

	// Личность берётся из сессии, а не из тела запроса.
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "user-1", uc.lastReq.UserID)
	assert.Equal(t, start, uc.lastReq.StartAt)
}

func TestHandler_UserConflictPayload(t *testing.T) {
	conflictStart := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{err: &createBooking.UserConflictError{
		Conflicting: createBooking.ConflictingBooking{
			BarbershopName: "Outro Salão",
			ServiceName:    "Barba",
			StartAt:        conflictStart,
		},
	}}

	rec := doRequest(t, uc, "user-1", validBody)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "USER_BOOKING_CONFLICT", resp.Error)
	assert.Equal(t, "Outro Salão", resp.Conflict.BarbershopName)
	assert.Equal(t, "Barba", resp.Conflict.ServiceName)
	assert.Equal(t, "2026-09-15T10:00:00Z", resp.Conflict.Date)
}

func TestHandler_SlotUnavailable(t *testing.T) {
	uc := &fakeUseCase{err: createBooking.ErrSlotNotAvailable}

	rec := doRequest(t, uc, "user-1", validBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error": "TIME_SLOT_UNAVAILABLE"}`, rec.Body.String())
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "barbershop not found", err: createBooking.ErrBarbershopNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", err: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "past date", err: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, "user-1", validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		rec := doRequest(t, &fakeUseCase{}, "", validBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, &fakeUseCase{}, "user-1", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := doRequest(t, &fakeUseCase{}, "user-1", `{"barbershopId": "shop-1", "serviceId": "svc-1", "date": "tomorrow"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
