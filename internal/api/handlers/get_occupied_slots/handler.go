package get_occupied_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/api/handlers"
	"github.com/m04kA/Barber-BookingService/internal/api/middleware"
	getOccupiedSlots "github.com/m04kA/Barber-BookingService/internal/usecase/get_occupied_slots"
)

const (
	msgMissingServiceID = "serviceId query parameter is required"
	msgInvalidTimestamp = "invalid timestamp, expected unix milliseconds"
	msgServiceNotFound  = "service not found"
)

type Handler struct {
	useCase GetOccupiedSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetOccupiedSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/occupied-slots
//
// Query params: serviceId (required), barbershopId (optional), timestamp
// (unix миллисекунды запрошенного дня, optional, по умолчанию сейчас).
// Личность вызывающего, если есть, добавляет его собственные бронирования
// в занятые слоты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID := query.Get("serviceId")
	if serviceID == "" {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	date := time.Now()
	if raw := query.Get("timestamp"); raw != "" {
		millis, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /bookings/occupied-slots - Invalid timestamp: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidTimestamp)
			return
		}
		date = time.UnixMilli(millis)
	}

	req := &getOccupiedSlots.Request{
		BarbershopID: query.Get("barbershopId"),
		ServiceID:    serviceID,
		Date:         date,
	}
	if userID, ok := middleware.UserID(r.Context()); ok {
		req.UserID = userID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getOccupiedSlots.ErrServiceNotFound):
			h.logger.Warn("GET /bookings/occupied-slots - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getOccupiedSlots.ErrInvalidInput):
			h.logger.Warn("GET /bookings/occupied-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingServiceID)

		default:
			h.logger.Error("GET /bookings/occupied-slots - Failed: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
