package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/api/handlers"
	"github.com/m04kA/Barber-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/Barber-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected RFC 3339"
	msgDateInPast         = "booking date is in the past"
	msgBarbershopNotFound = "barbershop not found"
	msgServiceNotFound    = "service not found"

	codeUserBookingConflict = "USER_BOOKING_CONFLICT"
	codeTimeSlotUnavailable = "TIME_SLOT_UNAVAILABLE"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "authentication required")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var userConflict *createBooking.UserConflictError

		switch {
		case errors.As(err, &userConflict):
			h.logger.Warn("POST /bookings - User conflict: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error: codeUserBookingConflict,
				Conflict: ConflictDetails{
					BarbershopName: userConflict.Conflicting.BarbershopName,
					ServiceName:    userConflict.Conflicting.ServiceName,
					Date:           userConflict.Conflicting.StartAt.Format(time.RFC3339),
				},
			})

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondError(w, http.StatusConflict, codeTimeSlotUnavailable)

		case errors.Is(err, createBooking.ErrBarbershopNotFound):
			h.logger.Warn("POST /bookings - Barbershop not found: barbershop_id=%s", req.BarbershopID)
			handlers.RespondNotFound(w, msgBarbershopNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in past: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, user_id=%s", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
