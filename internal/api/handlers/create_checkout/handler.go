package create_checkout

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/api/handlers"
	"github.com/m04kA/Barber-BookingService/internal/api/middleware"
	createCheckout "github.com/m04kA/Barber-BookingService/internal/usecase/create_checkout"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected RFC 3339"
	msgDateInPast         = "booking date is in the past"
	msgServiceNotFound    = "service not found"
	msgPaymentUnavailable = "payment provider is unavailable, try again later"

	codeUserBookingConflict = "USER_BOOKING_CONFLICT"
	codeTimeSlotUnavailable = "TIME_SLOT_UNAVAILABLE"
)

type Handler struct {
	useCase CreateCheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CreateCheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// ConflictResponse payload 409 для самоконфликта пользователя
type ConflictResponse struct {
	Error    string          `json:"error"`
	Conflict ConflictDetails `json:"conflict"`
}

// ConflictDetails описывает конфликтующее бронирование
type ConflictDetails struct {
	BarbershopName string `json:"barbershopName"`
	ServiceName    string `json:"serviceName"`
	Date           string `json:"date"`
}

// Handle POST /api/v1/payments/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "authentication required")
		return
	}

	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, r.Header.Get("Origin"))
	if err != nil {
		h.logger.Warn("POST /payments/checkout - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var userConflict *createCheckout.UserConflictError

		switch {
		case errors.As(err, &userConflict):
			h.logger.Warn("POST /payments/checkout - User conflict: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error: codeUserBookingConflict,
				Conflict: ConflictDetails{
					BarbershopName: userConflict.Conflicting.BarbershopName,
					ServiceName:    userConflict.Conflicting.ServiceName,
					Date:           userConflict.Conflicting.StartAt.Format(time.RFC3339),
				},
			})

		case errors.Is(err, createCheckout.ErrSlotNotAvailable):
			h.logger.Warn("POST /payments/checkout - Slot not available: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondError(w, http.StatusConflict, codeTimeSlotUnavailable)

		case errors.Is(err, createCheckout.ErrServiceNotFound):
			h.logger.Warn("POST /payments/checkout - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createCheckout.ErrInvalidDate):
			h.logger.Warn("POST /payments/checkout - Date in past: user_id=%s, start=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createCheckout.ErrInvalidInput):
			h.logger.Warn("POST /payments/checkout - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createCheckout.ErrPaymentUnavailable):
			h.logger.Error("POST /payments/checkout - Payment provider unavailable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		default:
			h.logger.Error("POST /payments/checkout - Failed: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/checkout - Session created: session_id=%s, user_id=%s", result.SessionID, userID)
	handlers.RespondJSON(w, http.StatusOK, CheckoutResponse{
		SessionID: result.SessionID,
		URL:       result.URL,
	})
}
