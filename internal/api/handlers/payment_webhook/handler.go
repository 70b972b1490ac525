package payment_webhook

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/api/handlers"
	"github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
	confirmPayment "github.com/m04kA/Barber-BookingService/internal/usecase/confirm_payment"
)

const (
	msgInvalidSignature = "invalid webhook signature"
	msgInvalidPayload   = "invalid webhook payload"

	// maxBodyBytes ограничивает чтение сырого payload для проверки подписи
	maxBodyBytes = 1 << 20
)

// Исходы доставки, отдаваемые в метрики
const (
	outcomeRejected  = "rejected"
	outcomeIgnored   = "ignored"
	outcomeMalformed = "malformed"
	outcomeError     = "error"
)

type Handler struct {
	useCase  ConfirmPaymentUseCase
	verifier EventVerifier
	metrics  Metrics
	logger   Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, verifier EventVerifier, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle POST /api/v1/payments/webhook
//
// Провайдер доставляет события at-least-once и повторяет доставку, пока
// не увидит 2xx. Проблемы подписи и payload получают 4xx (повтор их не
// исправит); временные сбои обработки получают 5xx для повторной доставки;
// всё остальное, включая дропнутые подтверждения, подтверждается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		h.metrics.WebhookEventReceived(outcomeMalformed)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	event, err := h.verifier.ConstructEvent(payload, r.Header.Get(paymentservice.SignatureHeader), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrMissingSignature), errors.Is(err, paymentservice.ErrInvalidSignature):
			h.logger.Warn("POST /payments/webhook - Signature verification failed: %v", err)
			h.metrics.WebhookEventReceived(outcomeRejected)
			handlers.RespondBadRequest(w, msgInvalidSignature)
		default:
			h.logger.Warn("POST /payments/webhook - Invalid payload: %v", err)
			h.metrics.WebhookEventReceived(outcomeMalformed)
			handlers.RespondBadRequest(w, msgInvalidPayload)
		}
		return
	}

	if event.Type != paymentservice.EventCheckoutCompleted {
		h.logger.Info("POST /payments/webhook - Ignoring event type=%s id=%s", event.Type, event.ID)
		h.metrics.WebhookEventReceived(outcomeIgnored)
		handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
		return
	}

	metadata := event.Data.Object.Metadata
	startAt, err := time.Parse(time.RFC3339, metadata.Date)
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid metadata date %q in event id=%s", metadata.Date, event.ID)
		h.metrics.WebhookEventReceived(outcomeMalformed)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmPayment.Request{
		EventID:      event.ID,
		EventType:    event.Type,
		UserID:       metadata.UserID,
		BarbershopID: metadata.BarbershopID,
		ServiceID:    metadata.ServiceID,
		StartAt:      startAt,
	})
	if err != nil {
		if errors.Is(err, confirmPayment.ErrInvalidInput) {
			h.logger.Warn("POST /payments/webhook - Incomplete metadata in event id=%s: %v", event.ID, err)
			h.metrics.WebhookEventReceived(outcomeMalformed)
			handlers.RespondBadRequest(w, msgInvalidPayload)
			return
		}
		h.logger.Error("POST /payments/webhook - Failed to process event id=%s: %v", event.ID, err)
		h.metrics.WebhookEventReceived(outcomeError)
		handlers.RespondInternalError(w)
		return
	}

	h.metrics.WebhookEventReceived(string(result.Outcome))
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true})
}
