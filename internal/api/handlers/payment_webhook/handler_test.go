package payment_webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
	confirmPayment "github.com/m04kA/Barber-BookingService/internal/usecase/confirm_payment"
)

type fakeUseCase struct {
	resp    *confirmPayment.Response
	err     error
	lastReq *confirmPayment.Request
}

func (f *fakeUseCase) Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeVerifier struct {
	event *paymentservice.WebhookEvent
	err   error
}

func (f *fakeVerifier) ConstructEvent(payload []byte, sigHeader string, now time.Time) (*paymentservice.WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type fakeMetrics struct {
	outcomes []string
}

func (f *fakeMetrics) WebhookEventReceived(outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func completedEvent() *paymentservice.WebhookEvent {
	event := &paymentservice.WebhookEvent{
		ID:   "evt-1",
		Type: paymentservice.EventCheckoutCompleted,
	}
	event.Data.Object = paymentservice.CheckoutSession{
		ID: "cs-1",
		Metadata: paymentservice.SessionMetadata{
			ServiceID:    "svc-1",
			BarbershopID: "shop-1",
			UserID:       "user-1",
			Date:         "2026-09-15T10:30:00Z",
		},
	}
	return event
}

func doRequest(t *testing.T, uc *fakeUseCase, verifier *fakeVerifier, m *fakeMetrics) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(uc, verifier, m, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(paymentservice.SignatureHeader, "t=1,v1=sig")

	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestHandler_AcknowledgesProcessedEvent(t *testing.T) {
	tests := []struct {
		name    string
		outcome confirmPayment.Outcome
	}{
		{name: "created", outcome: confirmPayment.OutcomeCreated},
		{name: "duplicate", outcome: confirmPayment.OutcomeDuplicate},
		// Дропнутое подтверждение всё равно подтверждается: провайдер не
		// вернёт потерянный слот повторной доставкой.
		{name: "dropped", outcome: confirmPayment.OutcomeDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{resp: &confirmPayment.Response{Outcome: tt.outcome}}
			m := &fakeMetrics{}

			rec := doRequest(t, uc, &fakeVerifier{event: completedEvent()}, m)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"received": true}`, rec.Body.String())
			assert.Equal(t, []string{string(tt.outcome)}, m.outcomes)
		})
	}
}

func TestHandler_PassesMetadataTuple(t *testing.T) {
	uc := &fakeUseCase{resp: &confirmPayment.Response{Outcome: confirmPayment.OutcomeCreated}}

	doRequest(t, uc, &fakeVerifier{event: completedEvent()}, &fakeMetrics{})

	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "evt-1", uc.lastReq.EventID)
	assert.Equal(t, "user-1", uc.lastReq.UserID)
	assert.Equal(t, "shop-1", uc.lastReq.BarbershopID)
	assert.Equal(t, "svc-1", uc.lastReq.ServiceID)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC), uc.lastReq.StartAt)
}

func TestHandler_RejectsBadSignature(t *testing.T) {
	for _, sigErr := range []error{paymentservice.ErrMissingSignature, paymentservice.ErrInvalidSignature} {
		uc := &fakeUseCase{}
		m := &fakeMetrics{}

		rec := doRequest(t, uc, &fakeVerifier{err: sigErr}, m)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.lastReq, "unverified payloads must never reach the use case")
		assert.Equal(t, []string{outcomeRejected}, m.outcomes)
	}
}

func TestHandler_RejectsInvalidPayload(t *testing.T) {
	m := &fakeMetrics{}

	rec := doRequest(t, &fakeUseCase{}, &fakeVerifier{err: paymentservice.ErrInvalidPayload}, m)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{outcomeMalformed}, m.outcomes)
}

func TestHandler_IgnoresForeignEventTypes(t *testing.T) {
	event := completedEvent()
	event.Type = "checkout.session.expired"
	uc := &fakeUseCase{}
	m := &fakeMetrics{}

	rec := doRequest(t, uc, &fakeVerifier{event: event}, m)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, uc.lastReq)
	assert.Equal(t, []string{outcomeIgnored}, m.outcomes)
}

func TestHandler_RejectsBadMetadataDate(t *testing.T) {
	event := completedEvent()
	event.Data.Object.Metadata.Date = "amanhã"
	m := &fakeMetrics{}

	rec := doRequest(t, &fakeUseCase{}, &fakeVerifier{event: event}, m)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{outcomeMalformed}, m.outcomes)
}

func TestHandler_FailuresRequestRedelivery(t *testing.T) {
	uc := &fakeUseCase{err: confirmPayment.ErrInternal}
	m := &fakeMetrics{}

	rec := doRequest(t, uc, &fakeVerifier{event: completedEvent()}, m)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{outcomeError}, m.outcomes)
}

func TestHandler_IncompleteMetadataIsNotRetried(t *testing.T) {
	uc := &fakeUseCase{err: confirmPayment.ErrInvalidInput}
	m := &fakeMetrics{}

	rec := doRequest(t, uc, &fakeVerifier{event: completedEvent()}, m)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{outcomeMalformed}, m.outcomes)
}
