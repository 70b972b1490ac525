package paymentservice

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader HTTP заголовок с подписью вебхука
const SignatureHeader = "Payment-Signature"

// signatureTolerance ограничивает возраст подписанного timestamp; повторы
// перехваченных доставок вне этого окна отклоняются
const signatureTolerance = 5 * time.Minute

// WebhookVerifier проверяет подлинность вебхука до того, как метаданным
// можно доверять. Провайдер подписывает `<timestamp>.<raw body>` через
// HMAC-SHA256 общим секретом вебхука и шлёт заголовок в виде
// "t=<unix>,v1=<hex digest>"
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier создает новый экземпляр верификатора
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// ConstructEvent проверяет подпись по сырому payload и только при успехе
// декодирует его в WebhookEvent
func (v *WebhookVerifier) ConstructEvent(payload []byte, sigHeader string, now time.Time) (*WebhookEvent, error) {
	if err := v.verifySignature(payload, sigHeader, now); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: event id and type are required", ErrInvalidPayload)
	}

	return &event, nil
}

func (v *WebhookVerifier) verifySignature(payload []byte, sigHeader string, now time.Time) error {
	if sigHeader == "" {
		return ErrMissingSignature
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("%w: header missing timestamp or signature", ErrInvalidSignature)
	}

	signedAt := time.Unix(timestamp, 0)
	age := now.Sub(signedAt)
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", ErrInvalidSignature)
}
