package create_checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	catalogClient "github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
	"github.com/m04kA/Barber-BookingService/pkg/ptr"
)

const sessionMode = "payment"

// UseCase use case начала оплаты бронирования. Обе проверки конфликтов
// выполняются как рекомендательные, чтобы не отправлять пользователя
// платить за уже занятый слот; авторитетная проверка повторяется при
// получении события о завершении оплаты
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogServiceClient
	paymentClient PaymentServiceClient
	timeProvider  TimeProvider
	metrics       Metrics
	logger        Logger
	cfg           Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	paymentClient PaymentServiceClient,
	cfg Config,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		paymentClient: paymentClient,
		timeProvider:  &RealTimeProvider{},
		metrics:       metrics,
		logger:        logger,
		cfg:           cfg,
	}
}

// Execute валидирует слот, проверяет оба правила конфликтов и создает
// checkout сессию, несущую кортеж бронирования в метаданных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCheckout: user=%s, service=%s, start=%s",
		req.UserID, req.ServiceID, req.StartAt.Format(domain.DateFormat+" "+domain.TimeFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateCheckout: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateStart(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateCheckout: start %s is in the past", req.StartAt)
		return nil, err
	}

	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateCheckout: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateCheckout: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	shop, err := uc.catalogClient.GetBarbershop(ctx, service.BarbershopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBarbershopNotFound) {
			uc.logger.Warn("CreateCheckout: barbershop id=%s not found", service.BarbershopID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateCheckout: failed to get barbershop id=%s: %v", service.BarbershopID, err)
		return nil, fmt.Errorf("%w: failed to get barbershop: %v", ErrInternal, err)
	}

	interval := domain.NewTimeInterval(req.StartAt, serviceDuration(service.DurationMinutes))

	if err := uc.checkConflicts(ctx, req, service, interval); err != nil {
		return nil, err
	}

	successURL, cancelURL := uc.redirectURLs(req.Origin)

	session, err := uc.paymentClient.CreateCheckoutSession(ctx, &paymentservice.CreateSessionRequest{
		Mode:       sessionMode,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: paymentservice.SessionMetadata{
			ServiceID:    req.ServiceID,
			BarbershopID: service.BarbershopID,
			UserID:       req.UserID,
			Date:         req.StartAt.Format(time.RFC3339),
		},
		LineItems: []paymentservice.LineItem{
			{
				Name:        lineItemName(shop.Name, service.Name, req.StartAt),
				Description: service.Description,
				ImageURL:    service.ImageURL,
				AmountCents: service.PriceInCents,
				Currency:    uc.cfg.Currency,
				Quantity:    1,
			},
		},
	})
	if err != nil {
		uc.metrics.CheckoutSessionCreated("error")
		uc.logger.Error("CreateCheckout: failed to create checkout session: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	uc.metrics.CheckoutSessionCreated("ok")
	uc.logger.Info("CreateCheckout: created session id=%s for user=%s", session.ID, req.UserID)

	return &Response{SessionID: session.ID, URL: session.URL}, nil
}

// checkConflicts применяет оба правила конфликтов к текущему реестру.
// Обычные чтения без блокировок: здесь ничего не резервируется, а путь
// подтверждения всё равно перепроверяет
func (uc *UseCase) checkConflicts(
	ctx context.Context,
	req *Request,
	service *catalogClient.Service,
	interval domain.TimeInterval,
) error {
	// Правило A: у пользователя не может быть двух пересекающихся бронирований
	userConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{UserID: ptr.Ptr(req.UserID)}, interval)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to check user conflicts: %v", err)
		return fmt.Errorf("%w: failed to check user conflicts: %v", ErrInternal, err)
	}
	if len(userConflicts) > 0 {
		conflicting := userConflicts[0]
		uc.logger.Warn("CreateCheckout: user=%s already booked at %s (%s / %s)",
			req.UserID, conflicting.StartAt, conflicting.BarbershopName, conflicting.ServiceName)
		return &UserConflictError{Conflicting: ConflictingBooking{
			BarbershopName: conflicting.BarbershopName,
			ServiceName:    conflicting.ServiceName,
			StartAt:        conflicting.StartAt,
		}}
	}

	// Правило B: одно активное бронирование на слот (барбершоп, услуга)
	resourceConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{Resource: &domain.ResourceKey{
			BarbershopID: service.BarbershopID,
			ServiceID:    req.ServiceID,
		}}, interval)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to check slot conflicts: %v", err)
		return fmt.Errorf("%w: failed to check slot conflicts: %v", ErrInternal, err)
	}
	if len(resourceConflicts) > 0 {
		uc.logger.Warn("CreateCheckout: slot %s already taken for barbershop=%s service=%s",
			req.StartAt, service.BarbershopID, req.ServiceID)
		return ErrSlotNotAvailable
	}

	return nil
}

// redirectURLs собирает адреса redirect после оплаты. Если запрос несёт
// origin вызывающего, redirect остаётся на его сайте
func (uc *UseCase) redirectURLs(origin string) (successURL, cancelURL string) {
	successURL = uc.cfg.SuccessURL
	cancelURL = uc.cfg.CancelURL
	if origin != "" {
		base := strings.TrimRight(origin, "/")
		successURL = base + "/thanks"
		cancelURL = base
	}
	return successURL, cancelURL
}

func lineItemName(shopName, serviceName string, startAt time.Time) string {
	return fmt.Sprintf("%s - %s at %s", shopName, serviceName, startAt.Format("02/01/2006 15:04"))
}
