package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/Barber-BookingService/pkg/ptr"
)

// UseCase use case подтверждения оплаты: превращает завершённый платёж в
// бронирование. Оплата уже прошла, поэтому конфликт здесь нельзя вернуть
// пользователю: подтверждение дропается, считается и логируется, а событие
// всё равно подтверждается, чтобы провайдер перестал его доставлять
type UseCase struct {
	bookingRepo   BookingRepository
	eventRepo     EventRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		eventRepo:     eventRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute обрабатывает одно событие завершённого checkout. Возврат ошибки
// означает, что событие НЕ обработано и вызывающий должен ответить 5xx для
// повторной доставки; все остальные пути подтверждают доставку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: event=%s, user=%s, barbershop=%s, service=%s, start=%s",
		req.EventID, req.UserID, req.BarbershopID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmPayment: event=%s rejected: %v", req.EventID, err)
		return nil, err
	}

	// Обращения к каталогу идут до транзакции. Временный сбой каталога
	// оставляет событие неотмеченным, и повторная доставка повторит весь путь
	service, shop, dropReason, err := uc.resolveCatalog(ctx, req)
	if err != nil {
		return nil, err
	}
	if dropReason != "" {
		return uc.drop(req, dropReason), nil
	}

	duration := serviceDuration(service.DurationMinutes)
	interval := domain.NewTimeInterval(req.StartAt, duration)

	result := &Response{}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return uc.consumeEvent(txCtx, req, shop, service, duration, interval, result)
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: event=%s failed: %v", req.EventID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	switch result.Outcome {
	case OutcomeCreated:
		uc.metrics.BookingCreated(domain.SourceWebhook)
		uc.logger.Info("ConfirmPayment: event=%s created booking id=%s", req.EventID, result.BookingID)
	case OutcomeDuplicate:
		uc.logger.Info("ConfirmPayment: event=%s already processed, skipping", req.EventID)
	case OutcomeDropped:
		uc.recordDrop(req, result.DropReason)
	}

	return result, nil
}

// consumeEvent отмечает событие, повторяет обе проверки конфликтов и
// создает бронирование в одной транзакции. Конфликт выставляет исход
// dropped и возвращает nil, чтобы отметка события закоммитилась
func (uc *UseCase) consumeEvent(
	ctx context.Context,
	req *Request,
	shop *catalogClient.Barbershop,
	service *catalogClient.Service,
	duration int,
	interval domain.TimeInterval,
	result *Response,
) error {
	firstDelivery, err := uc.eventRepo.MarkProcessed(ctx, req.EventID, req.EventType)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	if !firstDelivery {
		result.Outcome = OutcomeDuplicate
		return nil
	}

	// Правило A: у пользователя не может быть двух пересекающихся бронирований
	userConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{UserID: ptr.Ptr(req.UserID)}, interval)
	if err != nil {
		return fmt.Errorf("failed to check user conflicts: %w", err)
	}
	if len(userConflicts) > 0 {
		result.Outcome = OutcomeDropped
		result.DropReason = DropReasonUserConflict
		return nil
	}

	// Правило B: одно активное бронирование на слот (барбершоп, услуга)
	resourceConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{Resource: &domain.ResourceKey{
			BarbershopID: req.BarbershopID,
			ServiceID:    req.ServiceID,
		}}, interval)
	if err != nil {
		return fmt.Errorf("failed to check slot conflicts: %w", err)
	}
	if len(resourceConflicts) > 0 {
		result.Outcome = OutcomeDropped
		result.DropReason = DropReasonSlotTaken
		return nil
	}

	booking := &domain.Booking{
		UserID:          req.UserID,
		BarbershopID:    req.BarbershopID,
		ServiceID:       req.ServiceID,
		StartAt:         req.StartAt,
		DurationMinutes: duration,
		BarbershopName:  shop.Name,
		ServiceName:     service.Name,
		PriceInCents:    service.PriceInCents,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		// Срабатывание constraint означает, что параллельная запись заняла
		// слот после проверок выше; трактуется как конфликт из проверки
		switch {
		case errors.Is(err, bookingRepo.ErrUserSlotTaken):
			result.Outcome = OutcomeDropped
			result.DropReason = DropReasonUserConflict
			return nil
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			result.Outcome = OutcomeDropped
			result.DropReason = DropReasonSlotTaken
			return nil
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	result.Outcome = OutcomeCreated
	result.BookingID = created.ID
	return nil
}

// resolveCatalog загружает барбершоп и услугу из метаданных события.
// Отсутствующая или несовпадающая запись каталога означает дроп: оплата
// ссылается на то, чего больше нет. Любой другой сбой ретраится
func (uc *UseCase) resolveCatalog(ctx context.Context, req *Request) (*catalogClient.Service, *catalogClient.Barbershop, string, error) {
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, nil, DropReasonServiceMissing, nil
		}
		return nil, nil, "", fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BarbershopID != req.BarbershopID {
		return nil, nil, DropReasonServiceMissing, nil
	}

	shop, err := uc.catalogClient.GetBarbershop(ctx, req.BarbershopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBarbershopNotFound) {
			return nil, nil, DropReasonServiceMissing, nil
		}
		return nil, nil, "", fmt.Errorf("%w: failed to get barbershop: %v", ErrInternal, err)
	}

	return service, shop, "", nil
}

// drop завершает подтверждение как dropped, не трогая реестр. Используется
// для дропов до транзакции; событие остаётся неотмеченным, и повторная
// доставка завершится так же
func (uc *UseCase) drop(req *Request, reason string) *Response {
	uc.recordDrop(req, reason)
	return &Response{Outcome: OutcomeDropped, DropReason: reason}
}

// recordDrop делает дроп заметным: пользователь заплатил и не получил
// бронирование, такие случаи операторы разбирают вручную
func (uc *UseCase) recordDrop(req *Request, reason string) {
	uc.metrics.ConfirmationDropped(reason)
	uc.logger.Error("ConfirmPayment: DROPPED paid confirmation: reason=%s, event=%s, user=%s, barbershop=%s, service=%s, start=%s",
		reason, req.EventID, req.UserID, req.BarbershopID, req.ServiceID, req.StartAt.Format(time.RFC3339))
}
