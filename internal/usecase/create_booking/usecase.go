package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/Barber-BookingService/pkg/ptr"
)

// UseCase use case прямого создания бронирования, без оплаты.
// Оба правила конфликтов проверяются в сериализуемой транзакции;
// уникальные индексы реестра страхуют проверку от параллельных записей
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute выполняет прямое создание бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, barbershop=%s, service=%s, start=%s",
		req.UserID, req.BarbershopID, req.ServiceID, req.StartAt.Format(domain.DateFormat+" "+domain.TimeFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateStart(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateBooking: start %s is in the past", req.StartAt)
		return nil, err
	}

	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Услуга должна принадлежать запрошенному барбершопу; несоответствие
	// отдаётся как неизвестная услуга, чтобы не раскрывать чужой каталог
	if service.BarbershopID != req.BarbershopID {
		uc.logger.Warn("CreateBooking: service id=%s does not belong to barbershop id=%s",
			req.ServiceID, req.BarbershopID)
		return nil, ErrServiceNotFound
	}

	shop, err := uc.catalogClient.GetBarbershop(ctx, req.BarbershopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBarbershopNotFound) {
			uc.logger.Warn("CreateBooking: barbershop id=%s not found", req.BarbershopID)
			return nil, ErrBarbershopNotFound
		}
		uc.logger.Error("CreateBooking: failed to get barbershop id=%s: %v", req.BarbershopID, err)
		return nil, fmt.Errorf("%w: failed to get barbershop: %v", ErrInternal, err)
	}

	duration := serviceDuration(service.DurationMinutes)
	interval := domain.NewTimeInterval(req.StartAt, duration)

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.checkAndCreate(txCtx, req, shop, service, duration, interval)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		// Срабатывание пользовательского constraint прерывает транзакцию
		// раньше, чем можно прочитать конфликтующую строку, поэтому она
		// дочитывается здесь для payload 409
		if errors.Is(err, bookingRepo.ErrUserSlotTaken) {
			return nil, uc.userConflictDetails(ctx, req.UserID, interval)
		}
		return nil, err
	}

	uc.metrics.BookingCreated(domain.SourceDirect)
	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return fromDomain(result), nil
}

// checkAndCreate проверяет оба правила конфликтов по заблокированным
// строкам и создает бронирование. Порядок правил важен: самоконфликт
// пользователя проверяется первым, чтобы при нарушении обоих правил
// вернуть более полезную ошибку
func (uc *UseCase) checkAndCreate(
	ctx context.Context,
	req *Request,
	shop *catalogClient.Barbershop,
	service *catalogClient.Service,
	duration int,
	interval domain.TimeInterval,
) (*domain.Booking, error) {
	// Правило A: у пользователя не может быть двух пересекающихся бронирований
	userConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{UserID: ptr.Ptr(req.UserID)}, interval)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check user conflicts: %v", err)
		return nil, fmt.Errorf("%w: failed to check user conflicts: %w", ErrInternal, err)
	}
	if len(userConflicts) > 0 {
		conflicting := userConflicts[0]
		uc.logger.Warn("CreateBooking: user=%s already booked at %s (%s / %s)",
			req.UserID, conflicting.StartAt, conflicting.BarbershopName, conflicting.ServiceName)
		return nil, &UserConflictError{Conflicting: ConflictingBooking{
			BarbershopName: conflicting.BarbershopName,
			ServiceName:    conflicting.ServiceName,
			StartAt:        conflicting.StartAt,
		}}
	}

	// Правило B: одно активное бронирование на слот (барбершоп, услуга)
	resourceConflicts, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{Resource: &domain.ResourceKey{
			BarbershopID: req.BarbershopID,
			ServiceID:    req.ServiceID,
		}}, interval)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check slot conflicts: %v", err)
		return nil, fmt.Errorf("%w: failed to check slot conflicts: %w", ErrInternal, err)
	}
	if len(resourceConflicts) > 0 {
		uc.logger.Warn("CreateBooking: slot %s already taken for barbershop=%s service=%s",
			req.StartAt, req.BarbershopID, req.ServiceID)
		return nil, ErrSlotNotAvailable
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
		// Уникальные индексы закрывают гонку, которую предварительная
		// проверка не видит; срабатывание constraint отдаётся так же, как
		// конфликт из проверки. Пользовательский constraint пробрасывается
		// как есть: Execute дочитает победившее бронирование вне транзакции
		switch {
		case errors.Is(err, bookingRepo.ErrUserSlotTaken):
			return nil, err
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
	}

	return created, nil
}

// userConflictDetails дочитывает бронирование, выигравшее гонку на
// уникальном индексе, чтобы payload конфликта назвал его. К моменту
// срабатывания constraint строка победителя уже закоммичена и видна
// обычному чтению
func (uc *UseCase) userConflictDetails(ctx context.Context, userID string, interval domain.TimeInterval) error {
	overlapping, err := uc.bookingRepo.GetOverlapping(ctx,
		domain.OverlapFilter{UserID: ptr.Ptr(userID)}, interval)
	if err != nil || len(overlapping) == 0 {
		uc.logger.Warn("CreateBooking: conflicting booking for user=%s could not be reloaded: %v", userID, err)
		return &UserConflictError{}
	}

	conflicting := overlapping[0]
	return &UserConflictError{Conflicting: ConflictingBooking{
		BarbershopName: conflicting.BarbershopName,
		ServiceName:    conflicting.ServiceName,
		StartAt:        conflicting.StartAt,
	}}
}

func fromDomain(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		BarbershopID:    b.BarbershopID,
		ServiceID:       b.ServiceID,
		StartAt:         b.StartAt,
		DurationMinutes: b.DurationMinutes,
		Cancelled:       b.Cancelled,
		BarbershopName:  b.BarbershopName,
		ServiceName:     b.ServiceName,
		PriceInCents:    b.PriceInCents,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
