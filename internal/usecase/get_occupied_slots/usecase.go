package get_occupied_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Barber-BookingService/internal/domain"
	catalogClient "github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/Barber-BookingService/pkg/ptr"
	"github.com/m04kA/Barber-BookingService/pkg/timeslot"
)

// UseCase use case занятости слотов: проецирует один день реестра
// бронирований на сетку рабочего дня. Занятые слоты складываются из
// бронирований ресурса и собственных бронирований пользователя, поэтому
// слот, недоступный по любой из причин, отдаётся как занятый
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogServiceClient
	timeProvider  TimeProvider
	logger        Logger
	cfg           Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		cfg:           cfg,
	}
}

// Execute возвращает занятые и свободные слоты запрошенного дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetOccupiedSlots: validation failed: %v", err)
		return nil, err
	}

	barbershopID := req.BarbershopID
	if barbershopID == "" {
		service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("GetOccupiedSlots: service id=%s not found", req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetOccupiedSlots: failed to get service id=%s: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		barbershopID = service.BarbershopID
	}

	dayStart, dayEnd := domain.DayWindow(req.Date)

	query := domain.OccupiedSlotsQuery{
		Resource: &domain.ResourceKey{
			BarbershopID: barbershopID,
			ServiceID:    req.ServiceID,
		},
		DayStart: dayStart,
		DayEnd:   dayEnd,
	}
	if req.UserID != "" {
		query.UserID = ptr.Ptr(req.UserID)
	}

	intervals, err := uc.bookingRepo.GetOccupiedSlots(ctx, query)
	if err != nil {
		uc.logger.Error("GetOccupiedSlots: failed to load occupied slots: %v", err)
		return nil, fmt.Errorf("%w: failed to load occupied slots: %v", ErrInternal, err)
	}

	grid, err := domain.DailySlots(uc.cfg.OpenTime, uc.cfg.CloseTime, uc.cfg.StepMinutes)
	if err != nil {
		uc.logger.Error("GetOccupiedSlots: failed to build slot grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}

	occupied, occupiedSet, err := occupiedLabels(req.Date, grid, intervals)
	if err != nil {
		uc.logger.Error("GetOccupiedSlots: failed to project occupied intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to project occupied intervals: %v", ErrInternal, err)
	}

	available, err := uc.availableSlots(req.Date, grid, occupiedSet)
	if err != nil {
		uc.logger.Error("GetOccupiedSlots: failed to filter slot grid: %v", err)
		return nil, fmt.Errorf("%w: failed to filter slot grid: %v", ErrInternal, err)
	}

	return &Response{
		Date:      dayStart,
		Occupied:  occupied,
		Available: available,
	}, nil
}

// occupiedLabels проецирует занятые интервалы на сетку дня. Каждый
// интервал помечает свой стартовый слот и все слоты сетки, которые
// накрывает его хвост, чтобы бронирование длиннее шага сетки не оставляло
// хвостовые слоты свободными. Проекция согласована с правилами конфликтов
func occupiedLabels(date time.Time, grid []timeslot.TimeString, intervals []domain.TimeInterval) ([]timeslot.TimeString, map[timeslot.TimeString]struct{}, error) {
	loc := date.Location()
	occupied := make([]timeslot.TimeString, 0, len(intervals))
	occupiedSet := make(map[timeslot.TimeString]struct{}, len(intervals))

	mark := func(slot timeslot.TimeString) {
		if _, seen := occupiedSet[slot]; seen {
			return
		}
		occupiedSet[slot] = struct{}{}
		occupied = append(occupied, slot)
	}

	for _, interval := range intervals {
		mark(timeslot.NewTimeString(interval.Start.In(loc)))
		for _, slot := range grid {
			startAt, err := slot.At(date, loc)
			if err != nil {
				return nil, nil, err
			}
			if !startAt.Before(interval.Start) && startAt.Before(interval.End) {
				mark(slot)
			}
		}
	}

	return occupied, occupiedSet, nil
}

// availableSlots обходит сетку рабочего дня и оставляет слоты, которые
// не заняты и, если запрошен сегодняшний день, ещё не начались
func (uc *UseCase) availableSlots(date time.Time, grid []timeslot.TimeString, occupiedSet map[timeslot.TimeString]struct{}) ([]timeslot.TimeString, error) {
	now := uc.timeProvider.Now()
	filterPast := domain.IsSameDay(date, now)

	available := make([]timeslot.TimeString, 0, len(grid))
	for _, slot := range grid {
		if _, taken := occupiedSet[slot]; taken {
			continue
		}
		if filterPast {
			startAt, err := slot.At(date, date.Location())
			if err != nil {
				return nil, err
			}
			if domain.IsSlotInPast(startAt, now) {
				continue
			}
		}
		available = append(available, slot)
	}

	return available, nil
}
