package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/Barber-BookingService/internal/service/bookings/models"
)

// Service сервис для чтения и отмены бронирований
type Service struct {
	bookingRepo BookingRepository
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает одно бронирование. Видит его только владелец, любой
// другой вызывающий получает ErrBookingNotFound
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	if id == "" || userID == "" {
		return nil, fmt.Errorf("%w: booking id and user id are required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: booking id=%s does not belong to user=%s", id, userID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя, новые
// первыми, отменённые включены
func (s *Service) GetUserBookings(ctx context.Context, userID string) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s", userID)

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%s", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel мягко отменяет бронирование пользователя. Отмена уже отменённого
// бронирования успешна и ничего не меняет; чужое бронирование отдаётся
// как не найденное
func (s *Service) Cancel(ctx context.Context, id string, userID string) error {
	s.logger.Info("Cancel: cancelling booking id=%s for user=%s", id, userID)

	if id == "" || userID == "" {
		return fmt.Errorf("%w: booking id and user id are required", ErrInvalidInput)
	}

	if err := s.bookingRepo.Cancel(ctx, id, userID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found for user=%s", id, userID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.metrics.BookingCancelled()
	s.logger.Info("Cancel: booking id=%s cancelled", id)
	return nil
}
