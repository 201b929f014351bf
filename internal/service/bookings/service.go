package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	bookingRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/booking"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/bookings/models"
)

// Service сервис управления бронированиями: просмотр, отмена,
// переводы статусов. Создание записи вынесено в отдельный use case
type Service struct {
	bookingRepo BookingRepository
	masterRepo  MasterRepository
	logger      Logger
}

// NewService создает новый сервис бронирований
func NewService(bookingRepo BookingRepository, masterRepo MasterRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		masterRepo:  masterRepo,
		logger:      logger,
	}
}

// GetBooking возвращает бронирование по ID
// Доступно владельцу записи и администраторам мастера
func (s *Service) GetBooking(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	if bookingID <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and userID must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "GetBooking", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		isManager, err := s.isManagerOf(ctx, booking.MasterID, userID)
		if err != nil {
			return nil, err
		}
		if !isManager {
			s.logger.Warn("GetBooking: user=%d has no access to booking id=%d", userID, bookingID)
			return nil, ErrAccessDenied
		}
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings возвращает бронирования пользователя,
// отсортированные от новых к старым
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: failed to get bookings for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetMasterBookings возвращает бронирования мастера с фильтрацией
// по клиенту, периоду и статусу. Доступно только администраторам мастера
func (s *Service) GetMasterBookings(ctx context.Context, req *models.GetMasterBookingsRequest) (*models.BookingListResponse, error) {
	if req.MasterID <= 0 || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: masterID and userID must be positive", ErrInvalidInput)
	}

	isManager, err := s.isManagerOf(ctx, req.MasterID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		s.logger.Warn("GetMasterBookings: user=%d is not a manager of master=%d", req.UserID, req.MasterID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMasterBookings: failed to get bookings for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Доступно владельцу записи и администраторам мастера;
// бронирование в терминальном статусе отменить нельзя
func (s *Service) Cancel(ctx context.Context, bookingID, userID int64) error {
	if bookingID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: bookingID and userID must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	// Проверка прав идёт до проверки статуса: чужому пользователю
	// не раскрываем даже то, что запись уже отменена
	if booking.UserID != userID {
		isManager, err := s.isManagerOf(ctx, booking.MasterID, userID)
		if err != nil {
			return err
		}
		if !isManager {
			s.logger.Warn("Cancel: user=%d has no access to booking id=%d", userID, bookingID)
			return ErrAccessDenied
		}
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d in status %s cannot be cancelled", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled by user=%d", bookingID, userID)
	return nil
}

// UpdateStatus переводит бронирование в новый статус
// Доступно только администраторам мастера; переход должен быть
// разрешён машиной состояний (pending -> confirmed/cancelled,
// confirmed -> completed/cancelled)
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	if bookingID <= 0 || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and userID must be positive", ErrInvalidInput)
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	isManager, err := s.isManagerOf(ctx, booking.MasterID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		s.logger.Warn("UpdateStatus: user=%d is not a manager of master=%d", req.UserID, booking.MasterID)
		return nil, ErrAccessDenied
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return nil, ErrInvalidTransition
	}

	// Отмена через смену статуса проставляет cancelled_at
	if newStatus == domain.StatusCancelled {
		err = s.bookingRepo.Cancel(ctx, bookingID)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus)
	}
	if err != nil {
		s.logger.Error("UpdateStatus: failed to update booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	updated, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking id=%d moved to %s by user=%d", bookingID, newStatus, req.UserID)
	return models.FromDomainBooking(updated), nil
}

// getBooking получает бронирование с маппингом ошибки "не найдено"
func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// isManagerOf проверяет, является ли пользователь администратором мастера
func (s *Service) isManagerOf(ctx context.Context, masterID, userID int64) (bool, error) {
	master, err := s.masterRepo.GetByID(ctx, masterID)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			return false, nil
		}
		s.logger.Error("isManagerOf: failed to get master id=%d: %v", masterID, err)
		return false, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	return master.HasManager(userID), nil
}
