package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/txmanager"
)

// UseCase use case создания записи
// Проверка занятости слота и вставка выполняются в одной сериализуемой
// транзакции: из двух конкурирующих запросов на пересекающиеся интервалы
// зафиксируется ровно один, второй получит ErrSlotNotAvailable
type UseCase struct {
	bookingRepo   BookingRepository
	timeBlockRepo TimeBlockRepository
	serviceRepo   ServiceRepository
	masterRepo    MasterRepository
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	timeBlockRepo TimeBlockRepository,
	serviceRepo ServiceRepository,
	masterRepo MasterRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		timeBlockRepo: timeBlockRepo,
		serviceRepo:   serviceRepo,
		masterRepo:    masterRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, start=%s",
		req.UserID, req.ServiceID, req.StartTime.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись на прошедшее время невозможна
	if req.StartTime.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: start time %s is in the past", req.StartTime.Format("2006-01-02 15:04"))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услугу - её длительность задаёт конец интервала
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Неактивная услуга равнозначна отсутствующей
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем активного мастера
	master, err := uc.masterRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			uc.logger.Warn("CreateBooking: no active master")
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get active master: %v", err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	requested := domain.NewInterval(req.StartTime, service.Duration())

	// 5. Интервал услуги должен целиком помещаться в рабочее окно
	window, open, err := master.WorkHours.WindowFor(req.StartTime)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve work window: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve work window: %v", ErrInternal, err)
	}
	if !open || requested.Start.Before(window.Start) || requested.End.After(window.End) {
		uc.logger.Warn("CreateBooking: interval %s-%s is outside working hours",
			requested.Start.Format("15:04"), requested.End.Format("15:04"))
		return nil, ErrOutsideWorkingHours
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем занимающие бронирования дня с блокировкой строк
		dayStart, dayEnd := dayBounds(req.StartTime)

		bookings, err := uc.bookingRepo.GetOccupyingInRange(txCtx, master.ID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 6.2. Блокировки времени дисквалифицируют интервал наравне с бронированиями
		blocks, err := uc.timeBlockRepo.GetInRange(txCtx, master.ID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get time blocks: %v", err)
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}

		// 6.3. Единый предикат пересечения полуинтервалов:
		// касание границ пересечением не считается
		for _, b := range bookings {
			if b.OccupiesSlot() && requested.Overlaps(b.Interval()) {
				uc.logger.Warn("CreateBooking: slot conflicts with booking id=%d", b.ID)
				return ErrSlotNotAvailable
			}
		}
		for _, block := range blocks {
			if requested.Overlaps(block.Interval()) {
				uc.logger.Warn("CreateBooking: slot conflicts with time block id=%d", block.ID)
				return ErrSlotNotAvailable
			}
		}

		// 6.4. Создаем запись со статусом pending до подтверждения администратором
		booking := &domain.Booking{
			UserID:          req.UserID,
			MasterID:        master.ID,
			ServiceID:       req.ServiceID,
			StartTime:       requested.Start,
			EndTime:         requested.End,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Исчерпанные повторы сериализации означают проигранную гонку за слот
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: lost slot race for user=%d, start=%s: %v",
				req.UserID, req.StartTime.Format("2006-01-02 15:04"), err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		MasterID:        result.MasterID,
		ServiceID:       result.ServiceID,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// dayBounds возвращает границы суток момента t: [00:00, 00:00 следующего дня)
func dayBounds(t time.Time) (time.Time, time.Time) {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}
