package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов для записи
// Чистая функция над текущим состоянием: результат не кэшируется
// и пересчитывается при каждом вызове
type UseCase struct {
	bookingRepo        BookingRepository
	timeBlockRepo      TimeBlockRepository
	serviceRepo        ServiceRepository
	masterRepo         MasterRepository
	timeProvider       TimeProvider
	granularityMinutes int
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
// granularityMinutes - шаг сетки слотов; при нуле используется значение по умолчанию
func NewUseCase(
	bookingRepo BookingRepository,
	timeBlockRepo TimeBlockRepository,
	serviceRepo ServiceRepository,
	masterRepo MasterRepository,
	granularityMinutes int,
	logger Logger,
) *UseCase {
	if granularityMinutes <= 0 {
		granularityMinutes = domain.DefaultSlotGranularityMinutes
	}

	return &UseCase{
		bookingRepo:        bookingRepo,
		timeBlockRepo:      timeBlockRepo,
		serviceRepo:        serviceRepo,
		masterRepo:         masterRepo,
		timeProvider:       &RealTimeProvider{},
		granularityMinutes: granularityMinutes,
		logger:             logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Пустой список слотов - нормальный результат, а не ошибка:
// выходной день, прошедшая дата и полностью занятый день выглядят одинаково
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Неактивная услуга равнозначна отсутствующей
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Получаем активного мастера
	master, err := uc.masterRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetAvailableSlots: no active master")
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get active master: %v", err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	emptyResponse := &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []time.Time{},
	}

	// 4. Прошедшие даты не бронируются - пустой список без ошибки
	if isDateInPast(req.Date, uc.timeProvider.Now()) {
		return emptyResponse, nil
	}

	// 5. Определяем рабочее окно на дату
	window, open, err := master.WorkHours.WindowFor(req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve work window: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve work window: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Info("GetAvailableSlots: master is closed on %s", req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 6. Получаем занятые интервалы дня: бронирования и блокировки
	dayStart, dayEnd := dayBounds(req.Date)

	bookings, err := uc.bookingRepo.GetOccupyingInRange(ctx, master.ID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.timeBlockRepo.GetInRange(ctx, master.ID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	slots := generateSlots(
		window,
		service.Duration(),
		time.Duration(uc.granularityMinutes)*time.Minute,
		collectBusyIntervals(bookings, blocks),
	)

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
