package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/ptr"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/types"
)

// Фейки репозиториев

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (r *fakeBookingRepo) GetOccupyingInRange(_ context.Context, _ int64, from, to time.Time) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.OccupiesSlot() && b.StartTime.Before(to) && b.EndTime.After(from) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeTimeBlockRepo struct {
	blocks []*domain.TimeBlock
}

func (r *fakeTimeBlockRepo) GetInRange(_ context.Context, _ int64, from, to time.Time) ([]*domain.TimeBlock, error) {
	result := make([]*domain.TimeBlock, 0)
	for _, b := range r.blocks {
		if b.StartTime.Before(to) && b.EndTime.After(from) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return service, nil
}

type fakeMasterRepo struct {
	master *domain.Master
}

func (r *fakeMasterRepo) GetActive(_ context.Context) (*domain.Master, error) {
	if r.master == nil {
		return nil, masterRepo.ErrMasterNotFound
	}
	return r.master, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Построение окружения

func weekdaySchedule(start, end string) domain.WorkSchedule {
	hours := &domain.DayHours{
		Start: ptr.Ptr(types.TimeString(start)),
		End:   ptr.Ptr(types.TimeString(end)),
	}
	return domain.WorkSchedule{
		Monday:    hours,
		Tuesday:   hours,
		Wednesday: hours,
		Thursday:  hours,
		Friday:    hours,
	}
}

func testMaster(start, end string) *domain.Master {
	return &domain.Master{
		ID:        1,
		Name:      "Анна",
		WorkHours: weekdaySchedule(start, end),
		IsActive:  true,
	}
}

func testService(id int64, durationMinutes int) *domain.Service {
	return &domain.Service{
		ID:              id,
		Name:            "Маникюр",
		Price:           1500,
		DurationMinutes: durationMinutes,
		IsActive:        true,
	}
}

type env struct {
	bookingRepo   *fakeBookingRepo
	timeBlockRepo *fakeTimeBlockRepo
	serviceRepo   *fakeServiceRepo
	masterRepo    *fakeMasterRepo
	useCase       *UseCase
}

func newEnv(t *testing.T, master *domain.Master, services ...*domain.Service) *env {
	t.Helper()

	e := &env{
		bookingRepo:   &fakeBookingRepo{},
		timeBlockRepo: &fakeTimeBlockRepo{},
		serviceRepo:   &fakeServiceRepo{services: map[int64]*domain.Service{}},
		masterRepo:    &fakeMasterRepo{master: master},
	}
	for _, s := range services {
		e.serviceRepo.services[s.ID] = s
	}

	e.useCase = NewUseCase(e.bookingRepo, e.timeBlockRepo, e.serviceRepo, e.masterRepo, 30, nopLogger{})
	// Фиксируем "сегодня" задолго до тестовой даты
	e.useCase.timeProvider = &fixedTimeProvider{now: mustTime(t, "2026-01-01 12:00")}

	return e
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func slotStrings(slots []time.Time) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Format("15:04"))
	}
	return result
}

// Тесты

func TestExecute_FullDayNoBookings(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	// 2026-01-15 - четверг
	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)

	slots := slotStrings(resp.Slots)
	// Кандидаты с шагом 30 минут от 09:00; последний, в который
	// помещается час до закрытия в 19:00 - 18:00
	require.Len(t, slots, 19)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:00", slots[len(slots)-1])
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_BookingDisqualifiesOverlappingCandidates(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))
	e.bookingRepo.bookings = []*domain.Booking{
		{
			ID:        10,
			MasterID:  1,
			StartTime: mustTime(t, "2026-01-15 10:00"),
			EndTime:   mustTime(t, "2026-01-15 11:00"),
			Status:    domain.StatusConfirmed,
		},
	}

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)

	slots := slotStrings(resp.Slots)
	// Слот 09:00-10:00 касается брони границей - разрешён;
	// 09:30, 10:00 и 10:30 пересекаются с [10:00, 11:00); 11:00 снова свободен
	assert.Contains(t, slots, "09:00")
	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")
	assert.Contains(t, slots, "11:00")
}

func TestExecute_BookingStoredInDifferentZone(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	msk, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// Бронь 10:00-11:00 по салонному времени, сохранённая как UTC-моменты
	// (timestamptz возвращает абсолютные моменты независимо от пояса сессии)
	e.bookingRepo.bookings = []*domain.Booking{
		{
			ID:        10,
			MasterID:  1,
			StartTime: time.Date(2026, 1, 15, 10, 0, 0, 0, msk).UTC(),
			EndTime:   time.Date(2026, 1, 15, 11, 0, 0, 0, msk).UTC(),
			Status:    domain.StatusConfirmed,
		},
	}

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, msk),
	})
	require.NoError(t, err)

	// Кандидаты считаются в поясе даты запроса, занятость сравнивается
	// по абсолютным моментам - бронь дисквалифицирует те же кандидаты,
	// что и при совпадающих поясах
	slots := slotStrings(resp.Slots)
	assert.Contains(t, slots, "09:00")
	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")
	assert.Contains(t, slots, "11:00")
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))
	e.bookingRepo.bookings = []*domain.Booking{
		{
			ID:        10,
			MasterID:  1,
			StartTime: mustTime(t, "2026-01-15 10:00"),
			EndTime:   mustTime(t, "2026-01-15 11:00"),
			Status:    domain.StatusCancelled,
		},
	}

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)

	assert.Contains(t, slotStrings(resp.Slots), "10:00")
}

func TestExecute_LongServiceLastSlot(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(2, 180))

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 2,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)

	slots := slotStrings(resp.Slots)
	// Последний кандидат, в который помещаются 3 часа до 19:00 - 16:00;
	// 16:30 закончился бы в 19:30
	assert.Equal(t, "16:00", slots[len(slots)-1])
	assert.NotContains(t, slots, "16:30")
}

func TestExecute_GranularityProperty(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 45))

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	open := mustTime(t, "2026-01-15 09:00")
	close := mustTime(t, "2026-01-15 19:00")
	for _, slot := range resp.Slots {
		offset := slot.Sub(open)
		assert.Zero(t, offset%(30*time.Minute), "slot %s is off-grid", slot.Format("15:04"))
		assert.False(t, slot.Add(45*time.Minute).After(close), "slot %s overruns close", slot.Format("15:04"))
	}
}

func TestExecute_TimeBlockDisqualifiesCandidates(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))
	e.timeBlockRepo.blocks = []*domain.TimeBlock{
		{
			ID:        1,
			MasterID:  1,
			StartTime: mustTime(t, "2026-01-15 12:00"),
			EndTime:   mustTime(t, "2026-01-15 14:00"),
		},
	}

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	require.NoError(t, err)

	slots := slotStrings(resp.Slots)
	assert.Contains(t, slots, "11:00")
	assert.NotContains(t, slots, "11:30")
	assert.NotContains(t, slots, "12:00")
	assert.NotContains(t, slots, "13:30")
	assert.Contains(t, slots, "14:00")
}

func TestExecute_ClosedDay(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	// 2026-01-17 - суббота, расписание не задано
	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-17 00:00"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	resp, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2025-12-30 00:00"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_UnknownService(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	_, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 99,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	inactive := testService(3, 60)
	inactive.IsActive = false
	e := newEnv(t, testMaster("09:00", "19:00"), inactive)

	_, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 3,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_NoActiveMaster(t *testing.T) {
	e := newEnv(t, nil, testService(1, 60))

	_, err := e.useCase.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      mustTime(t, "2026-01-15 00:00"),
	})
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv(t, testMaster("09:00", "19:00"), testService(1, 60))

	_, err := e.useCase.Execute(context.Background(), &Request{ServiceID: 0, Date: mustTime(t, "2026-01-15 00:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.useCase.Execute(context.Background(), &Request{ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
