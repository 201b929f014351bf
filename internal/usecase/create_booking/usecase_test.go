package create_booking

import (
	"context"
	"sync"
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
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	created := *booking
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.bookings = append(r.bookings, &created)
	return &created, nil
}

func (r *fakeBookingRepo) GetOccupyingInRange(_ context.Context, _ int64, from, to time.Time) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

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

// fakeTxManager сериализует конкурирующие вызовы мьютексом -
// модель сериализуемой транзакции для тестов
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение

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

type env struct {
	bookingRepo   *fakeBookingRepo
	timeBlockRepo *fakeTimeBlockRepo
	useCase       *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		bookingRepo:   &fakeBookingRepo{},
		timeBlockRepo: &fakeTimeBlockRepo{},
	}

	services := &fakeServiceRepo{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Маникюр", Price: 1500, DurationMinutes: 60, IsActive: true},
		2: {ID: 2, Name: "Старая услуга", Price: 1000, DurationMinutes: 30, IsActive: false},
	}}
	masters := &fakeMasterRepo{master: &domain.Master{
		ID:        1,
		Name:      "Анна",
		WorkHours: weekdaySchedule("09:00", "19:00"),
		IsActive:  true,
	}}

	e.useCase = NewUseCase(e.bookingRepo, e.timeBlockRepo, services, masters, &fakeTxManager{}, nopLogger{})
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

// Тесты

func TestExecute_Success(t *testing.T) {
	e := newEnv(t)

	// 2026-01-15 - четверг
	resp, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.UserID)
	assert.Equal(t, mustTime(t, "2026-01-15 10:00"), resp.StartTime)
	assert.Equal(t, mustTime(t, "2026-01-15 11:00"), resp.EndTime)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Маникюр", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
}

func TestExecute_UnknownService(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 99,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 2,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_PastStartTime(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2025-12-30 10:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	e := newEnv(t)

	// Начало до открытия
	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 08:00"),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	// Услуга не помещается до закрытия: 18:30 + 60 мин > 19:00
	_, err = e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 18:30"),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	// Выходной день: 2026-01-17 - суббота
	_, err = e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-17 10:00"),
	})
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_ConflictWithExistingBooking(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	require.NoError(t, err)

	// Любое пересечение с [10:00, 11:00) отклоняется
	for _, start := range []string{"2026-01-15 10:00", "2026-01-15 10:30", "2026-01-15 09:30"} {
		_, err = e.useCase.Execute(context.Background(), &Request{
			UserID:    200,
			ServiceID: 1,
			StartTime: mustTime(t, start),
		})
		assert.ErrorIs(t, err, ErrSlotNotAvailable, "start=%s", start)
	}
}

func TestExecute_BoundaryTouchAllowed(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	require.NoError(t, err)

	// Начало ровно в момент окончания существующей брони - не конфликт
	_, err = e.useCase.Execute(context.Background(), &Request{
		UserID:    200,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 11:00"),
	})
	require.NoError(t, err)

	// И ровно перед её началом
	_, err = e.useCase.Execute(context.Background(), &Request{
		UserID:    300,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 09:00"),
	})
	require.NoError(t, err)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	e := newEnv(t)
	e.bookingRepo.bookings = []*domain.Booking{
		{
			ID:        10,
			MasterID:  1,
			StartTime: mustTime(t, "2026-01-15 10:00"),
			EndTime:   mustTime(t, "2026-01-15 11:00"),
			Status:    domain.StatusCancelled,
		},
	}
	e.bookingRepo.nextID = 10

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 10:00"),
	})
	require.NoError(t, err)
}

func TestExecute_ConflictWithTimeBlock(t *testing.T) {
	e := newEnv(t)
	e.timeBlockRepo.blocks = []*domain.TimeBlock{
		{
			ID:        1,
			MasterID:  1,
			StartTime: mustTime(t, "2026-01-15 12:00"),
			EndTime:   mustTime(t, "2026-01-15 14:00"),
		},
	}

	_, err := e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 13:30"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Блокировка заканчивается в 14:00 - запись с 14:00 допустима
	_, err = e.useCase.Execute(context.Background(), &Request{
		UserID:    100,
		ServiceID: 1,
		StartTime: mustTime(t, "2026-01-15 14:00"),
	})
	require.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv(t)

	_, err := e.useCase.Execute(context.Background(), &Request{ServiceID: 1, StartTime: mustTime(t, "2026-01-15 10:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.useCase.Execute(context.Background(), &Request{UserID: 100, StartTime: mustTime(t, "2026-01-15 10:00")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.useCase.Execute(context.Background(), &Request{UserID: 100, ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	e := newEnv(t)

	const attempts = 8
	start := mustTime(t, "2026-01-15 10:00")

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.useCase.Execute(context.Background(), &Request{
				UserID:    int64(100 + i),
				ServiceID: 1,
				StartTime: start,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the racing requests must win the slot")

	// Инвариант: активные бронирования попарно не пересекаются
	occupying := make([]*domain.Booking, 0)
	for _, b := range e.bookingRepo.bookings {
		if b.OccupiesSlot() {
			occupying = append(occupying, b)
		}
	}
	for i := 0; i < len(occupying); i++ {
		for j := i + 1; j < len(occupying); j++ {
			assert.False(t, occupying[i].Interval().Overlaps(occupying[j].Interval()),
				"bookings %d and %d overlap", occupying[i].ID, occupying[j].ID)
		}
	}
}
