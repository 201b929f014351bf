package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	bookingRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/booking"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/bookings/models"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/ptr"
)

const (
	ownerID    = int64(100)
	managerID  = int64(500)
	strangerID = int64(999)
)

// Фейки репозиториев

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.MasterID != filter.MasterID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeInactive && !b.OccupiesSlot() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	booking, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64) error {
	booking, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	booking.Status = domain.StatusCancelled
	booking.CancelledAt = ptr.Ptr(time.Now())
	return nil
}

type fakeMasterRepo struct {
	masters map[int64]*domain.Master
}

func (r *fakeMasterRepo) GetByID(_ context.Context, id int64) (*domain.Master, error) {
	master, ok := r.masters[id]
	if !ok {
		return nil, masterRepo.ErrMasterNotFound
	}
	return master, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение

func newService(bookings ...*domain.Booking) (*Service, *fakeBookingRepo) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}

	masters := &fakeMasterRepo{masters: map[int64]*domain.Master{
		1: {ID: 1, Name: "Анна", ManagerIDs: []int64{managerID}, IsActive: true},
	}}

	return NewService(repo, masters, nopLogger{}), repo
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              id,
		UserID:          ownerID,
		MasterID:        1,
		ServiceID:       1,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          status,
		ServiceName:     "Маникюр",
		ServicePrice:    1500,
	}
}

// Тесты

func TestGetBooking_Access(t *testing.T) {
	svc, _ := newService(testBooking(1, domain.StatusPending))

	// Владелец
	resp, err := svc.GetBooking(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Администратор мастера
	_, err = svc.GetBooking(context.Background(), 1, managerID)
	require.NoError(t, err)

	// Посторонний пользователь
	_, err = svc.GetBooking(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetBooking_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetBooking(context.Background(), 42, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		userID  int64
		wantErr error
	}{
		{"владелец отменяет pending", domain.StatusPending, ownerID, nil},
		{"владелец отменяет confirmed", domain.StatusConfirmed, ownerID, nil},
		{"администратор отменяет чужую запись", domain.StatusPending, managerID, nil},
		{"посторонний не может отменить", domain.StatusPending, strangerID, ErrAccessDenied},
		{"completed не отменяется", domain.StatusCompleted, ownerID, ErrCannotCancel},
		{"cancelled не отменяется повторно", domain.StatusCancelled, ownerID, ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(testBooking(1, tt.status))

			err := svc.Cancel(context.Background(), 1, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			cancelled := repo.bookings[1]
			assert.Equal(t, domain.StatusCancelled, cancelled.Status)
			assert.NotNil(t, cancelled.CancelledAt)
		})
	}
}

func TestCancel_SecondCancelFails(t *testing.T) {
	svc, _ := newService(testBooking(1, domain.StatusPending))

	require.NoError(t, svc.Cancel(context.Background(), 1, ownerID))
	assert.ErrorIs(t, svc.Cancel(context.Background(), 1, ownerID), ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newService()
	assert.ErrorIs(t, svc.Cancel(context.Background(), 42, ownerID), ErrBookingNotFound)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{"pending -> confirmed", domain.StatusPending, "confirmed", nil},
		{"pending -> cancelled", domain.StatusPending, "cancelled", nil},
		{"confirmed -> completed", domain.StatusConfirmed, "completed", nil},
		{"confirmed -> cancelled", domain.StatusConfirmed, "cancelled", nil},
		{"pending -> completed запрещён", domain.StatusPending, "completed", ErrInvalidTransition},
		{"completed терминален", domain.StatusCompleted, "cancelled", ErrInvalidTransition},
		{"cancelled терминален", domain.StatusCancelled, "confirmed", ErrInvalidTransition},
		{"неизвестный статус", domain.StatusPending, "archived", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(testBooking(1, tt.from))

			resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				UserID: managerID,
				Status: tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
			assert.Equal(t, domain.BookingStatus(tt.to), repo.bookings[1].Status)
		})
	}
}

func TestUpdateStatus_ManagerOnly(t *testing.T) {
	svc, _ := newService(testBooking(1, domain.StatusPending))

	// Даже владелец записи не может менять статус напрямую
	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_CancelStampsCancelledAt(t *testing.T) {
	svc, repo := newService(testBooking(1, domain.StatusPending))

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "cancelled",
	})
	require.NoError(t, err)
	assert.NotNil(t, repo.bookings[1].CancelledAt)
}

func TestGetUserBookings(t *testing.T) {
	first := testBooking(1, domain.StatusPending)
	second := testBooking(2, domain.StatusCancelled)
	foreign := testBooking(3, domain.StatusPending)
	foreign.UserID = strangerID

	svc, _ := newService(first, second, foreign)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: ownerID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetMasterBookings(t *testing.T) {
	active := testBooking(1, domain.StatusConfirmed)
	cancelled := testBooking(2, domain.StatusCancelled)

	svc, _ := newService(active, cancelled)

	// Только администратор
	_, err := svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		UserID:   ownerID,
		MasterID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// По умолчанию - только занимающие записи
	resp, err := svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		UserID:   managerID,
		MasterID: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	// С завершёнными и отменёнными
	resp, err = svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		UserID:          managerID,
		MasterID:        1,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}
