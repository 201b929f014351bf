package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// OccupiesSlot returns true if a booking with this status blocks its time interval.
// Completed and cancelled bookings are history and never block new reservations.
func (s BookingStatus) OccupiesSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no transitions out of this status are allowed
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status state machine allows the move:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Valid returns true if the status is one of the known values
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking represents an appointment in the salon calendar
type Booking struct {
	ID              int64
	UserID          int64
	MasterID        int64
	ServiceID       int64
	StartTime       time.Time
	EndTime         time.Time // = StartTime + service duration
	DurationMinutes int
	Status          BookingStatus

	// Denormalized service data for history
	ServiceName  string
	ServicePrice float64

	Notes       *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open time interval occupied by the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// OccupiesSlot returns true if the booking blocks its time interval
func (b *Booking) OccupiesSlot() bool {
	return b.Status.OccupiesSlot()
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// BookingsFilter фильтр для выборки бронирований мастера
type BookingsFilter struct {
	MasterID        int64          // Обязательный параметр
	UserID          *int64         // Фильтр по клиенту (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода, не включается (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые бронирования
}
