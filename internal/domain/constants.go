package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
)

// OccupyingStatuses статусы бронирований, занимающих время в календаре
// Используется при выборке занятых интервалов
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
