package domain

import (
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/pkg/types"
)

// DayHours represents the working window of a single weekday.
// A missing start or end means the day is closed.
type DayHours struct {
	Start *types.TimeString `json:"start"`
	End   *types.TimeString `json:"end"`
}

// IsOpen returns true if the day has a complete, well-formed working window
func (h *DayHours) IsOpen() bool {
	if h == nil || h.Start == nil || h.End == nil {
		return false
	}
	if h.Start.IsZero() || h.End.IsZero() {
		return false
	}
	return h.Start.IsBefore(*h.End)
}

// WorkSchedule represents the weekly working hours of a master.
// Stored as JSONB; keys are fixed English day names, independent of any locale
type WorkSchedule struct {
	Monday    *DayHours `json:"monday"`
	Tuesday   *DayHours `json:"tuesday"`
	Wednesday *DayHours `json:"wednesday"`
	Thursday  *DayHours `json:"thursday"`
	Friday    *DayHours `json:"friday"`
	Saturday  *DayHours `json:"saturday"`
	Sunday    *DayHours `json:"sunday"`
}

// HoursFor resolves the working window for a weekday.
// Resolution goes through time.Weekday, never through formatting a date
func (s WorkSchedule) HoursFor(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return nil
	}
}

// WindowFor resolves the working window of a concrete date as a half-open
// interval in the date's location. ok is false when the day is closed
func (s WorkSchedule) WindowFor(date time.Time) (Interval, bool, error) {
	hours := s.HoursFor(date.Weekday())
	if !hours.IsOpen() {
		return Interval{}, false, nil
	}

	open, err := hours.Start.OnDate(date)
	if err != nil {
		return Interval{}, false, err
	}

	close, err := hours.End.OnDate(date)
	if err != nil {
		return Interval{}, false, err
	}

	return Interval{Start: open, End: close}, true, nil
}

// TimeBlock represents an administratively blocked interval (vacation, break).
// Independent of bookings: it blocks availability but is never cancelled, only deleted
type TimeBlock struct {
	ID        int64
	MasterID  int64
	StartTime time.Time
	EndTime   time.Time
	Reason    *string
	CreatedAt time.Time
}

// Interval returns the blocked half-open time interval
func (b *TimeBlock) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
