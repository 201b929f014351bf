package domain

import "time"

// Master represents the salon master whose calendar is being booked.
// The service schedules a single active master at a time
type Master struct {
	ID         int64
	Name       string
	WorkHours  WorkSchedule
	ManagerIDs []int64 // Telegram IDs пользователей с правами администратора
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasManager returns true if the user administers this master's calendar
func (m *Master) HasManager(userID int64) bool {
	for _, id := range m.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
