package get_available_slots

import (
	"context"
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOccupyingInRange получает бронирования, занимающие время в [from, to)
	GetOccupyingInRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Booking, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	GetInRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.TimeBlock, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// MasterRepository интерфейс репозитория мастеров
type MasterRepository interface {
	GetActive(ctx context.Context) (*domain.Master, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
