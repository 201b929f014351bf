package schedule

import (
	"context"
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
)

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error)
	GetInRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.TimeBlock, error)
	Delete(ctx context.Context, id int64) error
}

// MasterRepository интерфейс репозитория мастеров
type MasterRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Master, error)
	UpdateWorkHours(ctx context.Context, id int64, hours domain.WorkSchedule) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
