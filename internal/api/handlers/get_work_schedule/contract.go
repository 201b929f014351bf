package get_work_schedule

import (
	"context"

	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWorkSchedule(ctx context.Context, masterID int64) (*models.WorkScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
