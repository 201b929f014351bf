package update_work_schedule

import (
	"context"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateWorkSchedule(ctx context.Context, masterID, userID int64, hours domain.WorkSchedule) (*models.WorkScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
