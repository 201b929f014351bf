package list_time_blocks

import (
	"context"

	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

type ScheduleService interface {
	ListTimeBlocks(ctx context.Context, req *models.ListTimeBlocksRequest) (*models.TimeBlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
