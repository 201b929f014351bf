package create_time_block

import (
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

// CreateTimeBlockRequest HTTP request model
type CreateTimeBlockRequest struct {
	StartTime time.Time `json:"startTime"` // RFC 3339
	EndTime   time.Time `json:"endTime"`   // RFC 3339
	Reason    *string   `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateTimeBlockRequest) ToServiceRequest(masterID, userID int64) *models.CreateTimeBlockRequest {
	return &models.CreateTimeBlockRequest{
		UserID:    userID,
		MasterID:  masterID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}
}
