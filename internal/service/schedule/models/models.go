package models

import (
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
)

// Request модели

// CreateTimeBlockRequest запрос на создание блокировки времени
type CreateTimeBlockRequest struct {
	UserID    int64     `json:"userId"`
	MasterID  int64     `json:"masterId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"` // Причина блокировки (опционально)
}

// ListTimeBlocksRequest запрос на получение блокировок за период
type ListTimeBlocksRequest struct {
	UserID   int64     `json:"userId"`
	MasterID int64     `json:"masterId"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// Response модели

// TimeBlockResponse ответ с данными блокировки
type TimeBlockResponse struct {
	ID        int64     `json:"id"`
	MasterID  int64     `json:"masterId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimeBlockListResponse ответ со списком блокировок
type TimeBlockListResponse struct {
	TimeBlocks []TimeBlockResponse `json:"timeBlocks"`
}

// WorkScheduleResponse ответ с расписанием работы мастера
type WorkScheduleResponse struct {
	MasterID  int64               `json:"masterId"`
	WorkHours domain.WorkSchedule `json:"workHours"`
}

// Методы конвертации

// FromDomainTimeBlock конвертирует domain модель в DTO
func FromDomainTimeBlock(b *domain.TimeBlock) *TimeBlockResponse {
	if b == nil {
		return nil
	}

	return &TimeBlockResponse{
		ID:        b.ID,
		MasterID:  b.MasterID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainTimeBlockList конвертирует список domain моделей в DTO
func FromDomainTimeBlockList(blocks []*domain.TimeBlock) *TimeBlockListResponse {
	resp := &TimeBlockListResponse{
		TimeBlocks: make([]TimeBlockResponse, 0, len(blocks)),
	}

	for _, block := range blocks {
		if blockResp := FromDomainTimeBlock(block); blockResp != nil {
			resp.TimeBlocks = append(resp.TimeBlocks, *blockResp)
		}
	}

	return resp
}
