package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	timeblockRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/timeblock"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

// Service сервис расписания мастера: блокировки времени и рабочие часы
type Service struct {
	timeBlockRepo TimeBlockRepository
	masterRepo    MasterRepository
	logger        Logger
}

// NewService создает новый сервис расписания
func NewService(timeBlockRepo TimeBlockRepository, masterRepo MasterRepository, logger Logger) *Service {
	return &Service{
		timeBlockRepo: timeBlockRepo,
		masterRepo:    masterRepo,
		logger:        logger,
	}
}

// CreateTimeBlock создает блокировку времени (перерыв, отпуск)
// Доступно только администраторам мастера
// Забронированные на это время записи не отменяются автоматически
func (s *Service) CreateTimeBlock(ctx context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error) {
	if req.UserID <= 0 || req.MasterID <= 0 {
		return nil, fmt.Errorf("%w: userID and masterID must be positive", ErrInvalidInput)
	}

	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if !interval.IsValid() {
		s.logger.Warn("CreateTimeBlock: invalid interval %s - %s",
			req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("2006-01-02 15:04"))
		return nil, ErrInvalidInterval
	}

	if err := s.requireManager(ctx, "CreateTimeBlock", req.MasterID, req.UserID); err != nil {
		return nil, err
	}

	block := &domain.TimeBlock{
		MasterID:  req.MasterID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}

	created, err := s.timeBlockRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateTimeBlock: failed to create time block: %v", err)
		return nil, fmt.Errorf("%w: failed to create time block: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeBlock: created time block id=%d for master=%d", created.ID, req.MasterID)
	return models.FromDomainTimeBlock(created), nil
}

// ListTimeBlocks возвращает блокировки мастера за период
// Доступно только администраторам мастера
func (s *Service) ListTimeBlocks(ctx context.Context, req *models.ListTimeBlocksRequest) (*models.TimeBlockListResponse, error) {
	if req.UserID <= 0 || req.MasterID <= 0 {
		return nil, fmt.Errorf("%w: userID and masterID must be positive", ErrInvalidInput)
	}
	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	if err := s.requireManager(ctx, "ListTimeBlocks", req.MasterID, req.UserID); err != nil {
		return nil, err
	}

	blocks, err := s.timeBlockRepo.GetInRange(ctx, req.MasterID, req.From, req.To)
	if err != nil {
		s.logger.Error("ListTimeBlocks: failed to get time blocks for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	return models.FromDomainTimeBlockList(blocks), nil
}

// DeleteTimeBlock удаляет блокировку времени
// Доступно только администраторам мастера
func (s *Service) DeleteTimeBlock(ctx context.Context, blockID, userID int64) error {
	if blockID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: blockID and userID must be positive", ErrInvalidInput)
	}

	block, err := s.timeBlockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, timeblockRepo.ErrTimeBlockNotFound) {
			s.logger.Warn("DeleteTimeBlock: time block id=%d not found", blockID)
			return ErrTimeBlockNotFound
		}
		s.logger.Error("DeleteTimeBlock: failed to get time block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: failed to get time block: %v", ErrInternal, err)
	}

	if err := s.requireManager(ctx, "DeleteTimeBlock", block.MasterID, userID); err != nil {
		return err
	}

	if err := s.timeBlockRepo.Delete(ctx, blockID); err != nil {
		if errors.Is(err, timeblockRepo.ErrTimeBlockNotFound) {
			return ErrTimeBlockNotFound
		}
		s.logger.Error("DeleteTimeBlock: failed to delete time block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: failed to delete time block: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteTimeBlock: time block id=%d deleted by user=%d", blockID, userID)
	return nil
}

// GetWorkSchedule возвращает недельное расписание мастера
func (s *Service) GetWorkSchedule(ctx context.Context, masterID int64) (*models.WorkScheduleResponse, error) {
	if masterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	master, err := s.getMaster(ctx, "GetWorkSchedule", masterID)
	if err != nil {
		return nil, err
	}

	return &models.WorkScheduleResponse{
		MasterID:  master.ID,
		WorkHours: master.WorkHours,
	}, nil
}

// UpdateWorkSchedule обновляет недельное расписание мастера
// Доступно только администраторам мастера
// Существующие записи вне нового расписания не отменяются
func (s *Service) UpdateWorkSchedule(ctx context.Context, masterID, userID int64, hours domain.WorkSchedule) (*models.WorkScheduleResponse, error) {
	if masterID <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: masterID and userID must be positive", ErrInvalidInput)
	}

	if err := s.requireManager(ctx, "UpdateWorkSchedule", masterID, userID); err != nil {
		return nil, err
	}

	if err := s.masterRepo.UpdateWorkHours(ctx, masterID, hours); err != nil {
		s.logger.Error("UpdateWorkSchedule: failed to update work hours for master=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: failed to update work hours: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkSchedule: master=%d schedule updated by user=%d", masterID, userID)
	return &models.WorkScheduleResponse{
		MasterID:  masterID,
		WorkHours: hours,
	}, nil
}

// getMaster получает мастера с маппингом ошибки "не найден"
func (s *Service) getMaster(ctx context.Context, op string, masterID int64) (*domain.Master, error) {
	master, err := s.masterRepo.GetByID(ctx, masterID)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			s.logger.Warn("%s: master id=%d not found", op, masterID)
			return nil, ErrMasterNotFound
		}
		s.logger.Error("%s: failed to get master id=%d: %v", op, masterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	return master, nil
}

// requireManager проверяет права администратора мастера
func (s *Service) requireManager(ctx context.Context, op string, masterID, userID int64) error {
	master, err := s.getMaster(ctx, op, masterID)
	if err != nil {
		return err
	}
	if !master.HasManager(userID) {
		s.logger.Warn("%s: user=%d is not a manager of master=%d", op, userID, masterID)
		return ErrAccessDenied
	}
	return nil
}
