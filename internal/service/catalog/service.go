package catalog

import (
	"context"
	"errors"
	"fmt"

	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый сервис каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// ListServices возвращает активные услуги, отсортированные по названию
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListServices: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: failed to list services: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetService возвращает услугу по ID
// Неактивная услуга для клиента равнозначна отсутствующей
func (s *Service) GetService(ctx context.Context, serviceID int64) (*models.ServiceResponse, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetService: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		s.logger.Warn("GetService: service id=%d is inactive", serviceID)
		return nil, ErrServiceNotFound
	}

	return models.FromDomainService(service), nil
}
