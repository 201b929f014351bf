package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
)

// Фейк репозитория

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return service, nil
}

func (r *fakeServiceRepo) ListActive(_ context.Context) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0)
	for _, s := range r.services {
		if s.IsActive {
			result = append(result, s)
		}
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение

func newService(services ...*domain.Service) *Service {
	repo := &fakeServiceRepo{services: map[int64]*domain.Service{}}
	for _, s := range services {
		repo.services[s.ID] = s
	}
	return NewService(repo, nopLogger{})
}

func testService(id int64, name string, active bool) *domain.Service {
	return &domain.Service{
		ID:              id,
		Name:            name,
		Price:           1500,
		DurationMinutes: 60,
		IsActive:        active,
	}
}

// Тесты

func TestListServices(t *testing.T) {
	svc := newService(
		testService(1, "Маникюр", true),
		testService(2, "Педикюр", true),
		testService(3, "Наращивание", false),
	)

	resp, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	// Неактивные услуги не попадают в каталог
	assert.Len(t, resp.Services, 2)
}

func TestGetService(t *testing.T) {
	svc := newService(
		testService(1, "Маникюр", true),
		testService(3, "Наращивание", false),
	)

	resp, err := svc.GetService(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Маникюр", resp.Name)

	// Неактивная услуга для клиента равнозначна отсутствующей
	_, err = svc.GetService(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.GetService(context.Background(), 42)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.GetService(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
