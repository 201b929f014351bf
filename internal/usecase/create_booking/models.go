package create_booking

import "time"

// Request модель запроса на создание записи
type Request struct {
	UserID    int64     // Telegram ID клиента
	ServiceID int64     // ID услуги
	StartTime time.Time // Запрошенное время начала
	Notes     *string   // Дополнительные пожелания (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64     // ID созданной записи
	UserID          int64     // Telegram ID клиента
	MasterID        int64     // ID мастера
	ServiceID       int64     // ID услуги
	StartTime       time.Time // Время начала
	EndTime         time.Time // Время окончания
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус записи (pending до подтверждения администратором)

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
