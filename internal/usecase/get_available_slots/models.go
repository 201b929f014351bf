package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги (длительность услуги задаёт длину слота)
	Date      time.Time // Дата, на которую запрашиваются слоты (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time   // Дата, на которую запрашивались слоты
	ServiceID       int64       // ID услуги
	DurationMinutes int         // Длительность услуги в минутах
	Slots           []time.Time // Времена начала доступных слотов по возрастанию
}
