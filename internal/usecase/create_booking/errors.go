package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrMasterNotFound возвращается, когда нет активного мастера
	ErrMasterNotFound = errors.New("create_booking: master not found")

	// ErrSlotNotAvailable возвращается, когда запрошенный интервал пересекается
	// с существующим бронированием или блокировкой, в том числе при проигранной
	// гонке за слот на этапе коммита
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrOutsideWorkingHours возвращается, когда интервал услуги не помещается
	// в рабочее окно мастера (включая выходные дни)
	ErrOutsideWorkingHours = errors.New("create_booking: outside working hours")

	// ErrInvalidDate возвращается при попытке записи на прошедшее время
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
