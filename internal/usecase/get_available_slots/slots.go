package get_available_slots

import (
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
)

// collectBusyIntervals собирает занятые интервалы дня:
// активные бронирования и административные блокировки равнозначны -
// пересечение с любым из них дисквалифицирует слот
func collectBusyIntervals(bookings []*domain.Booking, blocks []*domain.TimeBlock) []domain.Interval {
	busy := make([]domain.Interval, 0, len(bookings)+len(blocks))

	for _, b := range bookings {
		// Репозиторий отдаёт только занимающие статусы, но статус
		// проверяется и здесь, чтобы расчёт не зависел от выборки
		if !b.OccupiesSlot() {
			continue
		}
		busy = append(busy, b.Interval())
	}

	for _, block := range blocks {
		busy = append(busy, block.Interval())
	}

	return busy
}

// generateSlots генерирует доступные времена начала слотов.
// Кандидаты идут от начала рабочего окна с шагом granularity;
// кандидат отбрасывается, если услуга не помещается до конца окна
// или интервал услуги пересекается с любым занятым интервалом
func generateSlots(
	window domain.Interval,
	serviceDuration time.Duration,
	granularity time.Duration,
	busy []domain.Interval,
) []time.Time {
	slots := make([]time.Time, 0)

	for start := window.Start; ; start = start.Add(granularity) {
		end := start.Add(serviceDuration)
		if end.After(window.End) {
			break
		}

		candidate := domain.Interval{Start: start, End: end}
		if candidate.OverlapsAny(busy) {
			continue
		}

		slots = append(slots, start)
	}

	return slots
}

// dayBounds возвращает границы суток даты date: [00:00, 00:00 следующего дня)
func dayBounds(date time.Time) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
