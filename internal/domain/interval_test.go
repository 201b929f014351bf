package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        [2]string
		b        [2]string
		expected bool
	}{
		{
			name:     "полное перекрытие",
			a:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			b:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			expected: true,
		},
		{
			name:     "частичное перекрытие справа",
			a:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			b:        [2]string{"2026-01-15 10:30", "2026-01-15 11:30"},
			expected: true,
		},
		{
			name:     "частичное перекрытие слева",
			a:        [2]string{"2026-01-15 10:30", "2026-01-15 11:30"},
			b:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			expected: true,
		},
		{
			name:     "один внутри другого",
			a:        [2]string{"2026-01-15 10:00", "2026-01-15 12:00"},
			b:        [2]string{"2026-01-15 10:30", "2026-01-15 11:00"},
			expected: true,
		},
		{
			name:     "касание границ не считается пересечением",
			a:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			b:        [2]string{"2026-01-15 11:00", "2026-01-15 12:00"},
			expected: false,
		},
		{
			name:     "касание границ в обратном порядке",
			a:        [2]string{"2026-01-15 11:00", "2026-01-15 12:00"},
			b:        [2]string{"2026-01-15 10:00", "2026-01-15 11:00"},
			expected: false,
		},
		{
			name:     "полностью раздельные интервалы",
			a:        [2]string{"2026-01-15 09:00", "2026-01-15 10:00"},
			b:        [2]string{"2026-01-15 14:00", "2026-01-15 15:00"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Interval{Start: mustTime(t, tt.a[0]), End: mustTime(t, tt.a[1])}
			b := Interval{Start: mustTime(t, tt.b[0]), End: mustTime(t, tt.b[1])}

			assert.Equal(t, tt.expected, a.Overlaps(b))
			// Пересечение симметрично
			assert.Equal(t, tt.expected, b.Overlaps(a))
		})
	}
}

func TestInterval_OverlapsAny(t *testing.T) {
	target := Interval{
		Start: mustTime(t, "2026-01-15 10:00"),
		End:   mustTime(t, "2026-01-15 11:00"),
	}

	busy := []Interval{
		{Start: mustTime(t, "2026-01-15 08:00"), End: mustTime(t, "2026-01-15 09:00")},
		{Start: mustTime(t, "2026-01-15 12:00"), End: mustTime(t, "2026-01-15 13:00")},
	}
	assert.False(t, target.OverlapsAny(busy))

	busy = append(busy, Interval{
		Start: mustTime(t, "2026-01-15 10:30"),
		End:   mustTime(t, "2026-01-15 11:30"),
	})
	assert.True(t, target.OverlapsAny(busy))

	assert.False(t, target.OverlapsAny(nil))
}

func TestNewInterval(t *testing.T) {
	start := mustTime(t, "2026-01-15 10:00")
	interval := NewInterval(start, 90*time.Minute)

	assert.Equal(t, start, interval.Start)
	assert.Equal(t, mustTime(t, "2026-01-15 11:30"), interval.End)
	assert.True(t, interval.IsValid())
}

func TestInterval_IsValid(t *testing.T) {
	start := mustTime(t, "2026-01-15 10:00")

	assert.True(t, Interval{Start: start, End: start.Add(time.Minute)}.IsValid())
	assert.False(t, Interval{Start: start, End: start}.IsValid())
	assert.False(t, Interval{Start: start, End: start.Add(-time.Minute)}.IsValid())
}
