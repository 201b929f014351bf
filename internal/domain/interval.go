package domain

import "time"

// Interval represents a half-open time interval [Start, End).
// All overlap checks in the service go through Overlaps so that the
// availability calculator and the booking write path can never diverge.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from a start time and a duration.
func NewInterval(start time.Time, duration time.Duration) Interval {
	return Interval{Start: start, End: start.Add(duration)}
}

// IsValid returns true if the interval has a positive length.
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Overlaps returns true if two half-open intervals share at least one instant.
// Intervals [a, b) and [c, d) overlap iff a < d && c < b, so intervals that
// merely touch at a boundary do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// OverlapsAny returns true if the interval overlaps at least one of the given intervals.
func (i Interval) OverlapsAny(intervals []Interval) bool {
	for _, other := range intervals {
		if i.Overlaps(other) {
			return true
		}
	}
	return false
}
