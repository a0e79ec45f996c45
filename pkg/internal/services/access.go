package services

import "time"

// WithinAccessWindow reports whether now lies in the appointment slot widened
// by window minutes on both sides. A zero endsAt means the slot is a point.
func WithinAccessWindow(now, startsAt, endsAt time.Time, window int) bool {
	if window < 0 {
		window = 0
	}
	if endsAt.Before(startsAt) {
		endsAt = startsAt
	}
	margin := time.Duration(window) * time.Minute
	return !now.Before(startsAt.Add(-margin)) && !now.After(endsAt.Add(margin))
}
