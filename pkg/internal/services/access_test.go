package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithinAccessWindow(t *testing.T) {
	start := referenceTime
	end := referenceTime.Add(30 * time.Minute)

	cases := []struct {
		name   string
		now    time.Time
		end    time.Time
		window int
		want   bool
	}{
		{"too early", start.Add(-16 * time.Minute), end, 15, false},
		{"window opens", start.Add(-15 * time.Minute), end, 15, true},
		{"during slot", start.Add(10 * time.Minute), end, 15, true},
		{"window closes", end.Add(15 * time.Minute), end, 15, true},
		{"too late", end.Add(16 * time.Minute), end, 15, false},
		{"point slot", start.Add(5 * time.Minute), time.Time{}, 5, true},
		{"point slot late", start.Add(6 * time.Minute), time.Time{}, 5, false},
		{"no window", start, time.Time{}, -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WithinAccessWindow(tc.now, start, tc.end, tc.window))
		})
	}
}
