package pipeline

import (
	"math"
	"time"

	"github.com/Kentroth/instasheets-replacement/internal/shopify"
)

// InScope reports whether an order belongs in this sync run: it must carry a
// fulfillment-date tag, and that date must fall within windowDays of now in
// either direction. Both boundaries are inclusive.
func InScope(o shopify.Order, now time.Time, windowDays int) bool {
	d, ok := ExtractTagDate(o.Tags)
	if !ok {
		return false
	}
	return daysBetween(now, d) <= windowDays
}

func daysBetween(a, b time.Time) int {
	hours := dateOnly(a).Sub(dateOnly(b)).Hours()
	return int(math.Abs(hours / 24))
}

// dateOnly drops the time-of-day and zone so day arithmetic is exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
