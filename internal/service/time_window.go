package service

import (
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
)

// claimDayLayout formats the UTC calendar day used for per-visit cadence.
const claimDayLayout = "2006-01-02"

// ParseTimeWindow resolves a window selector into concrete bounds.
// "now" is a zero-width window at the current instant, "today" spans the
// current UTC calendar day, "range" requires both RFC 3339 bounds.
func ParseTimeWindow(kind, from, until string, now time.Time) (time.Time, time.Time, error) {
	switch strings.TrimSpace(strings.ToLower(kind)) {
	case "", constants.TimeWindowNow:
		return now, now, nil
	case constants.TimeWindowToday:
		day := now.UTC().Truncate(24 * time.Hour)
		return day, day.Add(24*time.Hour - time.Nanosecond), nil
	case constants.TimeWindowRange:
		if strings.TrimSpace(from) == "" || strings.TrimSpace(until) == "" {
			return time.Time{}, time.Time{}, ErrTimeWindowInvalid
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(from))
		if err != nil {
			return time.Time{}, time.Time{}, ErrTimeWindowInvalid
		}
		end, err := time.Parse(time.RFC3339, strings.TrimSpace(until))
		if err != nil {
			return time.Time{}, time.Time{}, ErrTimeWindowInvalid
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, ErrTimeWindowInvalid
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, ErrTimeWindowInvalid
	}
}

// IsSpecialActive reports whether a special is claimable at now. Both window
// bounds are inclusive.
func IsSpecialActive(now, validFrom, validUntil time.Time, isActive bool) bool {
	if !isActive {
		return false
	}
	return !now.Before(validFrom) && !now.After(validUntil)
}

// ClaimDay returns the UTC calendar day string used by per-visit cadence.
// Day boundaries are fixed to UTC so the "once per day" rule does not shift
// with the venue's or the claimant's clock.
func ClaimDay(now time.Time) string {
	return now.UTC().Format(claimDayLayout)
}
