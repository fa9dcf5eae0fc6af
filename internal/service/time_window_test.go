package service

import (
	"testing"
	"time"
)

func TestParseTimeWindowNowIsZeroWidth(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	for _, kind := range []string{"", "now", "NOW"} {
		start, end, err := ParseTimeWindow(kind, "", "", now)
		if err != nil {
			t.Fatalf("kind %q: unexpected error %v", kind, err)
		}
		if !start.Equal(now) || !end.Equal(now) {
			t.Fatalf("kind %q: want [%v, %v] got [%v, %v]", kind, now, now, start, end)
		}
	}
}

func TestParseTimeWindowTodaySpansUTCDay(t *testing.T) {
	now := time.Date(2026, 5, 1, 23, 59, 59, 0, time.UTC)
	start, end, err := ParseTimeWindow("today", "", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("start want %v got %v", wantStart, start)
	}
	if !end.After(start) || !end.Before(wantStart.Add(24*time.Hour)) {
		t.Fatalf("end %v must fall inside the same day", end)
	}
}

func TestParseTimeWindowRange(t *testing.T) {
	now := time.Now().UTC()
	start, end, err := ParseTimeWindow("range", "2026-05-01T00:00:00Z", "2026-05-02T00:00:00Z", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.After(start) {
		t.Fatalf("range [%v, %v] should be ordered", start, end)
	}

	cases := []struct {
		name  string
		from  string
		until string
	}{
		{"missing from", "", "2026-05-02T00:00:00Z"},
		{"missing until", "2026-05-01T00:00:00Z", ""},
		{"unparsable", "yesterday", "tomorrow"},
		{"inverted", "2026-05-02T00:00:00Z", "2026-05-01T00:00:00Z"},
	}
	for _, tc := range cases {
		if _, _, err := ParseTimeWindow("range", tc.from, tc.until, now); err != ErrTimeWindowInvalid {
			t.Fatalf("%s: want ErrTimeWindowInvalid got %v", tc.name, err)
		}
	}

	if _, _, err := ParseTimeWindow("fortnight", "", "", now); err != ErrTimeWindowInvalid {
		t.Fatalf("unknown kind: want ErrTimeWindowInvalid got %v", err)
	}
}

func TestClaimDayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*3600)
	// 23:00 local on Apr 30 is already May 1 in UTC.
	local := time.Date(2026, 4, 30, 23, 0, 0, 0, loc)
	if got := ClaimDay(local); got != "2026-05-01" {
		t.Fatalf("claim day want 2026-05-01 got %s", got)
	}
}
