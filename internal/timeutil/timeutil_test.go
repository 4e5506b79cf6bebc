package timeutil

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"08:00", 8, 0, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"", 0, 0, true},
		{"8am", 0, 0, true},
		{"25:00", 0, 0, true},
		{"08:65", 0, 0, true},
	}

	for _, tc := range cases {
		h, m, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if h != tc.hour || m != tc.minute {
			t.Errorf("%q: got %d:%d, want %d:%d", tc.in, h, m, tc.hour, tc.minute)
		}
	}
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	if loc := LoadLocation("Not/AZone"); loc != time.UTC {
		t.Errorf("invalid name should fall back to UTC, got %v", loc)
	}
	if loc := LoadLocation(""); loc != time.UTC {
		t.Errorf("empty name should fall back to UTC, got %v", loc)
	}
	if loc := LoadLocation("America/New_York"); loc.String() != "America/New_York" {
		t.Errorf("valid name should load, got %v", loc)
	}
}

func TestToInstantResolvesDSTOffsets(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 08:00 local is UTC-8 before the March 2024 spring-forward and
	// UTC-7 after it.
	winter := ToInstant(2024, time.March, 8, 8, 0, loc)
	if got := winter.UTC().Hour(); got != 16 {
		t.Errorf("winter 08:00 local = %d UTC, want 16", got)
	}

	summer := ToInstant(2024, time.March, 12, 8, 0, loc)
	if got := summer.UTC().Hour(); got != 15 {
		t.Errorf("summer 08:00 local = %d UTC, want 15", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2024-03-04 22:00 UTC is 2024-03-05 11:00 in Auckland.
	instant := time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)
	start := StartOfDay(instant, loc)

	if start.Hour() != 0 || start.Minute() != 0 {
		t.Errorf("start of day has non-zero clock: %v", start)
	}
	if y, m, d := start.Date(); y != 2024 || m != time.March || d != 5 {
		t.Errorf("start of day date = %d-%02d-%02d, want 2024-03-05", y, m, d)
	}
}

func TestSameLocalDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 06:00 and 07:30 UTC on March 5 are both late evening March 4 in LA.
	a := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC)
	if !SameLocalDate(a, b, loc) {
		t.Errorf("expected same local date in LA")
	}

	// In UTC they share a date too, but 15:00 UTC moves LA to March 5.
	c := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	if SameLocalDate(a, c, loc) {
		t.Errorf("expected different local dates in LA")
	}
}

func TestSameISOWeek(t *testing.T) {
	// 2024-03-04 is a Monday; 2024-03-10 the following Sunday; ISO weeks
	// run Monday through Sunday.
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

	if !SameISOWeek(monday, sunday, time.UTC) {
		t.Errorf("Monday and the following Sunday share an ISO week")
	}
	if SameISOWeek(monday, nextMonday, time.UTC) {
		t.Errorf("consecutive Mondays are different ISO weeks")
	}
}
