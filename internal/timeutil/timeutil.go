// Package timeutil is the single boundary for wall-clock/instant conversion.
// All timezone math in the digest core goes through these helpers so DST
// edge cases are handled in one place.
package timeutil

import (
	"fmt"
	"log/slog"
	"time"
)

// LoadLocation resolves an IANA timezone name, falling back to UTC when the
// name is invalid or empty so callers never have to handle a load failure.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

// ParseTimeOfDay parses 24-hour "HH:MM" text into hour and minute components.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ToLocal converts an absolute instant into the given location.
func ToLocal(instant time.Time, loc *time.Location) time.Time {
	return instant.In(loc)
}

// ToInstant combines a local calendar date with a wall-clock time in the
// given location and returns the absolute instant. time.Date resolves the
// UTC offset for that specific date, so the same wall-clock time maps to
// different instants across a DST transition.
func ToInstant(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// StartOfDay returns the first instant of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameLocalDate reports whether two instants fall on the same calendar date
// when viewed in loc.
func SameLocalDate(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}

// SameISOWeek reports whether two instants fall in the same ISO 8601 week
// when viewed in loc.
func SameISOWeek(a, b time.Time, loc *time.Location) bool {
	ay, aw := a.In(loc).ISOWeek()
	by, bw := b.In(loc).ISOWeek()
	return ay == by && aw == bw
}
