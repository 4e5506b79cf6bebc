package digest

import (
	"time"

	"github.com/taskflow/taskflow/internal/models"
	"github.com/taskflow/taskflow/internal/timeutil"
)

// FireWindow bounds how late an evaluation may run and still count as on
// time for a day's slot. It must be at least as wide as the trigger
// interval or the scheduled minute could be skipped entirely.
const FireWindow = 5 * time.Minute

// Decision is the outcome of evaluating one schedule at one instant.
type Decision struct {
	Fire   bool
	Reason string
}

func skip(reason string) Decision { return Decision{Fire: false, Reason: reason} }

// Evaluate decides whether a schedule should fire at the given instant.
// It is pure: the caller persists the watermark advance after acting on a
// Fire decision. It is also total over well-formed and malformed schedules
// alike; bad timezone or time-of-day data yields a Skip, never a panic.
func Evaluate(s *models.EmailSchedule, now time.Time) Decision {
	loc := timeutil.LoadLocation(s.Timezone)
	localNow := timeutil.ToLocal(now, loc)

	hour, minute, err := timeutil.ParseTimeOfDay(s.TimeOfDay)
	if err != nil {
		return skip("invalid time_of_day")
	}

	// Today's scheduled fire instant: local calendar date + configured
	// wall-clock time, resolved to UTC for this specific date.
	scheduled := timeutil.ToInstant(localNow.Year(), localNow.Month(), localNow.Day(), hour, minute, loc)

	// Half-open window [scheduled, scheduled+FireWindow). A run later than
	// that permanently misses the day's slot; there is no catch-up.
	if now.Before(scheduled) {
		return skip("before window")
	}
	if !now.Before(scheduled.Add(FireWindow)) {
		return skip("after window")
	}

	if s.Cadence == models.CadenceWeekly {
		if s.DayOfWeek == nil {
			return skip("day_of_week not set")
		}
		if int(localNow.Weekday()) != *s.DayOfWeek {
			return skip("wrong day of week")
		}
	}

	if s.LastSentAt != nil {
		sameDate := timeutil.SameLocalDate(*s.LastSentAt, now, loc)
		switch s.Cadence {
		case models.CadenceWeekly:
			if sameDate && timeutil.SameISOWeek(*s.LastSentAt, now, loc) {
				return skip("already sent this week")
			}
		default:
			if sameDate {
				return skip("already sent today")
			}
		}
	}

	return Decision{Fire: true, Reason: "in window"}
}
