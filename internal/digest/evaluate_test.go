package digest

import (
	"testing"
	"time"

	"github.com/taskflow/taskflow/internal/models"
)

func dailySchedule(timeOfDay, tz string) *models.EmailSchedule {
	return &models.EmailSchedule{
		Enabled:   true,
		Cadence:   models.CadenceDaily,
		TimeOfDay: timeOfDay,
		Timezone:  tz,
	}
}

func weeklySchedule(timeOfDay, tz string, dayOfWeek int) *models.EmailSchedule {
	s := dailySchedule(timeOfDay, tz)
	s.Cadence = models.CadenceWeekly
	s.DayOfWeek = &dayOfWeek
	return s
}

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestEvaluate_WindowBoundaries(t *testing.T) {
	s := dailySchedule("08:00", "UTC")

	cases := []struct {
		name string
		now  time.Time
		fire bool
	}{
		{"one second before window", time.Date(2024, 3, 4, 7, 59, 59, 0, time.UTC), false},
		{"window start", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), true},
		{"last second inside", time.Date(2024, 3, 4, 8, 4, 59, 0, time.UTC), true},
		{"window end is exclusive", time.Date(2024, 3, 4, 8, 5, 0, 0, time.UTC), false},
		{"well after window", time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(s, tc.now)
			if d.Fire != tc.fire {
				t.Errorf("at %s: fire = %v (%s), want %v", tc.now, d.Fire, d.Reason, tc.fire)
			}
		})
	}
}

func TestEvaluate_DailySuppression(t *testing.T) {
	s := dailySchedule("08:00", "UTC")
	sent := time.Date(2024, 3, 4, 8, 0, 30, 0, time.UTC)
	s.LastSentAt = &sent

	// Still inside the window by the clock, but the watermark says today
	// is already handled.
	d := Evaluate(s, time.Date(2024, 3, 4, 8, 3, 0, 0, time.UTC))
	if d.Fire {
		t.Fatalf("expected Skip after watermark advance, got Fire")
	}
	if d.Reason != "already sent today" {
		t.Errorf("reason = %q", d.Reason)
	}

	// Next day the same wall-clock instant fires again.
	d = Evaluate(s, time.Date(2024, 3, 5, 8, 3, 0, 0, time.UTC))
	if !d.Fire {
		t.Errorf("expected Fire next day, got Skip (%s)", d.Reason)
	}
}

func TestEvaluate_SkipIsIdempotent(t *testing.T) {
	s := dailySchedule("08:00", "UTC")
	sent := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	s.LastSentAt = &sent

	now := time.Date(2024, 3, 4, 8, 2, 0, 0, time.UTC)
	first := Evaluate(s, now)
	second := Evaluate(s, now)
	if first.Fire || second.Fire {
		t.Fatalf("expected Skip on both evaluations, got %v then %v", first.Fire, second.Fire)
	}
	if first.Reason != second.Reason {
		t.Errorf("reasons differ: %q vs %q", first.Reason, second.Reason)
	}
}

func TestEvaluate_WeeklyDayMatch(t *testing.T) {
	// dayOfWeek 1 = Monday. 2024-03-04 is a Monday, 2024-03-05 a Tuesday.
	s := weeklySchedule("08:00", "UTC", 1)

	d := Evaluate(s, time.Date(2024, 3, 4, 8, 1, 0, 0, time.UTC))
	if !d.Fire {
		t.Errorf("expected Fire on Monday, got Skip (%s)", d.Reason)
	}

	// Correct time of day on a Tuesday: window matches, day does not.
	d = Evaluate(s, time.Date(2024, 3, 5, 8, 1, 0, 0, time.UTC))
	if d.Fire {
		t.Errorf("expected Skip on Tuesday, got Fire")
	}
}

func TestEvaluate_WeeklySuppression(t *testing.T) {
	s := weeklySchedule("08:00", "UTC", 1)
	sent := time.Date(2024, 3, 4, 8, 0, 10, 0, time.UTC)
	s.LastSentAt = &sent

	d := Evaluate(s, time.Date(2024, 3, 4, 8, 2, 0, 0, time.UTC))
	if d.Fire {
		t.Errorf("expected Skip after this week's send, got Fire")
	}

	// Next Monday fires again.
	d = Evaluate(s, time.Date(2024, 3, 11, 8, 2, 0, 0, time.UTC))
	if !d.Fire {
		t.Errorf("expected Fire the following Monday, got Skip (%s)", d.Reason)
	}
}

func TestEvaluate_WeeklyWithoutDayOfWeek(t *testing.T) {
	s := weeklySchedule("08:00", "UTC", 0)
	s.DayOfWeek = nil

	d := Evaluate(s, time.Date(2024, 3, 4, 8, 1, 0, 0, time.UTC))
	if d.Fire {
		t.Fatalf("expected Skip for WEEKLY schedule without day_of_week")
	}
	if d.Reason != "day_of_week not set" {
		t.Errorf("reason = %q", d.Reason)
	}
}

func TestEvaluate_MalformedTimeOfDay(t *testing.T) {
	for _, bad := range []string{"", "8am", "25:00", "08:65"} {
		s := dailySchedule(bad, "UTC")
		d := Evaluate(s, time.Date(2024, 3, 4, 8, 1, 0, 0, time.UTC))
		if d.Fire {
			t.Errorf("time_of_day %q: expected Skip", bad)
		}
	}
}

func TestEvaluate_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	s := dailySchedule("08:00", "Not/AZone")
	d := Evaluate(s, time.Date(2024, 3, 4, 8, 1, 0, 0, time.UTC))
	if !d.Fire {
		t.Errorf("expected Fire with UTC fallback, got Skip (%s)", d.Reason)
	}
}

func TestEvaluate_TimezoneWindow(t *testing.T) {
	// 08:00 in Los Angeles (PST, UTC-8 in January) is 16:00 UTC.
	s := dailySchedule("08:00", "America/Los_Angeles")

	d := Evaluate(s, time.Date(2024, 1, 10, 16, 1, 0, 0, time.UTC))
	if !d.Fire {
		t.Errorf("expected Fire at 16:01 UTC (08:01 PST), got Skip (%s)", d.Reason)
	}

	d = Evaluate(s, time.Date(2024, 1, 10, 8, 1, 0, 0, time.UTC))
	if d.Fire {
		t.Errorf("expected Skip at 08:01 UTC (00:01 PST), got Fire")
	}
}

func TestEvaluate_AcrossDSTTransition(t *testing.T) {
	// US DST 2024: spring forward on March 10. Before, local 08:00 is
	// 16:00 UTC (PST); after, 15:00 UTC (PDT).
	s := dailySchedule("08:00", "America/Los_Angeles")
	loc := mustLoc(t, "America/Los_Angeles")

	before := time.Date(2024, 3, 8, 8, 1, 0, 0, loc)
	if got := before.UTC().Hour(); got != 16 {
		t.Fatalf("sanity: expected 16 UTC before transition, got %d", got)
	}
	if d := Evaluate(s, before.UTC()); !d.Fire {
		t.Errorf("expected Fire before spring-forward, got Skip (%s)", d.Reason)
	}

	after := time.Date(2024, 3, 12, 8, 1, 0, 0, loc)
	if got := after.UTC().Hour(); got != 15 {
		t.Fatalf("sanity: expected 15 UTC after transition, got %d", got)
	}
	if d := Evaluate(s, after.UTC()); !d.Fire {
		t.Errorf("expected Fire after spring-forward, got Skip (%s)", d.Reason)
	}

	// The pre-transition UTC instant no longer matches post-transition.
	stale := time.Date(2024, 3, 12, 16, 1, 0, 0, time.UTC)
	if d := Evaluate(s, stale); d.Fire {
		t.Errorf("expected Skip at stale UTC offset after transition, got Fire")
	}

	// Fall back on November 3: local 08:00 returns to 16:00 UTC.
	fallBack := time.Date(2024, 11, 5, 8, 1, 0, 0, loc)
	if got := fallBack.UTC().Hour(); got != 16 {
		t.Fatalf("sanity: expected 16 UTC after fall-back, got %d", got)
	}
	if d := Evaluate(s, fallBack.UTC()); !d.Fire {
		t.Errorf("expected Fire after fall-back, got Skip (%s)", d.Reason)
	}
}

func TestEvaluate_SuppressionUsesLocalDate(t *testing.T) {
	// Watermark 2024-03-04 23:30 local in Los Angeles is 2024-03-05 07:30
	// UTC. A schedule at 23:30 local must still treat the next local day
	// as unsent even though the UTC date already rolled over.
	s := dailySchedule("23:30", "America/Los_Angeles")
	loc := mustLoc(t, "America/Los_Angeles")
	sent := time.Date(2024, 3, 4, 23, 30, 10, 0, loc).UTC()
	s.LastSentAt = &sent

	now := time.Date(2024, 3, 5, 23, 31, 0, 0, loc).UTC()
	if d := Evaluate(s, now); !d.Fire {
		t.Errorf("expected Fire on the next local day, got Skip (%s)", d.Reason)
	}
}
