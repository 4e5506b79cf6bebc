package api

import (
	"encoding/json"
	"testing"
)

func payload(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return m
}

func TestValidateSchedulePayload_Valid(t *testing.T) {
	cases := []string{
		`{}`,
		`{"enabled": true}`,
		`{"cadence": "DAILY", "timeOfDay": "08:00", "timezone": "America/Los_Angeles"}`,
		`{"cadence": "WEEKLY", "dayOfWeek": 1, "timeOfDay": "09:30"}`,
		`{"includeProjectIds": [1, 2], "outstandingStatuses": ["BACKLOG", "BLOCKED"]}`,
		`{"includeProjectIds": []}`,
	}
	for _, raw := range cases {
		if err := validateSchedulePayload(payload(t, raw)); err != nil {
			t.Errorf("%s: unexpected error: %v", raw, err)
		}
	}
}

func TestValidateSchedulePayload_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad time format", `{"timeOfDay": "8am"}`},
		{"hour out of range", `{"timeOfDay": "25:00"}`},
		{"bad cadence", `{"cadence": "MONTHLY"}`},
		{"day of week out of range", `{"cadence": "WEEKLY", "dayOfWeek": 7}`},
		{"weekly without day of week", `{"cadence": "WEEKLY"}`},
		{"weekly with null day of week", `{"cadence": "WEEKLY", "dayOfWeek": null}`},
		{"bad status value", `{"outstandingStatuses": ["SOMEDAY"]}`},
		{"unknown timezone", `{"timezone": "Not/AZone"}`},
		{"unknown field", `{"frequency": "daily"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateSchedulePayload(payload(t, tc.raw)); err == nil {
				t.Errorf("expected validation error for %s", tc.raw)
			}
		})
	}
}
