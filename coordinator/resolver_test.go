package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doseminder/doseminder-api/models"
)

func preventative(id string) *models.Medication {
	return &models.Medication{ID: id, Name: "Propranolol", Type: models.MedicationTypePreventative, Active: true}
}

func enabledSchedule(id, medID, clock string) models.MedicationSchedule {
	return models.MedicationSchedule{ID: id, MedicationID: medID, Time: clock, Enabled: true, ReminderEnabled: true}
}

// at builds a UTC instant on an arbitrary fixed day
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestResolveScheduleForTime(t *testing.T) {
	med := preventative("med-1")

	tests := []struct {
		name      string
		schedules []models.MedicationSchedule
		eventAt   time.Time
		expected  string
	}{
		{
			name: "single schedule inside window",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-morning", "med-1", "08:00"),
			},
			eventAt:  at(9, 30),
			expected: "sched-morning",
		},
		{
			name: "exactly on the window boundary matches",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-morning", "med-1", "08:00"),
			},
			eventAt:  at(11, 0),
			expected: "sched-morning",
		},
		{
			name: "one minute past the window does not match",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-morning", "med-1", "08:00"),
			},
			eventAt:  at(11, 1),
			expected: "",
		},
		{
			name: "nearest of two schedules wins",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-morning", "med-1", "08:00"),
				enabledSchedule("sched-evening", "med-1", "20:00"),
			},
			eventAt:  at(19, 0),
			expected: "sched-evening",
		},
		{
			name: "midnight wraparound measures the short way",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-night", "med-1", "23:30"),
			},
			eventAt:  at(0, 30),
			expected: "sched-night",
		},
		{
			name: "disabled schedule is ignored even when nearest",
			schedules: []models.MedicationSchedule{
				{ID: "sched-disabled", MedicationID: "med-1", Time: "09:00", Enabled: false},
				enabledSchedule("sched-morning", "med-1", "08:00"),
			},
			eventAt:  at(9, 0),
			expected: "sched-morning",
		},
		{
			name: "malformed time is skipped not fatal",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-bad", "med-1", "25:99"),
				enabledSchedule("sched-morning", "med-1", "08:00"),
			},
			eventAt:  at(8, 0),
			expected: "sched-morning",
		},
		{
			name: "equidistant schedules tie to the first",
			schedules: []models.MedicationSchedule{
				enabledSchedule("sched-a", "med-1", "08:00"),
				enabledSchedule("sched-b", "med-1", "12:00"),
			},
			eventAt:  at(10, 0),
			expected: "sched-a",
		},
		{
			name:      "no schedules",
			schedules: nil,
			eventAt:   at(10, 0),
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveScheduleForTime(med, tt.schedules, tt.eventAt)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveScheduleForTimeNonPreventative(t *testing.T) {
	rescue := &models.Medication{ID: "med-2", Name: "Sumatriptan", Type: models.MedicationTypeRescue, Active: true}
	schedules := []models.MedicationSchedule{enabledSchedule("sched-1", "med-2", "08:00")}

	assert.Equal(t, "", ResolveScheduleForTime(rescue, schedules, at(8, 0)))
	assert.Equal(t, "", ResolveScheduleForTime(nil, schedules, at(8, 0)))
}

func TestResolveScheduleForTimeZeroTime(t *testing.T) {
	med := preventative("med-1")
	schedules := []models.MedicationSchedule{enabledSchedule("sched-1", "med-1", "08:00")}

	assert.Equal(t, "", ResolveScheduleForTime(med, schedules, time.Time{}))
}

func TestResolveScheduleForTimeHonorsTimezone(t *testing.T) {
	med := preventative("med-1")
	sched := enabledSchedule("sched-tz", "med-1", "08:00")
	sched.Timezone = "America/New_York"

	// 13:00 UTC is 08:00 or 09:00 in New York depending on DST; either
	// way it is well inside the window.
	got := ResolveScheduleForTime(med, []models.MedicationSchedule{sched}, at(13, 0))
	assert.Equal(t, "sched-tz", got)
}

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		value   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"08:30", 510, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"8am", 0, false},
		{"", 0, false},
		{"12", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := parseClockMinutes(tt.value)
		assert.Equal(t, tt.ok, ok, "value %q", tt.value)
		if tt.ok {
			assert.Equal(t, tt.minutes, minutes, "value %q", tt.value)
		}
	}
}
