package coordinator

import (
	"strconv"
	"strings"
	"time"

	"github.com/doseminder/doseminder-api/models"
)

// ResolverWindowMinutes is the widest time-of-day distance, in minutes,
// at which an event is still attributed to a schedule. The boundary is
// inclusive. Product-tunable.
const ResolverWindowMinutes = 180

const minutesPerDay = 24 * 60

// ResolveScheduleForTime picks the schedule most relevant to an event
// at the given time, returning its id, or "" when nothing matches.
//
// Only enabled schedules of a preventative medication are considered.
// Distance is circular time-of-day distance so that 23:30 and 00:30 are
// sixty minutes apart, and ties go to the first schedule encountered.
// Malformed schedule times are skipped rather than failing the whole
// resolution; this never panics.
func ResolveScheduleForTime(medication *models.Medication, schedules []models.MedicationSchedule, at time.Time) string {
	if medication == nil || medication.Type != models.MedicationTypePreventative {
		return ""
	}
	if len(schedules) == 0 || at.IsZero() {
		return ""
	}

	bestID := ""
	bestDiff := minutesPerDay
	for _, sched := range schedules {
		if !sched.Enabled {
			continue
		}
		schedMinutes, ok := parseClockMinutes(sched.Time)
		if !ok {
			continue
		}

		local := at.In(scheduleLocation(sched.Timezone))
		eventMinutes := local.Hour()*60 + local.Minute()

		diff := schedMinutes - eventMinutes
		if diff < 0 {
			diff = -diff
		}
		if wrapped := minutesPerDay - diff; wrapped < diff {
			diff = wrapped
		}

		if diff < bestDiff {
			bestDiff = diff
			bestID = sched.ID
		}
	}

	if bestID == "" || bestDiff > ResolverWindowMinutes {
		return ""
	}
	return bestID
}

// parseClockMinutes converts an "HH:mm" value to minutes past midnight
func parseClockMinutes(value string) (int, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// scheduleLocation resolves a schedule's timezone, falling back to UTC
// on an unknown zone name
func scheduleLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
