package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/models"
)

// Sweep compares enabled schedules against the mapping store and
// reports every divergence: enabled schedules missing a current-day
// mapping, mappings whose schedule no longer exists, prior-day mappings
// still holding a live registration, mappings without a notification
// registration and duplicate records for one (scheduleId, date) key.
//
// "Today" is always the day in the owning schedule's timezone, so a
// schedule whose local date differs from the server's is judged
// against its own calendar.
//
// Repair policy: mappings with no schedule or no notification are
// removed (safe), expired registrations are cancelled, enabled
// schedules missing a mapping are re-scheduled, and duplicates keep
// the most recently updated record. An enabled schedule's reminder is
// never dropped silently; every repair is logged.
func (c *Coordinator) Sweep(ctx context.Context) models.SweepReport {
	const operation = "consistencySweep"
	started := time.Now()

	report := models.SweepReport{Date: started.UTC().Format("2006-01-02")}

	mappings, err := c.MappingDB.All(ctx)
	if err != nil {
		zap.S().Errorw("sweep could not load mappings",
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
		return report
	}

	schedules := c.State.Schedules()
	scheduleByID := make(map[string]models.MedicationSchedule, len(schedules))
	for _, sched := range schedules {
		scheduleByID[sched.ID] = sched
	}

	// Pass 1: mapping-side checks.
	seen := make(map[string]models.ScheduleMapping)
	for _, mapping := range mappings {
		sched, known := scheduleByID[mapping.ScheduleID]
		if !known {
			report.Checked++
			report.Findings = append(report.Findings, c.repairOrphanedMapping(ctx, mapping, operation, &report))
			continue
		}

		if mapping.Date != mappingDate(sched, started) {
			// A prior-day record whose repeating registration was never
			// cancelled keeps firing every day. Inert prior-day records
			// are left alone.
			if mapping.NotificationID != "" {
				report.Checked++
				report.Findings = append(report.Findings, c.repairExpiredMapping(ctx, mapping, operation, &report))
			}
			continue
		}
		report.Checked++

		key := mapping.ScheduleID + "|" + mapping.Date
		if first, dup := seen[key]; dup {
			report.Findings = append(report.Findings, c.repairDuplicatePair(ctx, first, mapping, operation, &report))
			continue
		}
		seen[key] = mapping

		if mapping.NotificationID == "" {
			report.Findings = append(report.Findings, c.repairMissingNotification(ctx, sched, mapping, operation, &report))
		}
	}

	// Pass 2: schedule-side check. Every enabled schedule with
	// reminders on must have a mapping for its own local today.
	for _, sched := range schedules {
		if !sched.Enabled || !sched.ReminderEnabled {
			continue
		}
		localToday := mappingDate(sched, started)
		if _, ok := seen[sched.ID+"|"+localToday]; ok {
			continue
		}

		finding := models.SweepFinding{
			Kind:         models.SweepMissingMapping,
			MedicationID: sched.MedicationID,
			ScheduleID:   sched.ID,
			Date:         localToday,
		}
		zap.S().Warnw("enabled schedule has no mapping for today",
			"medicationId", sched.MedicationID,
			"scheduleId", sched.ID,
			"operation", operation,
		)

		if med, ok := c.State.Medication(sched.MedicationID); ok {
			outcome := c.ScheduleSingleNotification(ctx, med, sched)
			finding.Repaired = outcome.OK
			finding.NotificationID = outcome.NotificationID
			if outcome.OK {
				report.Repaired++
			}
		} else {
			zap.S().Errorw("cannot repair schedule with unknown medication",
				"medicationId", sched.MedicationID,
				"scheduleId", sched.ID,
				"operation", operation,
				"errorType", models.ErrTypeScheduleNotFound,
			)
		}
		report.Findings = append(report.Findings, finding)
	}

	report.DurationM = time.Since(started).Milliseconds()
	zap.S().Infow("consistency sweep complete",
		"date", report.Date,
		"checked", report.Checked,
		"findings", len(report.Findings),
		"repaired", report.Repaired,
	)
	return report
}

// repairOrphanedMapping removes a mapping whose schedule no longer
// exists and cancels its registration
func (c *Coordinator) repairOrphanedMapping(ctx context.Context, mapping models.ScheduleMapping, operation string, report *models.SweepReport) models.SweepFinding {
	zap.S().Warnw("mapping references a schedule that no longer exists",
		"medicationId", mapping.MedicationID,
		"scheduleId", mapping.ScheduleID,
		"date", mapping.Date,
		"operation", operation,
		"errorType", models.ErrTypeScheduleNotFound,
	)

	if mapping.NotificationID != "" {
		c.cancelNotification(mapping.NotificationID, mapping.MedicationID, mapping.ScheduleID, operation)
	}

	removed, err := c.MappingDB.Remove(ctx, mapping.ScheduleID, mapping.Date)
	if err != nil {
		zap.S().Errorw("failed to remove orphaned mapping",
			"medicationId", mapping.MedicationID,
			"scheduleId", mapping.ScheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
	}
	if removed {
		report.Repaired++
	}
	return models.SweepFinding{
		Kind:           models.SweepOrphanedMapping,
		MedicationID:   mapping.MedicationID,
		ScheduleID:     mapping.ScheduleID,
		NotificationID: mapping.NotificationID,
		Date:           mapping.Date,
		Repaired:       removed,
	}
}

// repairExpiredMapping cancels and removes a prior-day mapping still
// carrying a live registration. Repeating notifications renewed for a
// new day leave the previous day's firing unless something cancels it.
func (c *Coordinator) repairExpiredMapping(ctx context.Context, mapping models.ScheduleMapping, operation string, report *models.SweepReport) models.SweepFinding {
	zap.S().Warnw("prior-day mapping still holds a live notification",
		"medicationId", mapping.MedicationID,
		"scheduleId", mapping.ScheduleID,
		"date", mapping.Date,
		"operation", operation,
	)

	c.cancelNotification(mapping.NotificationID, mapping.MedicationID, mapping.ScheduleID, operation)

	removed, err := c.MappingDB.Remove(ctx, mapping.ScheduleID, mapping.Date)
	if err != nil {
		zap.S().Errorw("failed to remove expired mapping",
			"medicationId", mapping.MedicationID,
			"scheduleId", mapping.ScheduleID,
			"date", mapping.Date,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
	}
	if removed {
		report.Repaired++
	}
	return models.SweepFinding{
		Kind:           models.SweepExpiredMapping,
		MedicationID:   mapping.MedicationID,
		ScheduleID:     mapping.ScheduleID,
		NotificationID: mapping.NotificationID,
		Date:           mapping.Date,
		Repaired:       removed,
	}
}

// repairMissingNotification handles a mapping with no live
// registration: re-schedule when the schedule is still enabled,
// otherwise drop the record
func (c *Coordinator) repairMissingNotification(ctx context.Context, sched models.MedicationSchedule, mapping models.ScheduleMapping, operation string, report *models.SweepReport) models.SweepFinding {
	zap.S().Warnw("mapping has no notification registration",
		"medicationId", mapping.MedicationID,
		"scheduleId", mapping.ScheduleID,
		"date", mapping.Date,
		"operation", operation,
	)

	finding := models.SweepFinding{
		Kind:         models.SweepMissingNotification,
		MedicationID: mapping.MedicationID,
		ScheduleID:   mapping.ScheduleID,
		Date:         mapping.Date,
	}

	if sched.Enabled && sched.ReminderEnabled {
		if med, ok := c.State.Medication(sched.MedicationID); ok {
			outcome := c.ScheduleSingleNotification(ctx, med, sched)
			finding.Repaired = outcome.OK
			finding.NotificationID = outcome.NotificationID
			if outcome.OK {
				report.Repaired++
			}
			return finding
		}
	}

	removed, err := c.MappingDB.Remove(ctx, mapping.ScheduleID, mapping.Date)
	if err != nil {
		zap.S().Errorw("failed to remove dead mapping",
			"medicationId", mapping.MedicationID,
			"scheduleId", mapping.ScheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
	}
	finding.Repaired = removed
	if removed {
		report.Repaired++
	}
	return finding
}

// repairDuplicatePair resolves two records sharing one
// (scheduleId, date) key, keeping the most recently updated
func (c *Coordinator) repairDuplicatePair(ctx context.Context, first, second models.ScheduleMapping, operation string, report *models.SweepReport) models.SweepFinding {
	keep, drop := first, second
	if second.UpdatedAt > first.UpdatedAt {
		keep, drop = second, first
	}

	zap.S().Warnw("duplicate mapping for one schedule and day",
		"medicationId", drop.MedicationID,
		"scheduleId", drop.ScheduleID,
		"date", drop.Date,
		"operation", operation,
		"errorType", models.ErrTypeDuplicateMapping,
	)

	if drop.NotificationID != "" && drop.NotificationID != keep.NotificationID {
		c.cancelNotification(drop.NotificationID, drop.MedicationID, drop.ScheduleID, operation)
	}

	repaired := false
	if _, err := c.MappingDB.Remove(ctx, drop.ScheduleID, drop.Date); err == nil {
		survivor := keep
		if err := c.MappingDB.AddOrUpdate(ctx, &survivor); err == nil {
			repaired = true
			report.Repaired++
		}
	}

	return models.SweepFinding{
		Kind:           models.SweepDuplicateMapping,
		MedicationID:   drop.MedicationID,
		ScheduleID:     drop.ScheduleID,
		NotificationID: drop.NotificationID,
		Date:           drop.Date,
		Repaired:       repaired,
	}
}
