package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/databases"
	"github.com/doseminder/doseminder-api/models"
	"github.com/doseminder/doseminder-api/notify"
	"github.com/doseminder/doseminder-api/state"
)

// ScheduleChangedMessage is shown to the user when a fired notification
// references a schedule that no longer exists.
const ScheduleChangedMessage = "Your medication schedule has changed. Please open the app to review your reminders."

// loadAttempts bounds the load-path retry policy: one automatic retry
// on a transient storage failure, then the error propagates. Mutating
// operations are never retried automatically.
const loadAttempts = 2

// Coordinator keeps the notification scheduler, the mapping store and
// application state in agreement about which reminders are live. It is
// the only component allowed to write mappings or the notification id
// cached on a schedule.
//
// Mutations are serialized per medication: two concurrent reschedules
// of the same medication cannot interleave their scheduler and mapping
// writes, while operations on different medications run in parallel.
type Coordinator struct {
	MedDB      databases.MedicationDatabase
	ScheduleDB databases.ScheduleDatabase
	MappingDB  databases.MappingDatabase
	Notifier   notify.Scheduler
	State      *state.AppState

	mu       sync.Mutex
	medLocks map[string]*sync.Mutex
}

// New creates a coordinator with its injected collaborators
func New(medDB databases.MedicationDatabase, scheduleDB databases.ScheduleDatabase, mappingDB databases.MappingDatabase, notifier notify.Scheduler, appState *state.AppState) *Coordinator {
	return &Coordinator{
		MedDB:      medDB,
		ScheduleDB: scheduleDB,
		MappingDB:  mappingDB,
		Notifier:   notifier,
		State:      appState,
		medLocks:   make(map[string]*sync.Mutex),
	}
}

// lockMedication serializes mutations for one medication id
func (c *Coordinator) lockMedication(medicationID string) func() {
	c.mu.Lock()
	lock, ok := c.medLocks[medicationID]
	if !ok {
		lock = &sync.Mutex{}
		c.medLocks[medicationID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ScheduleSingleNotification registers (or, for a disabled schedule,
// tears down) the reminder for one schedule and records the mapping for
// today. Calling it twice for the same schedule on the same day
// supersedes the earlier registration instead of duplicating it.
func (c *Coordinator) ScheduleSingleNotification(ctx context.Context, medication models.Medication, schedule models.MedicationSchedule) models.ScheduleOutcome {
	unlock := c.lockMedication(medication.ID)
	defer unlock()

	return c.scheduleSingleLocked(ctx, medication, schedule)
}

// scheduleSingleLocked is ScheduleSingleNotification without the
// per-medication lock, for callers that already hold it.
func (c *Coordinator) scheduleSingleLocked(ctx context.Context, medication models.Medication, schedule models.MedicationSchedule) models.ScheduleOutcome {
	const operation = "scheduleSingleNotification"

	if schedule.MedicationID != medication.ID {
		zap.S().Errorw("schedule does not belong to medication",
			"medicationId", medication.ID,
			"scheduleId", schedule.ID,
			"operation", operation,
			"errorType", models.ErrTypeValidationFailure,
		)
		return models.ScheduleOutcome{
			ScheduleID: schedule.ID,
			ErrorType:  models.ErrTypeValidationFailure,
			Message:    "schedule does not belong to this medication",
		}
	}

	date := mappingDate(schedule, time.Now())

	// A schedule the user disabled must have no live notification and
	// no current-day mapping. Treat this call as a teardown.
	if !schedule.Enabled || !schedule.ReminderEnabled {
		c.teardownSchedule(ctx, medication.ID, schedule.ID, date, operation)
		return models.ScheduleOutcome{OK: true, ScheduleID: schedule.ID}
	}

	fireAt, ok := nextFireTime(schedule, time.Now())
	if !ok {
		zap.S().Errorw("schedule has a malformed time",
			"medicationId", medication.ID,
			"scheduleId", schedule.ID,
			"time", schedule.Time,
			"operation", operation,
			"errorType", models.ErrTypeValidationFailure,
		)
		return models.ScheduleOutcome{
			ScheduleID: schedule.ID,
			ErrorType:  models.ErrTypeValidationFailure,
			Message:    "schedule time is not a valid HH:mm value",
		}
	}

	// Register with the external scheduler first. If this fails no
	// mapping may be written, so a partial registration can never leave
	// an orphaned mapping behind.
	notificationID, err := c.Notifier.Schedule(notify.Request{
		Title:   "Medication Reminder",
		Body:    fmt.Sprintf("Time to take %s (%s)", medication.Name, schedule.Dosage),
		FireAt:  fireAt,
		Repeats: true,
		Payload: notify.Payload{
			MedicationID: medication.ID,
			ScheduleID:   schedule.ID,
			Date:         date,
		},
	})
	if err != nil {
		zap.S().Errorw("failed to register reminder notification",
			"medicationId", medication.ID,
			"scheduleId", schedule.ID,
			"operation", operation,
			"errorType", models.ErrTypeSchedulingFailure,
			"error", err,
		)
		return models.ScheduleOutcome{
			ScheduleID: schedule.ID,
			ErrorType:  models.ErrTypeSchedulingFailure,
			Message:    "reminder could not be scheduled",
		}
	}

	// Supersede any earlier registration for (scheduleId, today). The
	// mapping upsert keeps the key unique; the old notification, if
	// any and different, is cancelled best-effort afterwards.
	previous, prevErr := c.MappingDB.Get(ctx, schedule.ID, date)

	mapping := &models.ScheduleMapping{
		ScheduleID:     schedule.ID,
		MedicationID:   medication.ID,
		NotificationID: notificationID,
		Date:           date,
	}
	if err := c.MappingDB.AddOrUpdate(ctx, mapping); err != nil {
		// Roll back the registration so the scheduler does not hold a
		// notification no mapping knows about.
		c.cancelNotification(notificationID, medication.ID, schedule.ID, operation)
		zap.S().Errorw("failed to persist schedule mapping",
			"medicationId", medication.ID,
			"scheduleId", schedule.ID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
		return models.ScheduleOutcome{
			ScheduleID: schedule.ID,
			ErrorType:  models.ErrTypeStorageFailure,
			Message:    "reminder mapping could not be saved",
		}
	}

	if prevErr == nil && previous.NotificationID != "" && previous.NotificationID != notificationID {
		c.cancelNotification(previous.NotificationID, medication.ID, schedule.ID, operation)
	}

	// A repeating registration outlives its calendar day. Retire any
	// earlier day's mapping this schedule still holds so only the
	// current registration keeps firing.
	c.retirePastMappings(ctx, medication.ID, schedule.ID, date, operation)

	// Refresh the weak cache last; the mapping store already holds the
	// authoritative record.
	c.State.SetScheduleNotificationID(schedule.ID, notificationID)
	if err := c.ScheduleDB.SetNotificationID(ctx, schedule.ID, notificationID); err != nil {
		zap.S().Warnw("failed to persist cached notification id",
			"medicationId", medication.ID,
			"scheduleId", schedule.ID,
			"operation", operation,
			"error", err,
		)
	}

	return models.ScheduleOutcome{OK: true, ScheduleID: schedule.ID, NotificationID: notificationID}
}

// ReconcileOnScheduleChange re-registers a reminder after a user edit.
// The new registration is durably written before the old one is torn
// down, so an observer may transiently see both but never neither.
func (c *Coordinator) ReconcileOnScheduleChange(ctx context.Context, medicationID string, oldSchedule, newSchedule *models.MedicationSchedule) models.ScheduleOutcome {
	const operation = "reconcileOnScheduleChange"

	unlock := c.lockMedication(medicationID)
	defer unlock()

	medication, ok := c.State.Medication(medicationID)
	if !ok {
		med, err := c.loadMedication(ctx, medicationID)
		if err != nil {
			zap.S().Errorw("failed to load medication for reconcile",
				"medicationId", medicationID,
				"operation", operation,
				"errorType", models.ErrTypeStorageFailure,
				"error", err,
			)
			return models.ScheduleOutcome{
				ErrorType: models.ErrTypeStorageFailure,
				Message:   "medication could not be loaded",
			}
		}
		medication = *med
		c.State.PutMedication(medication)
	}

	if newSchedule == nil {
		// Pure deletion: nothing to register, tear down the old side.
		if oldSchedule != nil {
			date := mappingDate(*oldSchedule, time.Now())
			c.teardownSchedule(ctx, medicationID, oldSchedule.ID, date, operation)
			c.State.RemoveSchedule(oldSchedule.ID)
		}
		return models.ScheduleOutcome{OK: true}
	}

	c.State.PutSchedule(*newSchedule)

	// Register the new side first (a disabled new schedule tears itself
	// down inside scheduleSingleLocked instead).
	outcome := c.scheduleSingleLocked(ctx, medication, *newSchedule)

	// Then remove the old side if it was a different schedule identity.
	if oldSchedule != nil && oldSchedule.ID != newSchedule.ID {
		date := mappingDate(*oldSchedule, time.Now())
		c.teardownSchedule(ctx, medicationID, oldSchedule.ID, date, operation)
		c.State.RemoveSchedule(oldSchedule.ID)
	}

	// Best-effort duplicate repair: if a partial earlier failure left
	// two live mappings for this medication on the same day, keep the
	// most recently updated one.
	c.repairDuplicates(ctx, medicationID, operation)

	return outcome
}

// VerifyOnFire confirms that a fired notification still refers to a
// live schedule, consulting current application state rather than the
// possibly stale payload. On a miss it removes every mapping the stale
// schedule left behind and returns a structured failure with
// user-facing guidance. It never returns an error to the caller.
//
// date is the fired payload's mapping day; it anchors the fallback
// teardown when the mapping store cannot be scanned. Empty means the
// caller did not carry it, in which case the server's UTC day is used.
func (c *Coordinator) VerifyOnFire(ctx context.Context, medicationID, scheduleID, date string) models.VerifyOutcome {
	const operation = "verifyOnFire"

	schedules := c.State.SchedulesForMedication(medicationID)
	for _, sched := range schedules {
		if sched.ID == scheduleID {
			return models.VerifyOutcome{OK: true, Schedule: &sched}
		}
	}

	// The defining race of this subsystem: the schedule was deleted or
	// replaced after the notification was registered.
	availableIDs := make([]string, 0, len(schedules))
	for _, sched := range schedules {
		availableIDs = append(availableIDs, sched.ID)
	}

	medicationName := ""
	if med, ok := c.State.Medication(medicationID); ok {
		medicationName = med.Name
	}

	zap.S().Warnw("fired notification references an unknown schedule",
		"medicationId", medicationID,
		"scheduleId", scheduleID,
		"medicationName", medicationName,
		"availableScheduleIds", availableIDs,
		"operation", operation,
		"errorType", models.ErrTypeScheduleNotFound,
	)

	// Clean up whatever the stale schedule left behind, every day's
	// mapping and registration included. The mapping day lives in the
	// schedule's own timezone, so the scan beats recomputing a date
	// here.
	c.teardownStaleSchedule(ctx, medicationID, scheduleID, date, operation)

	return models.VerifyOutcome{
		ErrorType:            models.ErrTypeScheduleNotFound,
		Message:              ScheduleChangedMessage,
		AvailableScheduleIDs: availableIDs,
		CleanupPerformed:     true,
	}
}

// RescheduleMedication reloads a medication and its schedules from the
// repository, refreshes application state and re-registers every
// reminder. Used after medication-level edits and by the daily renewal
// job.
func (c *Coordinator) RescheduleMedication(ctx context.Context, medicationID string) ([]models.ScheduleOutcome, error) {
	unlock := c.lockMedication(medicationID)
	defer unlock()

	medication, err := c.loadMedication(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	schedules, err := c.loadSchedules(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	c.State.PutMedication(*medication)
	for _, sched := range schedules {
		c.State.PutSchedule(sched)
	}

	outcomes := make([]models.ScheduleOutcome, 0, len(schedules))
	for _, sched := range schedules {
		// Archived medications keep their data but lose reminders.
		if !medication.Active {
			date := mappingDate(sched, time.Now())
			c.teardownSchedule(ctx, medicationID, sched.ID, date, "rescheduleMedication")
			outcomes = append(outcomes, models.ScheduleOutcome{OK: true, ScheduleID: sched.ID})
			continue
		}
		outcomes = append(outcomes, c.scheduleSingleLocked(ctx, *medication, sched))
	}
	return outcomes, nil
}

// loadMedication reads a medication with the bounded retry-once policy
// for transient storage failures
func (c *Coordinator) loadMedication(ctx context.Context, medicationID string) (*models.Medication, error) {
	var lastErr error
	for attempt := 0; attempt < loadAttempts; attempt++ {
		if attempt > 0 {
			zap.S().Warnw("retrying medication load after transient failure",
				"medicationId", medicationID,
				"operation", "loadMedication",
				"isRetry", true,
			)
		}
		med, err := c.MedDB.GetByID(ctx, medicationID)
		if err == nil {
			return med, nil
		}
		lastErr = err
		if !databases.IsTransient(err) {
			break
		}
	}
	return nil, lastErr
}

// loadSchedules reads a medication's schedules with the bounded
// retry-once policy for transient storage failures
func (c *Coordinator) loadSchedules(ctx context.Context, medicationID string) ([]models.MedicationSchedule, error) {
	var lastErr error
	for attempt := 0; attempt < loadAttempts; attempt++ {
		if attempt > 0 {
			zap.S().Warnw("retrying schedule load after transient failure",
				"medicationId", medicationID,
				"operation", "loadSchedules",
				"isRetry", true,
			)
		}
		schedules, err := c.ScheduleDB.GetByMedicationID(ctx, medicationID)
		if err == nil {
			return schedules, nil
		}
		lastErr = err
		if !databases.IsTransient(err) {
			break
		}
	}
	return nil, lastErr
}

// teardownSchedule removes the mapping for (scheduleID, date) and
// cancels its notification. Both halves are best-effort; failures are
// logged and left for the repair sweep.
func (c *Coordinator) teardownSchedule(ctx context.Context, medicationID, scheduleID, date, operation string) {
	mapping, err := c.MappingDB.Get(ctx, scheduleID, date)
	if err == nil && mapping.NotificationID != "" {
		c.cancelNotification(mapping.NotificationID, medicationID, scheduleID, operation)
	} else if err != nil && !databases.IsNotFound(err) {
		zap.S().Warnw("failed to look up mapping during teardown",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
	}

	if _, err := c.MappingDB.Remove(ctx, scheduleID, date); err != nil {
		zap.S().Warnw("failed to remove mapping during teardown",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
	}

	c.State.SetScheduleNotificationID(scheduleID, "")
}

// teardownStaleSchedule removes every mapping a deleted schedule left
// behind, cancelling their registrations. When the mapping store cannot
// be scanned it falls back to a single-day teardown on fallbackDate
// (the fired payload's day, or the server's UTC day when absent).
func (c *Coordinator) teardownStaleSchedule(ctx context.Context, medicationID, scheduleID, fallbackDate, operation string) {
	mappings, err := c.MappingDB.AllForMedication(ctx, medicationID)
	if err != nil {
		zap.S().Warnw("failed to scan mappings for stale schedule teardown",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
		if fallbackDate == "" {
			fallbackDate = time.Now().UTC().Format("2006-01-02")
		}
		c.teardownSchedule(ctx, medicationID, scheduleID, fallbackDate, operation)
		return
	}

	for _, mapping := range mappings {
		if mapping.ScheduleID != scheduleID {
			continue
		}
		if mapping.NotificationID != "" {
			c.cancelNotification(mapping.NotificationID, medicationID, scheduleID, operation)
		}
		if _, err := c.MappingDB.Remove(ctx, scheduleID, mapping.Date); err != nil {
			zap.S().Warnw("failed to remove stale mapping",
				"medicationId", medicationID,
				"scheduleId", scheduleID,
				"date", mapping.Date,
				"operation", operation,
				"errorType", models.ErrTypeStorageFailure,
				"error", err,
			)
		}
	}

	c.State.SetScheduleNotificationID(scheduleID, "")
}

// retirePastMappings cancels and removes a schedule's mappings for any
// day other than currentDate. Best-effort; a failed scan is left for
// the repair sweep.
func (c *Coordinator) retirePastMappings(ctx context.Context, medicationID, scheduleID, currentDate, operation string) {
	mappings, err := c.MappingDB.AllForMedication(ctx, medicationID)
	if err != nil {
		zap.S().Warnw("failed to load mappings for prior-day retirement",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
		return
	}

	for _, mapping := range mappings {
		if mapping.ScheduleID != scheduleID || mapping.Date == currentDate {
			continue
		}
		zap.S().Infow("retiring prior-day reminder mapping",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"date", mapping.Date,
			"operation", operation,
		)
		if mapping.NotificationID != "" {
			c.cancelNotification(mapping.NotificationID, medicationID, scheduleID, operation)
		}
		if _, err := c.MappingDB.Remove(ctx, scheduleID, mapping.Date); err != nil {
			zap.S().Warnw("failed to remove prior-day mapping",
				"medicationId", medicationID,
				"scheduleId", scheduleID,
				"date", mapping.Date,
				"operation", operation,
				"errorType", models.ErrTypeStorageFailure,
				"error", err,
			)
		}
	}
}

// cancelNotification cancels a registration, tolerating ids the
// scheduler no longer knows
func (c *Coordinator) cancelNotification(notificationID, medicationID, scheduleID, operation string) {
	err := c.Notifier.Cancel(notificationID)
	if err == nil {
		return
	}
	if notify.IsUnknownID(err) {
		// Already fired or expired; nothing left to cancel.
		zap.S().Warnw("cancelled notification id is unknown to the scheduler",
			"medicationId", medicationID,
			"scheduleId", scheduleID,
			"notificationId", notificationID,
			"operation", operation,
		)
		return
	}
	zap.S().Errorw("failed to cancel notification",
		"medicationId", medicationID,
		"scheduleId", scheduleID,
		"notificationId", notificationID,
		"operation", operation,
		"errorType", models.ErrTypeSchedulingFailure,
		"error", err,
	)
}

// repairDuplicates keeps the most recently updated mapping when more
// than one record exists for the same (scheduleID, date) key
func (c *Coordinator) repairDuplicates(ctx context.Context, medicationID, operation string) {
	mappings, err := c.MappingDB.AllForMedication(ctx, medicationID)
	if err != nil {
		zap.S().Warnw("failed to load mappings for duplicate repair",
			"medicationId", medicationID,
			"operation", operation,
			"errorType", models.ErrTypeStorageFailure,
			"error", err,
		)
		return
	}

	latest := make(map[string]models.ScheduleMapping)
	for _, mapping := range mappings {
		key := mapping.ScheduleID + "|" + mapping.Date
		existing, ok := latest[key]
		if !ok {
			latest[key] = mapping
			continue
		}

		// Duplicate key: last writer wins by updatedAt.
		keep, drop := existing, mapping
		if mapping.UpdatedAt > existing.UpdatedAt {
			keep, drop = mapping, existing
		}
		latest[key] = keep

		zap.S().Warnw("repairing duplicate schedule mapping",
			"medicationId", medicationID,
			"scheduleId", drop.ScheduleID,
			"date", drop.Date,
			"operation", operation,
			"errorType", models.ErrTypeDuplicateMapping,
		)
		if drop.NotificationID != "" && drop.NotificationID != keep.NotificationID {
			c.cancelNotification(drop.NotificationID, medicationID, drop.ScheduleID, operation)
		}

		// Collapse the key back to a single record carrying the
		// survivor's notification id.
		if _, err := c.MappingDB.Remove(ctx, drop.ScheduleID, drop.Date); err != nil {
			zap.S().Warnw("failed to remove duplicate mapping",
				"medicationId", medicationID,
				"scheduleId", drop.ScheduleID,
				"date", drop.Date,
				"operation", operation,
				"errorType", models.ErrTypeStorageFailure,
				"error", err,
			)
			continue
		}
		survivor := keep
		if err := c.MappingDB.AddOrUpdate(ctx, &survivor); err != nil {
			zap.S().Warnw("failed to rewrite surviving mapping",
				"medicationId", medicationID,
				"scheduleId", keep.ScheduleID,
				"date", keep.Date,
				"operation", operation,
				"errorType", models.ErrTypeStorageFailure,
				"error", err,
			)
		}
	}
}

// mappingDate is the calendar day a mapping covers, computed in the
// schedule's timezone
func mappingDate(schedule models.MedicationSchedule, now time.Time) string {
	return now.In(scheduleLocation(schedule.Timezone)).Format("2006-01-02")
}

// nextFireTime is the next wall-clock occurrence of the schedule's time
// in its timezone: today if still ahead, otherwise tomorrow
func nextFireTime(schedule models.MedicationSchedule, now time.Time) (time.Time, bool) {
	minutes, ok := parseClockMinutes(schedule.Time)
	if !ok {
		return time.Time{}, false
	}

	loc := scheduleLocation(schedule.Timezone)
	local := now.In(loc)
	fireAt := time.Date(local.Year(), local.Month(), local.Day(), minutes/60, minutes%60, 0, 0, loc)
	if !fireAt.After(local) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}
	return fireAt, true
}
