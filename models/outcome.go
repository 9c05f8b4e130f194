package models

// Error types surfaced by the consistency coordinator. These are
// recoverable domain failures, reported to callers as structured
// outcomes rather than Go errors.
const (
	ErrTypeScheduleNotFound  = "schedule_not_found"
	ErrTypeSchedulingFailure = "scheduling_failure"
	ErrTypeStorageFailure    = "storage_failure"
	ErrTypeDuplicateMapping  = "duplicate_mapping"
	ErrTypeValidationFailure = "validation_failure"
)

// ScheduleOutcome is the result of scheduling (or cancelling) a single
// reminder notification. When OK is false, ErrorType carries one of the
// ErrType constants and Message is safe to show to the user.
type ScheduleOutcome struct {
	OK             bool   `json:"ok"`
	ScheduleID     string `json:"scheduleID,omitempty"`
	NotificationID string `json:"notificationID,omitempty"`
	ErrorType      string `json:"errorType,omitempty"`
	Message        string `json:"message,omitempty"`
}

// VerifyOutcome is the result of verifying a fired notification (or any
// other consumer confirming a schedule id) against current application
// state. On a miss, AvailableScheduleIDs lists the medication's current
// schedule ids for diagnostics and CleanupPerformed reports whether the
// stale mapping was removed.
type VerifyOutcome struct {
	OK                   bool                `json:"ok"`
	Schedule             *MedicationSchedule `json:"schedule,omitempty"`
	ErrorType            string              `json:"errorType,omitempty"`
	Message              string              `json:"message,omitempty"`
	AvailableScheduleIDs []string            `json:"availableScheduleIDs,omitempty"`
	CleanupPerformed     bool                `json:"cleanupPerformed,omitempty"`
}

// SweepFinding identifies one divergence discovered by a consistency
// sweep.
type SweepFinding struct {
	Kind           string `json:"kind"`
	MedicationID   string `json:"medicationID,omitempty"`
	ScheduleID     string `json:"scheduleID"`
	NotificationID string `json:"notificationID,omitempty"`
	Date           string `json:"date,omitempty"`
	Repaired       bool   `json:"repaired"`
}

// Sweep finding kinds.
const (
	SweepMissingMapping      = "schedule_missing_mapping"
	SweepOrphanedMapping     = "mapping_missing_schedule"
	SweepMissingNotification = "mapping_missing_notification"
	SweepDuplicateMapping    = "duplicate_mapping"
	SweepExpiredMapping      = "mapping_expired_day"
)

// SweepReport summarises one run of the divergence repair sweep.
type SweepReport struct {
	Date      string         `json:"date"`
	Findings  []SweepFinding `json:"findings"`
	Checked   int            `json:"checked"`
	Repaired  int            `json:"repaired"`
	DurationM int64          `json:"durationMillis"`
}
