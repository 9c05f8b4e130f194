package notify

import (
	"fmt"
	"time"
)

// Payload is embedded in every scheduled notification so that a fired
// notification is self-describing: the app can match it back to its
// schedule without a separate lookup. The payload may be stale by the
// time the notification fires; consumers must verify it against
// current application state.
type Payload struct {
	MedicationID string `json:"medicationId"`
	ScheduleID   string `json:"scheduleId"`
	Date         string `json:"date"`
}

// Request describes one reminder registration
type Request struct {
	Title   string
	Body    string
	FireAt  time.Time
	Repeats bool
	Payload Payload
}

// Scheduler wraps the external push scheduler. It reports only
// success or failure and has no knowledge of medication schedules.
type Scheduler interface {
	Schedule(req Request) (string, error)
	Cancel(notificationID string) error
}

// SchedulingError indicates the push scheduler rejected a registration
type SchedulingError struct {
	Err error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("scheduling failed: %v", e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// CancellationError indicates a cancel request failed. Unknown is set
// when the scheduler no longer knows the id, which callers treat as a
// no-op warning since the notification may have already fired or
// expired.
type CancellationError struct {
	NotificationID string
	Unknown        bool
	Err            error
}

func (e *CancellationError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("cancel %s: unknown notification id", e.NotificationID)
	}
	return fmt.Sprintf("cancel %s: %v", e.NotificationID, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// IsUnknownID reports whether err is a cancellation failure for an id
// the scheduler no longer knows
func IsUnknownID(err error) bool {
	ce, ok := err.(*CancellationError)
	return ok && ce.Unknown
}
