package state

import (
	"sync"

	"github.com/doseminder/doseminder-api/models"
)

// AppState is the in-memory cache of medications and their schedules.
// It is a single shared structure read by many goroutines; reads hand
// out copies so callers can never mutate the cache in place, and all
// writes funnel through the mutators below. Notification-derived
// fields on schedules are written only by the consistency coordinator.
type AppState struct {
	mu          sync.RWMutex
	medications map[string]models.Medication
	schedules   map[string]models.MedicationSchedule
}

// New creates an empty state container
func New() *AppState {
	return &AppState{
		medications: make(map[string]models.Medication),
		schedules:   make(map[string]models.MedicationSchedule),
	}
}

// Medication returns a copy of the cached medication, if present
func (s *AppState) Medication(id string) (models.Medication, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	med, ok := s.medications[id]
	return med, ok
}

// Schedule returns a copy of the cached schedule, if present
func (s *AppState) Schedule(id string) (models.MedicationSchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[id]
	return sched, ok
}

// SchedulesForMedication returns copies of every cached schedule
// belonging to the medication
func (s *AppState) SchedulesForMedication(medicationID string) []models.MedicationSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MedicationSchedule
	for _, sched := range s.schedules {
		if sched.MedicationID == medicationID {
			out = append(out, sched)
		}
	}
	return out
}

// Schedules returns copies of every cached schedule
func (s *AppState) Schedules() []models.MedicationSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MedicationSchedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched)
	}
	return out
}

// PutMedication inserts or replaces a cached medication
func (s *AppState) PutMedication(med models.Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications[med.ID] = med
}

// RemoveMedication drops a medication and all of its schedules from
// the cache
func (s *AppState) RemoveMedication(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.medications, id)
	for sid, sched := range s.schedules {
		if sched.MedicationID == id {
			delete(s.schedules, sid)
		}
	}
}

// PutSchedule inserts or replaces a cached schedule
func (s *AppState) PutSchedule(sched models.MedicationSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[sched.ID] = sched
}

// RemoveSchedule drops a schedule from the cache
func (s *AppState) RemoveSchedule(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, id)
}

// SetScheduleNotificationID updates the weak notification id cache on
// a schedule. Missing schedules are ignored; the mapping store remains
// the source of truth either way.
func (s *AppState) SetScheduleNotificationID(scheduleID, notificationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, ok := s.schedules[scheduleID]
	if !ok {
		return
	}
	sched.NotificationID = notificationID
	s.schedules[scheduleID] = sched
}

// Replace swaps the entire cache contents from a repository load
func (s *AppState) Replace(medications []models.Medication, schedules []models.MedicationSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications = make(map[string]models.Medication, len(medications))
	for _, med := range medications {
		s.medications[med.ID] = med
	}
	s.schedules = make(map[string]models.MedicationSchedule, len(schedules))
	for _, sched := range schedules {
		s.schedules[sched.ID] = sched
	}
}
