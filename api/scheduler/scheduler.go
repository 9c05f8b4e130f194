package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/doseminder/doseminder-api/coordinator"
	"github.com/doseminder/doseminder-api/databases"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler handles the periodic background jobs that keep reminders
// consistent: the daily mapping renewal and the divergence repair
// sweep.
type Scheduler struct {
	cron        *cron.Cron
	Coordinator *coordinator.Coordinator
	MedDB       databases.MedicationDatabase
	LockDB      databases.SweepLockDatabase
	instanceID  string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(coord *coordinator.Coordinator, medDB databases.MedicationDatabase, lockDB databases.SweepLockDatabase) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		Coordinator: coord,
		MedDB:       medDB,
		LockDB:      lockDB,
		instanceID:  instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Renew current-day mappings shortly after midnight UTC. Mappings
	// are keyed by calendar day, so every enabled schedule needs a
	// fresh registration once the date rolls over.
	_, err := s.cron.AddFunc("5 0 * * *", s.renewDailyMappings)
	if err != nil {
		zap.S().Errorw("failed to register daily renewal job", "error", err)
	}

	// Repair divergence between schedules, mappings and the push
	// scheduler every 6 hours.
	_, err = s.cron.AddFunc("0 */6 * * *", s.runConsistencySweep)
	if err != nil {
		zap.S().Errorw("failed to register consistency sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Reminder scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Reminder scheduler stopped")
}

// renewDailyMappings re-registers every active medication's reminders
// for the new calendar day
func (s *Scheduler) renewDailyMappings() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "daily_renewal_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for daily renewal job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Daily renewal job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "daily_renewal_job", s.instanceID)

	zap.S().Infow("Running daily mapping renewal job", "instance", s.instanceID)

	medications, err := s.MedDB.GetActive(ctx)
	if err != nil {
		zap.S().Errorw("failed to load active medications for renewal", "error", err)
		return
	}

	renewed := 0
	failed := 0
	for _, med := range medications {
		outcomes, err := s.Coordinator.RescheduleMedication(ctx, med.ID)
		if err != nil {
			zap.S().Errorw("failed to renew reminders for medication",
				"medicationId", med.ID,
				"error", err,
			)
			failed++
			continue
		}
		for _, outcome := range outcomes {
			if outcome.OK {
				renewed++
			} else {
				failed++
			}
		}
	}

	zap.S().Infow("Daily mapping renewal complete",
		"medications", len(medications),
		"renewed", renewed,
		"failed", failed,
	)
}

// runConsistencySweep runs one divergence detection and repair pass
func (s *Scheduler) runConsistencySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (15 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "consistency_sweep_job", s.instanceID, 15*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for consistency sweep job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Consistency sweep already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "consistency_sweep_job", s.instanceID)

	zap.S().Infow("Running scheduled consistency sweep", "instance", s.instanceID)

	report := s.Coordinator.Sweep(ctx)

	zap.S().Infow("Scheduled consistency sweep finished",
		"date", report.Date,
		"checked", report.Checked,
		"findings", len(report.Findings),
		"repaired", report.Repaired,
	)
}
