package services

import (
	"context"
	"fmt"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/robfig/cron/v3"
)

// LockSweeper clears lock columns whose expiry has passed.
type LockSweeper interface {
	ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

// Warmer reloads the settings cache ahead of expiry.
type Warmer interface {
	Warm(ctx context.Context) error
}

// MaintenanceJobs runs the periodic housekeeping of the policy engine on a
// cron schedule: clearing expired account locks and refreshing the settings
// cache so that request paths rarely wait on a reload.
//
// Neither job affects correctness. Readers already treat an expired lock as
// unlocked, and the cache reloads on demand.
type MaintenanceJobs struct {
	sweeper LockSweeper
	warmer  Warmer
	clock   settings.Clock
	timeout time.Duration
	cron    *cron.Cron
	log     *debug.Logger
}

// NewMaintenanceJobs creates the job runner. A nil warmer disables the cache
// refresh job.
func NewMaintenanceJobs(sweeper LockSweeper, warmer Warmer, clock settings.Clock, timeout time.Duration) *MaintenanceJobs {
	if clock == nil {
		clock = settings.SystemClock{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MaintenanceJobs{
		sweeper: sweeper,
		warmer:  warmer,
		clock:   clock,
		timeout: timeout,
		cron:    cron.New(),
		log:     debug.With("jobs"),
	}
}

// Schedule registers the jobs. Empty schedules disable the matching job.
func (j *MaintenanceJobs) Schedule(sweepSpec, warmSpec string) error {
	if sweepSpec != "" {
		if _, err := j.cron.AddFunc(sweepSpec, func() { j.SweepExpiredLocks(context.Background()) }); err != nil {
			return fmt.Errorf("invalid lockout sweep schedule %q: %w", sweepSpec, err)
		}
		j.log.Info("Expired lockout sweep scheduled: %s", sweepSpec)
	}
	if warmSpec != "" && j.warmer != nil {
		if _, err := j.cron.AddFunc(warmSpec, func() { j.WarmSettings(context.Background()) }); err != nil {
			return fmt.Errorf("invalid settings warm schedule %q: %w", warmSpec, err)
		}
		j.log.Info("Settings cache refresh scheduled: %s", warmSpec)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (j *MaintenanceJobs) Start() {
	j.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx ends.
func (j *MaintenanceJobs) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		j.log.Info("Maintenance jobs stopped")
	case <-ctx.Done():
		j.log.Warning("Maintenance jobs still running at shutdown")
	}
}

// SweepExpiredLocks resets accounts whose lock has expired and returns how
// many were reset.
func (j *MaintenanceJobs) SweepExpiredLocks(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.sweeper.ClearExpiredLocks(ctx, j.clock.Now())
	if err != nil {
		j.log.Error("Expired lockout sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		j.log.Info("Cleared %d expired account locks", n)
	}
	return n
}

// WarmSettings reloads the settings cache.
func (j *MaintenanceJobs) WarmSettings(ctx context.Context) {
	if err := j.warmer.Warm(ctx); err != nil {
		j.log.Warning("Settings cache refresh failed: %v", err)
	}
}
