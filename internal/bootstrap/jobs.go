package bootstrap

import (
	"context"
	"log/slog"

	"anoa.com/mediannsp/internal/config"
	photo "anoa.com/mediannsp/internal/modules/photo/service"
)

const OrphanCleanupJob = "orphan-photo-cleanup"

type orphanCleanup struct {
	service  *photo.CleanupService
	schedule string
}

func (j *orphanCleanup) Name() string     { return OrphanCleanupJob }
func (j *orphanCleanup) Schedule() string { return j.schedule }

func (j *orphanCleanup) Run(ctx context.Context) error {
	_, err := j.service.Run(ctx)
	return err
}

// StartJobs registers the background jobs and starts the scheduler.
func StartJobs(cfg *config.Config, cleanup *photo.CleanupService, logger *slog.Logger) (*Scheduler, error) {
	scheduler := NewScheduler(logger)
	if err := scheduler.Register(&orphanCleanup{service: cleanup, schedule: cfg.OrphanCleanupSchedule}); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
