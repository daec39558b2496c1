package bootstrap

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a cron schedule.
type Job interface {
	Name() string
	// Schedule is a cron spec; an empty schedule registers the job for manual runs only.
	Schedule() string
	Run(ctx context.Context) error
}

// Scheduler runs registered jobs with robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}
}

// Register adds job and schedules it when it has a schedule.
func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		s.logger.Info("job registered without schedule", slog.String("job", job.Name()))
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		_ = s.execute(context.Background(), job)
	}); err != nil {
		return err
	}
	s.logger.Info("job scheduled", slog.String("job", job.Name()), slog.String("schedule", schedule))
	return nil
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	s.logger.InfoContext(ctx, "job started", slog.String("job", job.Name()))
	if err := job.Run(ctx); err != nil {
		s.logger.ErrorContext(ctx, "job failed", slog.String("job", job.Name()), slog.Any("error", err))
		return err
	}
	s.logger.InfoContext(ctx, "job completed", slog.String("job", job.Name()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunByName runs a registered job immediately. It reports false if no job has that name.
func (s *Scheduler) RunByName(ctx context.Context, name string) (bool, error) {
	for _, job := range s.jobs {
		if job.Name() == name {
			return true, s.execute(ctx, job)
		}
	}
	return false, nil
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
