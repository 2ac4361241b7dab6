package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 5 * time.Minute

// Job represents a scheduled job
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron      *cron.Cron
	jobs      map[string]Job
	logger    zerolog.Logger
	isRunning bool
}

// NewScheduler creates a scheduler whose specs include a seconds field.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		jobs:   make(map[string]Job),
		logger: logger,
	}
}

// AddJob adds a job to the scheduler with a cron specification
func (s *Scheduler) AddJob(spec string, job Job) error {
	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info().Str("job", name).Msg("starting scheduled job")
		startTime := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		s.logger.Info().Str("job", name).Dur("duration", time.Since(startTime)).Msg("scheduled job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = job
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	s.logger.Debug().Msg("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Debug().Msg("scheduler stopped")
}

// RunJobNow runs a job immediately outside of schedule
func (s *Scheduler) RunJobNow(name string) error {
	job, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not registered", name)
	}

	s.logger.Info().Str("job", name).Msg("running job now")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	return job.Run(ctx)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
