// Package jobs schedules background maintenance work
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrJobNotFound is returned when a job cannot be found by name
	ErrJobNotFound = errors.New("job not found")
)

// Config represents the configuration of a job
type Config struct {
	// Schedule in cron format (e.g. "*/15 * * * *" for every 15 minutes)
	Schedule string
	// Enabled determines if the job should run on schedule
	Enabled bool
}

// Job is the interface that all background jobs must implement
type Job interface {
	// Name returns the unique name of the job
	Name() string
	// Run executes one pass of the job
	Run(ctx context.Context) error
	// GetConfig returns the job's configuration
	GetConfig() Config
}

// Manager handles the scheduling and execution of jobs
type Manager struct {
	jobs   []Job
	cron   *cron.Cron
	logger *zap.Logger
}

// NewManager creates a new job manager
func NewManager(logger *zap.Logger) *Manager {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Manager{
		jobs:   make([]Job, 0),
		cron:   c,
		logger: logger,
	}
}

// RegisterJob adds a job to the manager
func (m *Manager) RegisterJob(j Job) {
	m.jobs = append(m.jobs, j)
}

// GetJob returns a job by name
func (m *Manager) GetJob(name string) (Job, bool) {
	for _, j := range m.jobs {
		if j.Name() == name {
			return j, true
		}
	}
	return nil, false
}

// RunJob executes a specific job by name
func (m *Manager) RunJob(ctx context.Context, name string) error {
	job, found := m.GetJob(name)
	if !found {
		return ErrJobNotFound
	}
	return job.Run(ctx)
}

// Schedule registers every enabled job with the cron scheduler
func (m *Manager) Schedule(ctx context.Context) error {
	for _, j := range m.jobs {
		config := j.GetConfig()
		if !config.Enabled {
			m.logger.Info("job is disabled, skipping scheduler", zap.String("job", j.Name()))
			continue
		}

		if config.Schedule == "" {
			return fmt.Errorf("job %s has no schedule configured", j.Name())
		}

		job := j
		_, err := m.cron.AddFunc(config.Schedule, func() {
			m.logger.Debug("running scheduled job", zap.String("job", job.Name()))
			if err := job.Run(ctx); err != nil {
				m.logger.Error("scheduled job failed", zap.String("job", job.Name()), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", j.Name(), err)
		}

		m.logger.Info("scheduled job",
			zap.String("job", j.Name()),
			zap.String("schedule", config.Schedule),
		)
	}
	return nil
}

// StartScheduler schedules the jobs and runs them until ctx is cancelled
func (m *Manager) StartScheduler(ctx context.Context) error {
	if err := m.Schedule(ctx); err != nil {
		return err
	}

	m.cron.Start()
	m.logger.Info("job scheduler started")

	// Wait for context cancellation
	<-ctx.Done()
	m.logger.Info("stopping job scheduler")
	<-m.cron.Stop().Done()

	return nil
}
