package jobs

import "context"

// Sweeper resets login blocks whose duration has elapsed
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// ThrottleSweepJob runs the login throttle sweeper
type ThrottleSweepJob struct {
	sweeper Sweeper
	config  Config
}

// NewThrottleSweepJob creates the sweeper job. An empty schedule disables it.
func NewThrottleSweepJob(sweeper Sweeper, schedule string) *ThrottleSweepJob {
	return &ThrottleSweepJob{
		sweeper: sweeper,
		config:  Config{Schedule: schedule, Enabled: schedule != ""},
	}
}

func (j *ThrottleSweepJob) Name() string {
	return "throttle-sweep"
}

func (j *ThrottleSweepJob) Run(ctx context.Context) error {
	_, err := j.sweeper.Sweep(ctx)
	return err
}

func (j *ThrottleSweepJob) GetConfig() Config {
	return j.config
}
