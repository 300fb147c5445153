package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"authcore/internal/jobs"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestManager_RunJob(t *testing.T) {
	sweeper := &countingSweeper{}
	m := jobs.NewManager(zap.NewNop())
	m.RegisterJob(jobs.NewThrottleSweepJob(sweeper, "*/15 * * * *"))

	require.NoError(t, m.RunJob(context.Background(), "throttle-sweep"))
	require.Equal(t, int32(1), sweeper.calls.Load())

	require.ErrorIs(t, m.RunJob(context.Background(), "missing"), jobs.ErrJobNotFound)

	sweeper.err = errors.New("db down")
	require.Error(t, m.RunJob(context.Background(), "throttle-sweep"))
}

func TestManager_Schedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"Valid", "*/15 * * * *", false},
		{"Disabled", "", false},
		{"Seconds Field Rejected", "*/5 * * * * *", true},
		{"Garbage", "every minute", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := jobs.NewManager(zap.NewNop())
			m.RegisterJob(jobs.NewThrottleSweepJob(&countingSweeper{}, tt.schedule))

			err := m.Schedule(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestManager_StartSchedulerStopsOnCancel(t *testing.T) {
	m := jobs.NewManager(zap.NewNop())
	m.RegisterJob(jobs.NewThrottleSweepJob(&countingSweeper{}, "0 3 * * *"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.StartScheduler(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
