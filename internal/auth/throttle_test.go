package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"authcore/internal/models"
	"authcore/internal/repository"
	"authcore/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestThrottle(store *testutil.MemoryStore, tx repository.Transactor, now time.Time) *Throttle {
	th := NewThrottle(testutil.AuthConfig(), store, tx, zap.NewNop())
	th.now = func() time.Time { return now }
	return th
}

func TestThrottle_NextWrongCount(t *testing.T) {
	th := newTestThrottle(testutil.NewMemoryStore(), &testutil.StubTransactor{}, time.Now())

	tests := []struct {
		previous int
		want     int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 1},
		{7, 1},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, th.NextWrongCount(tt.previous), "previous=%d", tt.previous)
	}
}

func TestThrottle_IsAccountBlocked(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	th := newTestThrottle(testutil.NewMemoryStore(), &testutil.StubTransactor{}, now)

	tests := []struct {
		name    string
		history *models.LoginHistory
		want    bool
	}{
		{"No History", nil, false},
		{"Below Maximum", &models.LoginHistory{WrongLoginCount: 2, LastWrongLoginAttempt: testutil.Time(now)}, false},
		{"At Maximum Recent", &models.LoginHistory{WrongLoginCount: 3, LastWrongLoginAttempt: testutil.Time(now.Add(-59 * time.Minute))}, true},
		{"At Maximum Elapsed", &models.LoginHistory{WrongLoginCount: 3, LastWrongLoginAttempt: testutil.Time(now.Add(-time.Hour))}, false},
		{"At Maximum No Timestamp", &models.LoginHistory{WrongLoginCount: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &models.Account{LoginHistory: tt.history}
			require.Equal(t, tt.want, th.IsAccountBlocked(account))
		})
	}
}

func TestThrottle_RecordWrongAttemptSurvivesRollback(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemoryStore()
	account := store.Seed(testutil.NewAccount("jane@example.com", "pw", models.RoleUser))
	tx := &testutil.StubTransactor{}
	th := newTestThrottle(store, tx, now)

	errLogin := errors.New("login failed")
	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, th.RecordWrongAttempt(ctx, 2, account.ID))
		return errLogin
	})
	require.ErrorIs(t, err, errLogin)

	commits, rollbacks := tx.Counts()
	require.Equal(t, 1, commits)
	require.Equal(t, 1, rollbacks)

	stored := store.Account(account.ID)
	require.Equal(t, 3, stored.LoginHistory.WrongLoginCount)
	require.Equal(t, now, *stored.LoginHistory.LastWrongLoginAttempt)
}

func TestThrottle_RecordSuccessfulLogin(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemoryStore()
	account := testutil.NewAccount("jane@example.com", "pw", models.RoleUser)
	account.LoginHistory = &models.LoginHistory{WrongLoginCount: 2, LastWrongLoginAttempt: testutil.Time(now)}
	store.Seed(account)

	th := newTestThrottle(store, &testutil.StubTransactor{}, now)
	require.NoError(t, th.RecordSuccessfulLogin(context.Background(), account.ID))

	stored := store.Account(account.ID)
	require.Equal(t, 0, stored.LoginHistory.WrongLoginCount)
	require.Nil(t, stored.LoginHistory.LastWrongLoginAttempt)
	require.Equal(t, now, *stored.LoginHistory.LastLogin)
}

func TestThrottle_Sweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemoryStore()

	elapsed := testutil.NewAccount("elapsed@example.com", "pw", models.RoleUser)
	elapsed.LoginHistory = &models.LoginHistory{WrongLoginCount: 3, LastWrongLoginAttempt: testutil.Time(now.Add(-2 * time.Hour))}
	store.Seed(elapsed)

	active := testutil.NewAccount("blocked@example.com", "pw", models.RoleUser)
	active.LoginHistory = &models.LoginHistory{WrongLoginCount: 3, LastWrongLoginAttempt: testutil.Time(now.Add(-time.Minute))}
	store.Seed(active)

	th := newTestThrottle(store, &testutil.StubTransactor{}, now)
	reset, err := th.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), reset)

	require.Equal(t, 0, store.Account(elapsed.ID).LoginHistory.WrongLoginCount)
	require.Equal(t, 3, store.Account(active.ID).LoginHistory.WrongLoginCount)

	store.Fail("ResetExpiredBlocks", errors.New("db down"))
	_, err = th.Sweep(context.Background())
	require.Error(t, err)
}
