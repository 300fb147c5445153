// Package integration provides utilities for postgres integration testing
package integration

import (
	"context"
	"testing"
	"time"

	"authcore/internal/models"
	"authcore/internal/testutil"

	"github.com/stretchr/testify/require"
)

// TestContext wraps testutil.TestContext to provide postgres-specific test utilities
type TestContext struct {
	*testutil.TestContext
}

// NewTestContext creates a new test context for postgres integration tests
func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{TestContext: testutil.NewTestContext(t)}
}

// CleanupAccounts removes every account and its dependent rows
func (tc *TestContext) CleanupAccounts() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM accounts")
}

// SetWrongAttempts stores a wrong-attempt count directly
func (tc *TestContext) SetWrongAttempts(accountID int64, count int, at time.Time) {
	tc.T.Helper()
	err := tc.LoginHistoryRepo.MarkWrongAttempt(context.Background(), accountID, count, at)
	require.NoError(tc.T, err)
}

// ReloadAccount reads the account again by id
func (tc *TestContext) ReloadAccount(id int64) *models.Account {
	tc.T.Helper()
	account, err := tc.AccountRepo.FindByID(context.Background(), id)
	require.NoError(tc.T, err)
	return account
}
