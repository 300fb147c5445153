// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"testing"

	"authcore/internal/config"
	"authcore/internal/models"
	"authcore/internal/repository"
	"authcore/internal/repository/postgres"
	"authcore/internal/testutil/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestContext holds the dependencies of tests that run against PostgreSQL
type TestContext struct {
	T                   *testing.T
	DB                  *sqlx.DB
	Config              *config.Config
	Transactor          repository.Transactor
	AccountRepo         repository.AccountRepository
	LoginHistoryRepo    repository.LoginHistoryRepository
	ThirdPartyLoginRepo repository.ThirdPartyLoginRepository
}

// NewTestContext creates a new test context with a freshly migrated database.
// The test is skipped unless db.IntegrationEnv is set.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	db.RequireIntegration(t)

	cfg := db.LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	tc := &TestContext{
		T:                   t,
		DB:                  testDB,
		Config:              cfg,
		Transactor:          postgres.NewTransactor(testDB),
		AccountRepo:         postgres.NewAccountRepository(testDB),
		LoginHistoryRepo:    postgres.NewLoginHistoryRepository(testDB),
		ThirdPartyLoginRepo: postgres.NewThirdPartyLoginRepository(testDB),
	}

	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.DB != nil {
		if err := db.CleanupTestDB(tc.DB); err != nil {
			tc.T.Errorf("Failed to cleanup test database: %v", err)
		}
		tc.DB.Close()
	}
}

// CreateTestAccount inserts an active account with a profile row and one role
func (tc *TestContext) CreateTestAccount(email, password string, role models.RoleName) *models.Account {
	tc.T.Helper()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(tc.T, err, "Failed to hash password")

	draft := &models.AccountDraft{
		Email:     email,
		Password:  String(string(hashed)),
		Status:    models.StatusActive,
		FirstName: String("Test"),
		LastName:  String("User"),
	}

	var id int64
	err = tc.Transactor.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if id, err = tc.AccountRepo.Create(ctx, draft, nil); err != nil {
			return err
		}
		if err := tc.AccountRepo.CreateDetails(ctx, id, draft); err != nil {
			return err
		}
		return tc.AccountRepo.AttachRole(ctx, id, role)
	})
	require.NoError(tc.T, err, "Failed to create test account")

	account, err := tc.AccountRepo.FindByID(ctx, id)
	require.NoError(tc.T, err, "Failed to read test account")
	return account
}

// ExecuteSQL executes a raw SQL statement for testing
func (tc *TestContext) ExecuteSQL(query string, args ...interface{}) {
	tc.T.Helper()
	_, err := tc.DB.ExecContext(context.Background(), query, args...)
	require.NoError(tc.T, err)
}
