package db

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"authcore/internal/config"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// IntegrationEnv must be set for tests that need a running PostgreSQL
const IntegrationEnv = "AUTHCORE_INTEGRATION"

// ProjectRoot returns the absolute path of the module root
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	// Project root is 3 levels up from this file
	root, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "..", ".."))
	require.NoError(t, err, "Failed to get absolute project root path")
	return root
}

// LoadTestConfig loads .env.test from the project root
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	root := ProjectRoot(t)
	err := godotenv.Load(filepath.Join(root, ".env.test"))
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &config.Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err, "Failed to load config")

	cfg.Database.MigrationsPath = filepath.Join(root, "migrations")
	return cfg
}

// RequireIntegration skips the test unless IntegrationEnv is set
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(IntegrationEnv) == "" {
		t.Skipf("set %s=1 to run against PostgreSQL", IntegrationEnv)
	}
}
