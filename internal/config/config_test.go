package config

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads configuration for testing
func LoadTestConfig(t *testing.T) *Config {
	t.Helper()

	err := godotenv.Load("../../.env.test")
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err, "Failed to load config")
	return cfg
}

func TestLoadFromEnv(t *testing.T) {
	cfg := LoadTestConfig(t)

	require.Equal(t, "8080", cfg.API.Port)
	require.Empty(t, cfg.API.TrustedProxies)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "authcore_test", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, "authcore-test", cfg.Auth.Issuer)
	require.Equal(t, 3, cfg.Auth.Version)
	require.Equal(t, "test_secret_key", cfg.Auth.Secret)
	require.Equal(t, time.Minute, cfg.Auth.TokenExpiry)
	require.Equal(t, 60*time.Minute, cfg.Auth.SameIPTokenExpiry)
	require.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, time.Hour, cfg.Auth.AccountBlockDuration)
	require.Equal(t, []string{"example.com", "example.org"}, cfg.Identity.GSuiteAllowedDomains)
	require.True(t, cfg.Log.Dev)
	require.Equal(t, "*/15 * * * *", cfg.Jobs.ThrottleSweepSchedule)
}

func TestLoadFromEnv_Validation(t *testing.T) {
	LoadTestConfig(t)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "Missing HMAC Secret",
			env:     map[string]string{"AUTH_TOKEN_SECRET": ""},
			wantErr: "AUTH_TOKEN_SECRET is required",
		},
		{
			name:    "RSA Without Key File",
			env:     map[string]string{"AUTH_TOKEN_ALGORITHM": "RS256"},
			wantErr: "AUTH_TOKEN_PRIVATE_KEY_FILE is required",
		},
		{
			name:    "Unsupported Algorithm",
			env:     map[string]string{"AUTH_TOKEN_ALGORITHM": "none"},
			wantErr: "unsupported AUTH_TOKEN_ALGORITHM",
		},
		{
			name:    "Missing Subject Secret",
			env:     map[string]string{"AUTH_SUBJECT_SECRET": ""},
			wantErr: "AUTH_SUBJECT_SECRET is required",
		},
		{
			name:    "Zero Max Attempts",
			env:     map[string]string{"AUTH_MAX_LOGIN_ATTEMPTS": "0"},
			wantErr: "AUTH_MAX_LOGIN_ATTEMPTS must be positive",
		},
		{
			name:    "Malformed Duration",
			env:     map[string]string{"AUTH_TOKEN_EXPIRY": "soon"},
			wantErr: "parse env",
		},
		{
			name:    "Malformed Trusted Proxy",
			env:     map[string]string{"API_TRUSTED_PROXIES": "10.0.0.0/8,gateway"},
			wantErr: `API_TRUSTED_PROXIES entry "gateway"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			err := cfg.LoadFromEnv()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_ConnectionStrings(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "auth",
		Password: "secret",
		DBName:   "accounts",
		SSLMode:  "require",
	}

	require.Equal(t, "host=db port=5433 user=auth password=secret dbname=accounts sslmode=require", cfg.DSN())
	require.Equal(t, "postgres://auth:secret@db:5433/accounts?sslmode=require", cfg.URL())
}

func TestLoadFromEnv_TrustedProxies(t *testing.T) {
	LoadTestConfig(t)
	t.Setenv("API_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.7,2001:db8::/32")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())
	require.Equal(t, []string{"10.0.0.0/8", "192.0.2.7", "2001:db8::/32"}, cfg.API.TrustedProxies)
}
