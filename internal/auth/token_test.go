package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"authcore/internal/auth"
	"authcore/internal/models"
	"authcore/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTokenService(t *testing.T, store *testutil.MemoryStore, c *clock) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(testutil.AuthConfig(), store, auth.WithClock(c.Now))
	require.NoError(t, err)
	return svc
}

func TestTokenLifecycle(t *testing.T) {
	const issuingIP = "10.0.0.1"

	tests := []struct {
		name     string
		audience models.Audience
		advance  time.Duration
		clientIP string
		want     auth.ValidationStatus
	}{
		{"Web Fresh", models.AudienceWeb, 30 * time.Second, "10.0.0.2", auth.StatusValid},
		{"Web Expired Other IP", models.AudienceWeb, 2 * time.Minute, "10.0.0.2", auth.StatusExpired},
		{"Web Same IP Window", models.AudienceWeb, 30 * time.Minute, issuingIP, auth.StatusValid},
		{"Web Same IP Window Elapsed", models.AudienceWeb, 61 * time.Minute, issuingIP, auth.StatusExpired},
		{"App Never Expires", models.AudienceApp, 24 * 365 * time.Hour, "10.0.0.2", auth.StatusValid},
		{"Unknown Audience Treated As Web", models.Audience("tv"), 2 * time.Minute, "10.0.0.2", auth.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore()
			account := store.Seed(testutil.NewAccount("jane@example.com", "", models.RoleUser))
			c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
			svc := newTokenService(t, store, c)

			token, err := svc.CreateToken(issuingIP, account.Email, tt.audience, account.Type(), false)
			require.NoError(t, err)

			c.Advance(tt.advance)
			claims, err := svc.ParseToken(token)
			require.NoError(t, err)

			result := svc.ValidateToken(context.Background(), tt.clientIP, claims)
			require.Equal(t, tt.want, result.Status)
			if tt.want == auth.StatusValid {
				require.Equal(t, account.ID, result.Account.ID)
			}
		})
	}
}

func TestCreateToken_Claims(t *testing.T) {
	store := testutil.NewMemoryStore()
	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, store, c)

	t.Run("Web", func(t *testing.T) {
		token, err := svc.CreateToken("10.0.0.1", "jane@example.com", models.AudienceWeb, 5, true)
		require.NoError(t, err)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		require.Equal(t, "authcore-test", claims.Issuer)
		require.Equal(t, 3, claims.Version)
		require.Equal(t, 5, claims.Type)
		require.True(t, claims.FirstLogin)
		require.False(t, claims.IsApp())
		require.NotContains(t, claims.Subject, "jane")
		require.Equal(t, c.now.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())
		require.NotNil(t, claims.SameIP)
		require.Equal(t, "10.0.0.1", claims.SameIP.IP)
		require.Equal(t, c.now.Add(time.Hour).Unix(), claims.SameIP.Time)
	})

	t.Run("App Omits Expiry And First Login", func(t *testing.T) {
		token, err := svc.CreateToken("10.0.0.1", "jane@example.com", models.AudienceApp, 5, false)
		require.NoError(t, err)

		payload := decodePayload(t, token)
		require.NotContains(t, payload, `"exp"`)
		require.NotContains(t, payload, `"exp2"`)
		require.NotContains(t, payload, "firstLogin")
		require.Contains(t, payload, `"aud":["app"]`)
	})
}

func decodePayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	return string(raw)
}

func TestValidateToken_Order(t *testing.T) {
	store := testutil.NewMemoryStore()
	active := store.Seed(testutil.NewAccount("active@example.com", "", models.RoleUser))
	inactive := testutil.NewAccount("inactive@example.com", "", models.RoleUser)
	inactive.Status = models.StatusInactive
	store.Seed(inactive)

	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, store, c)

	newerCfg := testutil.AuthConfig()
	newerCfg.Version++
	newer, err := auth.NewTokenService(newerCfg, store, auth.WithClock(c.Now))
	require.NoError(t, err)

	otherSecretCfg := testutil.AuthConfig()
	otherSecretCfg.SubjectSecret = "another_subject_secret"
	otherSecret, err := auth.NewTokenService(otherSecretCfg, store, auth.WithClock(c.Now))
	require.NoError(t, err)

	tests := []struct {
		name    string
		issue   func() (string, error)
		advance time.Duration
		want    auth.ValidationStatus
	}{
		{
			name: "Expired Before Version",
			issue: func() (string, error) {
				return svc.CreateToken("10.0.0.1", active.Email, models.AudienceWeb, 5, false)
			},
			advance: 2 * time.Hour,
			want:    auth.StatusExpired,
		},
		{
			name: "Old Version",
			issue: func() (string, error) {
				return svc.CreateToken("10.0.0.1", active.Email, models.AudienceApp, 5, false)
			},
			want: auth.StatusOldVersion,
		},
		{
			name: "Undecryptable Subject",
			issue: func() (string, error) {
				return otherSecret.CreateToken("10.0.0.1", active.Email, models.AudienceApp, 5, false)
			},
			want: auth.StatusInvalidUser,
		},
		{
			name: "Unknown Account",
			issue: func() (string, error) {
				return svc.CreateToken("10.0.0.1", "ghost@example.com", models.AudienceApp, 5, false)
			},
			want: auth.StatusInvalidUser,
		},
		{
			name: "Inactive Account",
			issue: func() (string, error) {
				return svc.CreateToken("10.0.0.1", inactive.Email, models.AudienceApp, 5, false)
			},
			want: auth.StatusInactiveUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issue()
			require.NoError(t, err)

			validator := svc
			if tt.want == auth.StatusOldVersion || tt.want == auth.StatusExpired {
				validator = newer
			}

			c.Advance(tt.advance)
			defer c.Advance(-tt.advance)

			claims, err := validator.ParseToken(token)
			require.NoError(t, err)
			require.Equal(t, tt.want, validator.ValidateToken(context.Background(), "10.0.0.9", claims).Status)
		})
	}
}

func TestParseToken_Rejects(t *testing.T) {
	store := testutil.NewMemoryStore()
	c := &clock{now: time.Now()}
	svc := newTokenService(t, store, c)

	valid, err := svc.CreateToken("10.0.0.1", "jane@example.com", models.AudienceApp, 5, false)
	require.NoError(t, err)

	foreignIssuerCfg := testutil.AuthConfig()
	foreignIssuerCfg.Issuer = "someone-else"
	foreign, err := auth.NewTokenService(foreignIssuerCfg, store)
	require.NoError(t, err)
	foreignToken, err := foreign.CreateToken("10.0.0.1", "jane@example.com", models.AudienceApp, 5, false)
	require.NoError(t, err)

	wrongAlg := jwt.NewWithClaims(jwt.SigningMethodHS512, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "authcore-test", Audience: jwt.ClaimStrings{"app"}},
		Version:          3,
	})
	wrongAlgToken, err := wrongAlg.SignedString([]byte("test_secret_key"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"Tampered Signature", valid[:len(valid)-2] + "xx"},
		{"Foreign Issuer", foreignToken},
		{"Unexpected Algorithm", wrongAlgToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(tt.token)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestNewTokenService_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "token.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	cfg := testutil.AuthConfig()
	cfg.Algorithm = "RS256"
	cfg.PrivateKeyFile = path

	store := testutil.NewMemoryStore()
	store.Seed(testutil.NewAccount("jane@example.com", "", models.RoleUser))

	svc, err := auth.NewTokenService(cfg, store)
	require.NoError(t, err)

	token, err := svc.CreateToken("10.0.0.1", "jane@example.com", models.AudienceApp, 5, false)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, auth.StatusValid, svc.ValidateToken(context.Background(), "10.0.0.1", claims).Status)
}

func TestNewTokenService_Errors(t *testing.T) {
	cases := map[string]func() error{
		"Unknown Algorithm": func() error {
			cfg := testutil.AuthConfig()
			cfg.Algorithm = "none"
			_, err := auth.NewTokenService(cfg, nil)
			return err
		},
		"Missing Secret": func() error {
			cfg := testutil.AuthConfig()
			cfg.Secret = ""
			_, err := auth.NewTokenService(cfg, nil)
			return err
		},
		"Missing Key File": func() error {
			cfg := testutil.AuthConfig()
			cfg.Algorithm = "RS256"
			cfg.PrivateKeyFile = filepath.Join(t.TempDir(), "missing.pem")
			_, err := auth.NewTokenService(cfg, nil)
			return err
		},
		"Missing Subject Secret": func() error {
			cfg := testutil.AuthConfig()
			cfg.SubjectSecret = ""
			_, err := auth.NewTokenService(cfg, nil)
			return err
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, build())
		})
	}
}
