package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"authcore/internal/account"
	"authcore/internal/api/routes"
	"authcore/internal/apperror"
	"authcore/internal/auth"
	"authcore/internal/config"
	"authcore/internal/identity"
	"authcore/internal/models"
	"authcore/internal/testutil"
	"authcore/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upPinger struct{}

func (upPinger) PingContext(ctx context.Context) error { return nil }

type welcomeRecorder struct {
	mu     sync.Mutex
	emails []string
}

func (w *welcomeRecorder) SendWelcome(a *models.Account) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emails = append(w.emails, a.Email)
}

type app struct {
	router  *gin.Engine
	store   *testutil.MemoryStore
	welcome *welcomeRecorder
}

func newApp(t *testing.T, rateLimit config.RateLimitConfig) *app {
	t.Helper()
	return newAppWithConfig(t, &config.Config{Auth: testutil.AuthConfig(), RateLimit: rateLimit})
}

func newAppWithConfig(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Initialize()

	logger := zap.NewNop()

	store := testutil.NewMemoryStore()
	tx := &testutil.StubTransactor{}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	welcome := &welcomeRecorder{}

	accounts := account.NewService(tx, store, hasher, welcome, logger)
	tokens, err := auth.NewTokenService(cfg.Auth, store)
	require.NoError(t, err)

	security := auth.NewService(
		tx, store, store, accounts, tokens,
		auth.NewThrottle(cfg.Auth, store, tx, logger),
		hasher,
		identity.Registry{},
		auth.NewDomainPolicy(nil),
		logger,
	)

	router, err := routes.SetupRoutes(cfg, routes.Services{
		DB:       upPinger{},
		Security: security,
		Accounts: accounts,
	}, logger)
	require.NoError(t, err)

	return &app{router: router, store: store, welcome: welcome}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.doForwarded(t, method, path, token, "", body)
}

// doForwarded sends the request from the test socket address, adding an
// X-Forwarded-For header when forwardedFor is set.
func (a *app) doForwarded(t *testing.T, method, path, token, forwardedFor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = socketIP + ":40000"
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func errorFrom(t *testing.T, w *httptest.ResponseRecorder) apperror.Body {
	t.Helper()

	var body apperror.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const socketIP = "198.51.100.4"

var defaultLimits = config.RateLimitConfig{Requests: 100, Window: 60, Burst: 100}

func TestAccountLifecycle(t *testing.T) {
	a := newApp(t, defaultLimits)

	admin := testutil.NewAccount("admin@example.com", "admin-passw0rd", models.RoleAdmin)
	a.store.Seed(admin)

	signup := models.SignupRequest{
		Email:     "jane@example.com",
		Password:  "s3cret-passw0rd",
		FirstName: "Jane",
		LastName:  "Doe",
	}
	janeToken := tokenFrom(t, a.do(t, http.MethodPost, "/api/signup", "", signup))
	require.Equal(t, []string{"jane@example.com"}, a.welcome.emails)

	w := a.do(t, http.MethodPost, "/api/signup", "", signup)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "duplicateUser", errorFrom(t, w).Reason)

	w = a.do(t, http.MethodGet, "/api/user/profile", janeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.Equal(t, "jane@example.com", profile.Email)
	require.Equal(t, "Jane", *profile.FirstName)

	w = a.do(t, http.MethodPut, "/api/user/profile", janeToken, map[string]string{
		"firstName":   "Janet",
		"dialCode":    "+46",
		"phone":       "701234567",
		"dateOfBirth": "1990-01-31",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.Equal(t, "Janet", *profile.FirstName)
	require.Equal(t, "46", *profile.DialCode)
	require.Equal(t, "1990-01-31", *profile.DateOfBirth)

	refreshed := tokenFrom(t, a.do(t, http.MethodPost, "/api/token/refresh", janeToken, nil))

	loginToken := tokenFrom(t, a.do(t, http.MethodPost, "/api/login", "", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cret-passw0rd",
	}))

	w = a.do(t, http.MethodDelete, "/api/user/"+itoa(admin.ID), loginToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apperror.Body{MessageKey: "auth", Reason: "forbidden"}, errorFrom(t, w))

	adminToken := tokenFrom(t, a.do(t, http.MethodPost, "/api/login", "", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "admin-passw0rd",
	}))

	jane, err := a.store.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	w = a.do(t, http.MethodDelete, "/api/user/"+itoa(jane.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"messageKey":"deleteUser","reason":"success"}`, w.Body.String())

	w = a.do(t, http.MethodDelete, "/api/user/"+itoa(jane.ID), adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	for _, token := range []string{janeToken, refreshed} {
		w = a.do(t, http.MethodGet, "/api/user/profile", token, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, apperror.Body{MessageKey: "auth", Reason: "invalidUser"}, errorFrom(t, w))
	}
}

func TestLoginBlocksAfterMaxAttempts(t *testing.T) {
	a := newApp(t, defaultLimits)
	a.store.Seed(testutil.NewAccount("jane@example.com", "s3cret-passw0rd", models.RoleUser))

	wrong := models.LoginRequest{Email: "jane@example.com", Password: "wrong-password"}
	for i := 0; i < testutil.AuthConfig().MaxLoginAttempts; i++ {
		w := a.do(t, http.MethodPost, "/api/login", "", wrong)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "invalidCredentials", errorFrom(t, w).Reason)
	}

	w := a.do(t, http.MethodPost, "/api/login", "", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cret-passw0rd",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apperror.Body{MessageKey: "login", Reason: "accountBlocked"}, errorFrom(t, w))
}

func TestPublicSurface(t *testing.T) {
	a := newApp(t, config.RateLimitConfig{Requests: 2, Window: 60, Burst: 2})

	t.Run("Health Is Not Rate Limited", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/ping", "", nil).Code)
		}
		require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/health-check", "", nil).Code)
	})

	t.Run("Unknown Provider Is Rejected", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/api/login/thirdparty", "", map[string]string{"type": "GOOGLE", "token": "x"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, apperror.Body{MessageKey: "thirdPartyLogin", Reason: "invalidToken"}, errorFrom(t, w))
	})

	t.Run("Login Is Rate Limited", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/api/login", "", map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = a.do(t, http.MethodPost, "/api/login", "", map[string]string{})
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		require.Equal(t, "tooManyRequests", errorFrom(t, w).Reason)
	})

	t.Run("Protected Route Needs Token", func(t *testing.T) {
		w := a.do(t, http.MethodGet, "/api/user/profile", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, apperror.Body{MessageKey: "auth", Reason: "missingToken"}, errorFrom(t, w))
	})
}

func TestForwardedForIsNotTrustedByDefault(t *testing.T) {
	const tokenIP = "203.0.113.9"

	// Five minutes old: the general window is closed, the same-IP window is
	// only open when the request comes from tokenIP.
	staleToken := func(t *testing.T, a *app, account *models.Account) string {
		t.Helper()
		issued := time.Now().Add(-5 * time.Minute)
		tokens, err := auth.NewTokenService(testutil.AuthConfig(), a.store, auth.WithClock(func() time.Time { return issued }))
		require.NoError(t, err)
		token, err := tokens.CreateToken(tokenIP, account.Email, models.AudienceWeb, account.Type(), false)
		require.NoError(t, err)
		return token
	}

	t.Run("Spoofed Header Does Not Reopen Same IP Window", func(t *testing.T) {
		a := newApp(t, defaultLimits)
		jane := testutil.NewAccount("jane@example.com", "s3cret-passw0rd", models.RoleUser)
		a.store.Seed(jane)

		w := a.doForwarded(t, http.MethodGet, "/api/user/profile", staleToken(t, a, jane), tokenIP, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, apperror.Body{MessageKey: "auth", Reason: "tokenExpired"}, errorFrom(t, w))
	})

	t.Run("Trusted Proxy Header Is Honoured", func(t *testing.T) {
		cfg := &config.Config{Auth: testutil.AuthConfig(), RateLimit: defaultLimits}
		cfg.API.TrustedProxies = []string{"198.51.100.0/24"}
		a := newAppWithConfig(t, cfg)
		jane := testutil.NewAccount("jane@example.com", "s3cret-passw0rd", models.RoleUser)
		a.store.Seed(jane)

		w := a.doForwarded(t, http.MethodGet, "/api/user/profile", staleToken(t, a, jane), tokenIP, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Rotating Header Does Not Escape Rate Limit", func(t *testing.T) {
		a := newApp(t, config.RateLimitConfig{Requests: 1, Window: 60, Burst: 1})

		w := a.doForwarded(t, http.MethodPost, "/api/login", "", "203.0.113.1", map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code)

		for _, ip := range []string{"203.0.113.2", "203.0.113.3", "203.0.113.4"} {
			w := a.doForwarded(t, http.MethodPost, "/api/login", "", ip, map[string]string{})
			require.Equal(t, http.StatusTooManyRequests, w.Code, "forwarded for %s", ip)
		}
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
