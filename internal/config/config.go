// Package config loads the application configuration from the environment
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains token and login throttling configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Email contains email service configuration
	Email EmailConfig
	// Identity contains third-party and SSO provider configuration
	Identity IdentityConfig
	// RateLimit contains per-IP rate limiting configuration
	RateLimit RateLimitConfig
	// Log contains logger configuration
	Log LogConfig
	// Jobs contains background job schedules
	Jobs JobsConfig
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           int    `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"authcore"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// DSN returns the lib/pq keyword connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the connection string in URL form used by migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port            string        `env:"API_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"API_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are honoured. Empty means the socket address is always the client IP.
	TrustedProxies []string `env:"API_TRUSTED_PROXIES" envSeparator:","`
}

// AuthConfig contains token issuance and login throttling settings
type AuthConfig struct {
	// Issuer is written to the iss claim and required on validation
	Issuer string `env:"AUTH_TOKEN_ISSUER" envDefault:"authcore"`
	// Version invalidates every token issued under an older value
	Version int `env:"AUTH_TOKEN_VERSION" envDefault:"1"`
	// Algorithm is one of HS256, HS384, HS512, RS256, RS384, RS512
	Algorithm string `env:"AUTH_TOKEN_ALGORITHM" envDefault:"HS256"`
	// Secret signs HMAC tokens
	Secret string `env:"AUTH_TOKEN_SECRET"`
	// PrivateKeyFile is a PEM encoded RSA key used for RS* algorithms
	PrivateKeyFile string `env:"AUTH_TOKEN_PRIVATE_KEY_FILE"`
	// SubjectSecret derives the key that encrypts the token subject
	SubjectSecret string `env:"AUTH_SUBJECT_SECRET"`
	// TokenExpiry is the general validity window of web tokens
	TokenExpiry time.Duration `env:"AUTH_TOKEN_EXPIRY" envDefault:"1m"`
	// SameIPTokenExpiry is the extended window for requests from the issuing IP
	SameIPTokenExpiry time.Duration `env:"AUTH_SAME_IP_TOKEN_EXPIRY" envDefault:"60m"`
	// MaxLoginAttempts is the wrong-password count that blocks an account
	MaxLoginAttempts int `env:"AUTH_MAX_LOGIN_ATTEMPTS" envDefault:"3"`
	// AccountBlockDuration is how long a blocked account stays blocked
	AccountBlockDuration time.Duration `env:"AUTH_ACCOUNT_BLOCK_DURATION" envDefault:"1h"`
	// BcryptCost is the password hashing cost
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// EmailConfig contains email service settings
type EmailConfig struct {
	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	FromAddress  string        `env:"SMTP_FROM_ADDRESS"`
	AppURL       string        `env:"APP_URL"`
	SendTimeout  time.Duration `env:"SMTP_SEND_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether enough settings are present to send mail
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.FromAddress != ""
}

// IdentityConfig contains identity provider settings
type IdentityConfig struct {
	GoogleClientIDs      []string      `env:"GOOGLE_CLIENT_IDS" envSeparator:","`
	GoogleJWKSURL        string        `env:"GOOGLE_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	GSuiteClientIDs      []string      `env:"GSUITE_CLIENT_IDS" envSeparator:","`
	GSuiteAllowedDomains []string      `env:"GSUITE_ALLOWED_DOMAINS" envSeparator:","`
	FacebookGraphURL     string        `env:"FACEBOOK_GRAPH_URL" envDefault:"https://graph.facebook.com"`
	HTTPTimeout          time.Duration `env:"IDENTITY_HTTP_TIMEOUT" envDefault:"10s"`
}

// RateLimitConfig configures the per-IP limiter on public routes
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window
	Requests int `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	// Window is the time window in seconds
	Window int `env:"RATE_LIMIT_WINDOW" envDefault:"60"`
	// Burst is the maximum burst size
	Burst int `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	Dev   bool   `env:"LOG_DEV" envDefault:"false"`
	// File enables a daily rotated log file next to stdout
	File   string        `env:"LOG_FILE"`
	MaxAge time.Duration `env:"LOG_MAX_AGE" envDefault:"168h"`
}

// JobsConfig contains cron schedules for background jobs
type JobsConfig struct {
	ThrottleSweepSchedule string `env:"THROTTLE_SWEEP_SCHEDULE" envDefault:"*/15 * * * *"`
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return c.Validate()
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	switch {
	case strings.HasPrefix(c.Auth.Algorithm, "HS"):
		if c.Auth.Secret == "" {
			return fmt.Errorf("AUTH_TOKEN_SECRET is required for %s", c.Auth.Algorithm)
		}
	case strings.HasPrefix(c.Auth.Algorithm, "RS"):
		if c.Auth.PrivateKeyFile == "" {
			return fmt.Errorf("AUTH_TOKEN_PRIVATE_KEY_FILE is required for %s", c.Auth.Algorithm)
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_ALGORITHM %q", c.Auth.Algorithm)
	}

	if c.Auth.SubjectSecret == "" {
		return fmt.Errorf("AUTH_SUBJECT_SECRET is required")
	}
	if c.Auth.MaxLoginAttempts < 1 {
		return fmt.Errorf("AUTH_MAX_LOGIN_ATTEMPTS must be positive")
	}
	if c.Auth.TokenExpiry <= 0 || c.Auth.SameIPTokenExpiry <= 0 {
		return fmt.Errorf("token expiry windows must be positive")
	}
	for _, proxy := range c.API.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("API_TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}

	return nil
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}
