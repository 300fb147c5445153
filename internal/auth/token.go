package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"authcore/internal/config"
	"authcore/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates the token is malformed, badly signed or foreign
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationStatus is the outcome of ValidateToken
type ValidationStatus string

const (
	StatusValid        ValidationStatus = "VALID"
	StatusExpired      ValidationStatus = "EXPIRED"
	StatusOldVersion   ValidationStatus = "OLD_VERSION"
	StatusInactiveUser ValidationStatus = "INACTIVE_USER"
	StatusInvalidUser  ValidationStatus = "INVALID_USER"
)

// ValidationResult carries the status and, when resolved, the account
type ValidationResult struct {
	Status  ValidationStatus
	Account *models.Account
}

// SameIPExpiry is the extended validity window bound to the issuing client IP
type SameIPExpiry struct {
	IP   string `json:"ip"`
	Time int64  `json:"time"`
}

// Claims is the token payload. The subject is the encrypted account email.
type Claims struct {
	jwt.RegisteredClaims
	Version    int           `json:"version"`
	Type       int           `json:"type,omitempty"`
	FirstLogin bool          `json:"firstLogin,omitempty"`
	SameIP     *SameIPExpiry `json:"exp2,omitempty"`
}

// AccountFinder resolves the account a token refers to
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// TokenService issues and validates signed tokens
type TokenService struct {
	cfg       config.AuthConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	cipher    *SubjectCipher
	accounts  AccountFinder
	now       func() time.Time
}

// TokenOption configures a TokenService
type TokenOption func(*TokenService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service for the configured algorithm
func NewTokenService(cfg config.AuthConfig, accounts AccountFinder, opts ...TokenOption) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	s := &TokenService{
		cfg:      cfg,
		method:   method,
		accounts: accounts,
		now:      time.Now,
	}

	switch {
	case strings.HasPrefix(cfg.Algorithm, "HS"):
		if cfg.Secret == "" {
			return nil, errors.New("token secret is empty")
		}
		s.signKey = []byte(cfg.Secret)
		s.verifyKey = s.signKey
	case strings.HasPrefix(cfg.Algorithm, "RS"):
		key, err := loadRSAKey(cfg.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		s.signKey = key
		s.verifyKey = &key.PublicKey
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	cipher, err := NewSubjectCipher(cfg.SubjectSecret, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	s.cipher = cipher

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func loadRSAKey(path string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func normalizeAudience(aud models.Audience) models.Audience {
	if aud == models.AudienceApp {
		return models.AudienceApp
	}
	return models.AudienceWeb
}

// CreateToken signs a token for email. Web tokens expire after TokenExpiry,
// or after SameIPTokenExpiry when presented from clientIP. App tokens carry
// no expiry. firstLogin is only written when true.
func (s *TokenService) CreateToken(clientIP, email string, audience models.Audience, accountType int, firstLogin bool) (string, error) {
	subject, err := s.cipher.Encrypt(email)
	if err != nil {
		return "", fmt.Errorf("encrypt subject: %w", err)
	}

	now := s.now()
	audience = normalizeAudience(audience)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{string(audience)},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Version:    s.cfg.Version,
		Type:       accountType,
		FirstLogin: firstLogin,
	}

	if audience == models.AudienceWeb {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TokenExpiry))
		claims.SameIP = &SameIPExpiry{
			IP:   clientIP,
			Time: now.Add(s.cfg.SameIPTokenExpiry).Unix(),
		}
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.signKey)
}

// ParseToken verifies the signature and issuer. Time-based claims are left to
// ValidateToken because the two expiry windows are evaluated together there.
func (s *TokenService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.verifyKey, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Issuer != s.cfg.Issuer {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if len(claims.Audience) != 1 ||
		(claims.Audience[0] != string(models.AudienceWeb) && claims.Audience[0] != string(models.AudienceApp)) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}
	if claims.NotBefore != nil && s.now().Before(claims.NotBefore.Time) {
		return nil, fmt.Errorf("%w: not valid yet", ErrInvalidToken)
	}

	return claims, nil
}

// IsApp reports whether the token was issued for the app audience
func (c *Claims) IsApp() bool {
	return len(c.Audience) == 1 && c.Audience[0] == string(models.AudienceApp)
}

// isExpired holds when neither the general window nor the same-IP window is open
func (s *TokenService) isExpired(clientIP string, claims *Claims, now time.Time) bool {
	general := claims.ExpiresAt != nil && now.Before(claims.ExpiresAt.Time)
	sameIP := claims.SameIP != nil &&
		claims.SameIP.IP == clientIP &&
		now.Before(time.Unix(claims.SameIP.Time, 0))
	return !general && !sameIP
}

// ValidateToken checks parsed claims for the request coming from clientIP.
// Checks short-circuit in order: expiry, version, subject, account status.
func (s *TokenService) ValidateToken(ctx context.Context, clientIP string, claims *Claims) ValidationResult {
	if !claims.IsApp() && s.isExpired(clientIP, claims, s.now()) {
		return ValidationResult{Status: StatusExpired}
	}
	if claims.Version != s.cfg.Version {
		return ValidationResult{Status: StatusOldVersion}
	}

	email, err := s.cipher.Decrypt(claims.Subject)
	if err != nil {
		return ValidationResult{Status: StatusInvalidUser}
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil || account == nil {
		return ValidationResult{Status: StatusInvalidUser}
	}
	if !account.IsActive() {
		return ValidationResult{Status: StatusInactiveUser, Account: account}
	}

	return ValidationResult{Status: StatusValid, Account: account}
}
