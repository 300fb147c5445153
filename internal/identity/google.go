package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleClaims are the ID token claims read from Google
type GoogleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	HostedDomain  string `json:"hd"`
}

// GoogleVerifier verifies Google ID tokens. With requireHostedDomain set it
// only accepts GSuite accounts.
type GoogleVerifier struct {
	keyfunc             jwt.Keyfunc
	clientIDs           []string
	requireHostedDomain bool
	now                 func() time.Time
}

// NewGoogleVerifier creates a verifier accepting tokens issued to clientIDs
func NewGoogleVerifier(keyfunc jwt.Keyfunc, clientIDs []string, requireHostedDomain bool) *GoogleVerifier {
	return &GoogleVerifier{
		keyfunc:             keyfunc,
		clientIDs:           clientIDs,
		requireHostedDomain: requireHostedDomain,
		now:                 time.Now,
	}
}

// NewGoogleJWKS fetches Google's signing keys and refreshes them in the
// background. Call EndBackground on the result during shutdown.
func NewGoogleJWKS(url string, logger *zap.Logger) (*keyfunc.JWKS, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn("failed to refresh Google JWKS", zap.Error(err))
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get Google JWKS: %w", err)
	}
	return jwks, nil
}

// Verify implements Verifier
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	if len(v.clientIDs) == 0 {
		return nil, fmt.Errorf("%w: no client ids configured", ErrInvalidToken)
	}

	claims := &GoogleClaims{}
	_, err := jwt.ParseWithClaims(token, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !contains(googleIssuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if !v.audienceAllowed(claims.Audience) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}
	if claims.Email != "" && !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if v.requireHostedDomain && claims.HostedDomain == "" {
		return nil, fmt.Errorf("%w: not a GSuite account", ErrInvalidToken)
	}

	return &Profile{
		Email:         strings.ToLower(claims.Email),
		EmailVerified: claims.EmailVerified,
		SocialID:      claims.Subject,
		FirstName:     claims.GivenName,
		LastName:      claims.FamilyName,
		ProfilePic:    claims.Picture,
		HostedDomain:  strings.ToLower(claims.HostedDomain),
	}, nil
}

func (v *GoogleVerifier) audienceAllowed(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if contains(v.clientIDs, a) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
