// Package identity verifies tokens issued by external identity providers
package identity

import (
	"context"
	"errors"

	"authcore/internal/models"
)

var (
	// ErrInvalidToken is returned when a provider rejects or cannot vouch for a token
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrEmailNotVerified is returned when the provider has not verified the email
	ErrEmailNotVerified = errors.New("identity: email not verified")
)

// Profile is the identity a provider vouches for
type Profile struct {
	Email         string
	EmailVerified bool
	SocialID      string
	FirstName     string
	LastName      string
	ProfilePic    string
	// HostedDomain is the GSuite domain of the account, empty for consumer accounts
	HostedDomain string
}

// Verifier checks a provider token and returns the profile it carries
type Verifier interface {
	Verify(ctx context.Context, token string) (*Profile, error)
}

// Registry maps login providers to their verifiers
type Registry map[models.LoginProvider]Verifier

// Verifier returns the verifier registered for provider
func (r Registry) Verifier(provider models.LoginProvider) (Verifier, bool) {
	v, ok := r[provider]
	return v, ok && v != nil
}
