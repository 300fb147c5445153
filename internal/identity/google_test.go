package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"authcore/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signGoogleToken(t *testing.T, key *rsa.PrivateKey, mutate func(*identity.GoogleClaims)) string {
	t.Helper()
	claims := &identity.GoogleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "1234567890",
			Audience:  jwt.ClaimStrings{"client-a"},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:         "Jane@Example.com",
		EmailVerified: true,
		GivenName:     "Jane",
		FamilyName:    "Doe",
		Picture:       "https://example.com/jane.png",
	}
	if mutate != nil {
		mutate(claims)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestGoogleVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyfunc := func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}

	tests := []struct {
		name       string
		requireHD  bool
		clientIDs  []string
		signWith   *rsa.PrivateKey
		mutate     func(*identity.GoogleClaims)
		wantErr    error
		wantDomain string
	}{
		{
			name:      "Valid",
			clientIDs: []string{"client-b", "client-a"},
			signWith:  key,
		},
		{
			name:      "Short Issuer Form",
			clientIDs: []string{"client-a"},
			signWith:  key,
			mutate:    func(c *identity.GoogleClaims) { c.Issuer = "accounts.google.com" },
		},
		{
			name:      "Foreign Issuer",
			clientIDs: []string{"client-a"},
			signWith:  key,
			mutate:    func(c *identity.GoogleClaims) { c.Issuer = "https://evil.example.com" },
			wantErr:   identity.ErrInvalidToken,
		},
		{
			name:      "Foreign Audience",
			clientIDs: []string{"client-b"},
			signWith:  key,
			wantErr:   identity.ErrInvalidToken,
		},
		{
			name:     "No Client IDs",
			signWith: key,
			wantErr:  identity.ErrInvalidToken,
		},
		{
			name:      "Expired",
			clientIDs: []string{"client-a"},
			signWith:  key,
			mutate: func(c *identity.GoogleClaims) {
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			},
			wantErr: identity.ErrInvalidToken,
		},
		{
			name:      "Wrong Key",
			clientIDs: []string{"client-a"},
			signWith:  otherKey,
			wantErr:   identity.ErrInvalidToken,
		},
		{
			name:      "Unverified Email",
			clientIDs: []string{"client-a"},
			signWith:  key,
			mutate:    func(c *identity.GoogleClaims) { c.EmailVerified = false },
			wantErr:   identity.ErrEmailNotVerified,
		},
		{
			name:      "GSuite Without Hosted Domain",
			requireHD: true,
			clientIDs: []string{"client-a"},
			signWith:  key,
			wantErr:   identity.ErrInvalidToken,
		},
		{
			name:       "GSuite",
			requireHD:  true,
			clientIDs:  []string{"client-a"},
			signWith:   key,
			mutate:     func(c *identity.GoogleClaims) { c.HostedDomain = "Example.com" },
			wantDomain: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := identity.NewGoogleVerifier(keyfunc, tt.clientIDs, tt.requireHD)
			token := signGoogleToken(t, tt.signWith, tt.mutate)

			profile, err := v.Verify(context.Background(), token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "jane@example.com", profile.Email)
			require.Equal(t, "1234567890", profile.SocialID)
			require.Equal(t, "Jane", profile.FirstName)
			require.Equal(t, "Doe", profile.LastName)
			require.Equal(t, "https://example.com/jane.png", profile.ProfilePic)
			require.Equal(t, tt.wantDomain, profile.HostedDomain)
		})
	}
}
