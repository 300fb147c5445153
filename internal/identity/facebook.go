package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FacebookVerifier resolves an access token through the Graph API /me endpoint
type FacebookVerifier struct {
	graphURL string
	client   *http.Client
}

// NewFacebookVerifier creates a verifier against graphURL
func NewFacebookVerifier(graphURL string, timeout time.Duration) *FacebookVerifier {
	return &FacebookVerifier{
		graphURL: strings.TrimRight(graphURL, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type facebookUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Verify implements Verifier
func (v *FacebookVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	query := url.Values{
		"fields":       {"id,email,first_name,last_name,picture.type(large)"},
		"access_token": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.graphURL+"/me?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build graph request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: graph api returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var user facebookUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: empty graph user", ErrInvalidToken)
	}

	return &Profile{
		Email:         strings.ToLower(user.Email),
		EmailVerified: user.Email != "",
		SocialID:      user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ProfilePic:    user.Picture.Data.URL,
	}, nil
}
