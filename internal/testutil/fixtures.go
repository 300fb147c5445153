package testutil

import (
	"time"

	"authcore/internal/config"
	"authcore/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig returns token and throttle settings for unit tests
func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Issuer:               "authcore-test",
		Version:              3,
		Algorithm:            "HS256",
		Secret:               "test_secret_key",
		SubjectSecret:        "test_subject_secret",
		TokenExpiry:          time.Minute,
		SameIPTokenExpiry:    time.Hour,
		MaxLoginAttempts:     3,
		AccountBlockDuration: time.Hour,
		BcryptCost:           bcrypt.MinCost,
	}
}

// HashPassword hashes password with the minimum bcrypt cost
func HashPassword(password string) *string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return String(string(hashed))
}

// NewAccount builds an active account holding the given roles. An empty
// password leaves the account without one.
func NewAccount(email, password string, roles ...models.RoleName) *models.Account {
	a := &models.Account{
		Email:     email,
		Status:    models.StatusActive,
		CreatedOn: time.Now(),
		Details: models.AccountDetails{
			FirstName: String("Test"),
			LastName:  String("User"),
		},
	}
	if password != "" {
		a.Password = HashPassword(password)
	}
	for _, r := range roles {
		a.Roles = append(a.Roles, models.Role{ID: seededRoles[r], Name: r})
	}
	return a
}
