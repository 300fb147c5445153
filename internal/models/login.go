package models

import "time"

// LoginHistory holds the login bookkeeping of one account.
// The row is created lazily on the first login or wrong attempt.
type LoginHistory struct {
	AccountID             int64      `json:"-" db:"account_id"`
	LastLogin             *time.Time `json:"lastLogin" db:"last_login"`
	WrongLoginCount       int        `json:"wrongLoginCount" db:"wrong_login_count"`
	LastWrongLoginAttempt *time.Time `json:"lastWrongLoginAttempt" db:"last_wrong_login_attempt"`
}

// LoginProvider names an external identity provider
type LoginProvider string

const (
	ProviderGoogle   LoginProvider = "GOOGLE"
	ProviderFacebook LoginProvider = "FACEBOOK"
	ProviderGSuite   LoginProvider = "GSUITE"
)

// ThirdPartyLogin links an account to its identity at a provider
type ThirdPartyLogin struct {
	AccountID      int64         `db:"account_id"`
	SocialID       string        `db:"social_id"`
	RegisteredFrom LoginProvider `db:"registered_from"`
	CreatedOn      time.Time     `db:"created_on"`
}

// Audience selects the token variant
type Audience string

const (
	AudienceWeb Audience = "web"
	AudienceApp Audience = "app"
)
