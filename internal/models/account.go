package models

import (
	"time"
)

// AccountStatus is the lifecycle state of an account
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// Account represents a user account with its profile, roles and login history
type Account struct {
	ID            int64          `json:"id" db:"id"`
	Email         string         `json:"email" db:"email"`
	Password      *string        `json:"-" db:"password"`
	Status        AccountStatus  `json:"status" db:"status"`
	EmailVerified bool           `json:"emailVerified" db:"email_verified"`
	CreatedBy     *int64         `json:"-" db:"created_by"`
	UpdatedBy     *int64         `json:"-" db:"updated_by"`
	CreatedOn     time.Time      `json:"createdOn" db:"created_on"`
	UpdatedOn     *time.Time     `json:"updatedOn,omitempty" db:"updated_on"`
	Details       AccountDetails `json:"details"`
	Roles         []Role         `json:"roles"`
	LoginHistory  *LoginHistory  `json:"-"`
}

// AccountDetails is the default profile row stored alongside every account
type AccountDetails struct {
	FirstName   *string    `json:"firstName" db:"first_name"`
	LastName    *string    `json:"lastName" db:"last_name"`
	DialCode    *string    `json:"dialCode" db:"dial_code"`
	Phone       *string    `json:"phone" db:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	ProfilePic  *string    `json:"profilePic" db:"profile_pic"`
}

// IsActive reports whether the account may log in
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// HasPassword reports whether password login is possible for the account
func (a *Account) HasPassword() bool {
	return a.Password != nil && *a.Password != ""
}

// HasRole reports whether the account holds a role with the given name
func (a *Account) HasRole(name RoleName) bool {
	for _, r := range a.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Type is the highest role id held, 0 when the account has no roles
func (a *Account) Type() int {
	t := 0
	for _, r := range a.Roles {
		if r.ID > t {
			t = r.ID
		}
	}
	return t
}

// IsCustomer reports whether the account holds the USER role
func (a *Account) IsCustomer() bool {
	return a.HasRole(RoleUser)
}

// IsCompanyEmployee reports whether the account holds EMPLOYEE or COMPANY_ADMIN
func (a *Account) IsCompanyEmployee() bool {
	return a.HasRole(RoleEmployee) || a.HasRole(RoleCompanyAdmin)
}

// IsFirstLogin reports whether no successful login has been recorded
func (a *Account) IsFirstLogin() bool {
	return a.LoginHistory == nil || a.LoginHistory.LastLogin == nil
}

// AccountDraft carries the writable fields of an account.
// Nil fields are left untouched on update.
type AccountDraft struct {
	ID            int64
	Email         string
	Password      *string
	Status        AccountStatus
	EmailVerified bool
	Role          RoleName
	FirstName     *string
	LastName      *string
	DialCode      *string
	Phone         *string
	DateOfBirth   *time.Time
	ProfilePic    *string
}

// UserProfile is the public projection of an account
type UserProfile struct {
	ID          int64         `json:"id" example:"42"`
	Email       string        `json:"email" example:"jane@example.com"`
	FirstName   *string       `json:"firstName" example:"Jane"`
	LastName    *string       `json:"lastName" example:"Doe"`
	DialCode    *string       `json:"dialCode,omitempty" example:"46"`
	Phone       *string       `json:"phone,omitempty" example:"701234567"`
	DateOfBirth *string       `json:"dateOfBirth,omitempty" example:"1990-01-31"`
	ProfilePic  *string       `json:"profilePic,omitempty"`
	Status      AccountStatus `json:"status" example:"ACTIVE"`
}

// DateLayout is the wire format of dates of birth
const DateLayout = "2006-01-02"

// NewUserProfile projects an account into its public profile
func NewUserProfile(a *Account) UserProfile {
	p := UserProfile{
		ID:         a.ID,
		Email:      a.Email,
		FirstName:  a.Details.FirstName,
		LastName:   a.Details.LastName,
		DialCode:   a.Details.DialCode,
		Phone:      a.Details.Phone,
		ProfilePic: a.Details.ProfilePic,
		Status:     a.Status,
	}
	if a.Details.DateOfBirth != nil {
		d := a.Details.DateOfBirth.Format(DateLayout)
		p.DateOfBirth = &d
	}
	return p
}
