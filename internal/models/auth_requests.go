package models

// SignupRequest represents a self-service signup
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=254" example:"jane@example.com"`
	Password  string `json:"password" binding:"required,min=8,max=72" example:"s3cret-passw0rd"`
	FirstName string `json:"firstName" binding:"required,notblank,max=100" example:"Jane"`
	LastName  string `json:"lastName" binding:"required,notblank,max=100" example:"Doe"`
}

// LoginRequest represents a password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-passw0rd"`
}

// ThirdPartyLoginRequest carries a provider token for GOOGLE or FACEBOOK
type ThirdPartyLoginRequest struct {
	Type  LoginProvider `json:"type" binding:"required,oneof=GOOGLE FACEBOOK" example:"GOOGLE"`
	Token string        `json:"token" binding:"required,notblank"`
}

// SSOLoginRequest carries a GSuite ID token
type SSOLoginRequest struct {
	Type  LoginProvider `json:"type" binding:"required,oneof=GSUITE" example:"GSUITE"`
	Token string        `json:"token" binding:"required,notblank"`
}

// UpdateProfileRequest represents a profile update of the authenticated account
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,notblank,max=100" example:"Jane"`
	LastName    *string `json:"lastName" binding:"omitempty,notblank,max=100" example:"Doe"`
	Email       *string `json:"email" binding:"omitempty,email,max=254" example:"jane@example.com"`
	DialCode    *string `json:"dialCode" binding:"omitempty,dialcode" example:"46"`
	Phone       *string `json:"phone" binding:"omitempty,numeric,max=15" example:"701234567"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02" example:"1990-01-31"`
}
