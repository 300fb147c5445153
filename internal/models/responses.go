package models

import "authcore/internal/apperror"

// TokenResponse is returned by every login channel
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// ErrorResponse represents an error response
type ErrorResponse = apperror.Body

// SuccessResponse represents a success response
type SuccessResponse struct {
	MessageKey string `json:"messageKey" example:"deleteUser"`
	Reason     string `json:"reason" example:"success"`
}
