// Package apperror defines the domain errors returned to API clients.
//
// Every error carries the HTTP status it maps to and a {messageKey, reason}
// pair that is rendered as the response body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error
type Kind string

const (
	KindDuplicateAccount    Kind = "DuplicateAccount"
	KindAccountCreateFailed Kind = "AccountCreateFailed"
	KindAccountUpdateFailed Kind = "AccountUpdateFailed"
	KindAccountDeleteFailed Kind = "AccountDeleteFailed"
	KindInvalidCredentials  Kind = "InvalidCredentials"
	KindAccountBlocked      Kind = "AccountBlocked"
	KindInactiveUser        Kind = "InactiveUser"
	KindInvalidToken        Kind = "InvalidToken"
	KindNotAllowed          Kind = "NotAllowed"
	KindNotExist            Kind = "NotExist"
	KindNotFound            Kind = "NotFound"
	KindUnauthorized        Kind = "Unauthorized"
	KindForbidden           Kind = "Forbidden"
	KindInvalidRequest      Kind = "InvalidRequest"
	KindInvalidMessage      Kind = "InvalidMessage"
	KindTooManyRequests     Kind = "TooManyRequests"
	KindInternal            Kind = "Internal"
)

// Error is a domain error with a client-facing message key
type Error struct {
	Kind       Kind
	Status     int
	MessageKey string
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s/%s: %v", e.MessageKey, e.Reason, e.Err)
	}
	return e.MessageKey + "/" + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Body is the JSON representation of an Error
type Body struct {
	MessageKey string `json:"messageKey" example:"login"`
	Reason     string `json:"reason" example:"invalidCredentials"`
	Detail     string `json:"detail,omitempty"`
}

// ToBody converts the error into its response body
func (e *Error) ToBody() Body {
	return Body{MessageKey: e.MessageKey, Reason: e.Reason}
}

func newError(kind Kind, status int, key, reason string) *Error {
	return &Error{Kind: kind, Status: status, MessageKey: key, Reason: reason}
}

// DuplicateAccount reports an email already held by another account
func DuplicateAccount(key string) *Error {
	return newError(KindDuplicateAccount, http.StatusConflict, key, "duplicateUser")
}

// AccountCreateFailed reports a failed account insert
func AccountCreateFailed() *Error {
	return newError(KindAccountCreateFailed, http.StatusBadRequest, "createUser", "unableToCreate")
}

// AccountUpdateFailed reports an update that did not touch exactly one row
func AccountUpdateFailed() *Error {
	return newError(KindAccountUpdateFailed, http.StatusNotFound, "updateUser", "unableToUpdate")
}

// AccountDeleteFailed reports a delete that removed nothing
func AccountDeleteFailed() *Error {
	return newError(KindAccountDeleteFailed, http.StatusNotFound, "deleteUser", "unableToDelete")
}

// InvalidCredentials is returned for any failed password or provider check
func InvalidCredentials(key string) *Error {
	return newError(KindInvalidCredentials, http.StatusForbidden, key, "invalidCredentials")
}

// AccountBlocked is returned while the wrong-attempt block is active
func AccountBlocked(key string) *Error {
	return newError(KindAccountBlocked, http.StatusForbidden, key, "accountBlocked")
}

// InactiveUser is returned for accounts whose status is not ACTIVE
func InactiveUser(key string) *Error {
	return newError(KindInactiveUser, http.StatusUnauthorized, key, "inactiveUser")
}

// InvalidToken is returned when a provider token lacks required data
func InvalidToken(key string) *Error {
	return newError(KindInvalidToken, http.StatusBadRequest, key, "invalidToken")
}

// NotAllowed is returned when an account may not use a login channel
func NotAllowed(key string) *Error {
	return newError(KindNotAllowed, http.StatusBadRequest, key, "notAllowed")
}

// NotExist is returned when an SSO domain has no registered organisation
func NotExist(key string) *Error {
	return newError(KindNotExist, http.StatusBadRequest, key, "notExist")
}

// NotFound is returned when a requested record is absent
func NotFound(key string) *Error {
	return newError(KindNotFound, http.StatusNotFound, key, "notFound")
}

// Unauthorized is returned by the auth middleware
func Unauthorized(key, reason string) *Error {
	return newError(KindUnauthorized, http.StatusUnauthorized, key, reason)
}

// Forbidden is returned when the caller lacks a right
func Forbidden(key string) *Error {
	return newError(KindForbidden, http.StatusForbidden, key, "forbidden")
}

// InvalidRequest is returned for malformed request bodies
func InvalidRequest(key string) *Error {
	return newError(KindInvalidRequest, http.StatusBadRequest, key, "invalidRequest")
}

// InvalidMessage is returned when an outgoing email fails validation
func InvalidMessage(reason string) *Error {
	return newError(KindInvalidMessage, http.StatusBadRequest, "sendMessage", reason)
}

// TooManyRequests is returned by the rate limiter
func TooManyRequests() *Error {
	return newError(KindTooManyRequests, http.StatusTooManyRequests, "rateLimit", "tooManyRequests")
}

// Internal wraps an unexpected failure
func Internal(key string, cause error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, key, "internalError")
	e.Err = cause
	return e
}

// As extracts an *Error from err. Anything else becomes Internal.
func As(err error, key string) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(key, err)
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
