package middleware

import (
	"context"
	"strings"

	"authcore/internal/apperror"
	"authcore/internal/auth"
	"authcore/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	accountKey = "account"
	claimsKey  = "claims"
)

// Authenticator resolves a bearer token into its claims and validation outcome
type Authenticator interface {
	Authenticate(ctx context.Context, clientIP, token string) (*auth.Claims, auth.ValidationResult, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

var statusErrors = map[auth.ValidationStatus]*apperror.Error{
	auth.StatusExpired:      apperror.Unauthorized("auth", "tokenExpired"),
	auth.StatusOldVersion:   apperror.Unauthorized("auth", "oldVersion"),
	auth.StatusInvalidUser:  apperror.Unauthorized("auth", "invalidUser"),
	auth.StatusInactiveUser: apperror.Unauthorized("user", "inactiveUser"),
}

func abort(c *gin.Context, err *apperror.Error) {
	c.AbortWithStatusJSON(err.Status, err.ToBody())
}

// AuthRequired validates the bearer token and stores the account and claims
// in the context
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperror.Unauthorized("auth", "missingToken"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, apperror.Unauthorized("auth", "invalidToken"))
			return
		}

		claims, result, err := m.authenticator.Authenticate(c.Request.Context(), c.ClientIP(), parts[1])
		if err != nil {
			_ = c.Error(err)
			abort(c, apperror.Unauthorized("auth", "invalidToken"))
			return
		}

		if result.Status != auth.StatusValid {
			appErr, ok := statusErrors[result.Status]
			if !ok {
				appErr = apperror.Unauthorized("auth", "invalidToken")
			}
			abort(c, appErr)
			return
		}

		SetAccount(c, result.Account, claims)
		c.Next()
	}
}

// RequireRight rejects accounts whose roles do not grant right.
// It must run after AuthRequired.
func (m *AuthMiddleware) RequireRight(right auth.Right) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			abort(c, apperror.Unauthorized("auth", "missingToken"))
			return
		}
		if !auth.HasRight(account, right) {
			abort(c, apperror.Forbidden("auth"))
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the account stored by AuthRequired
func CurrentAccount(c *gin.Context) *models.Account {
	if v, ok := c.Get(accountKey); ok {
		if account, ok := v.(*models.Account); ok {
			return account
		}
	}
	return nil
}

// CurrentClaims returns the token claims stored by AuthRequired
func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// SetAccount stores account as the authenticated account
func SetAccount(c *gin.Context, account *models.Account, claims *auth.Claims) {
	c.Set(accountKey, account)
	c.Set(claimsKey, claims)
}
