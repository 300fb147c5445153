package handlers

import (
	"context"
	"net/http"

	"authcore/internal/api/middleware"
	"authcore/internal/apperror"
	"authcore/internal/models"

	"github.com/gin-gonic/gin"
)

// SecurityService runs the login channels
type SecurityService interface {
	SignUp(ctx context.Context, clientIP string, req models.SignupRequest) (string, error)
	Login(ctx context.Context, clientIP, email, password string) (string, error)
	ThirdPartyLogin(ctx context.Context, clientIP string, req models.ThirdPartyLoginRequest) (string, error)
	SSOLogin(ctx context.Context, clientIP string, req models.SSOLoginRequest) (string, error)
	RefreshToken(clientIP string, account *models.Account, audience models.Audience) (string, error)
}

type SecurityHandler struct {
	security SecurityService
}

func NewSecurityHandler(security SecurityService) *SecurityHandler {
	return &SecurityHandler{security: security}
}

// SignUp godoc
// @Summary Register a customer
// @Description Creates an active customer account and returns an app token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Signup details"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /signup [post]
func (h *SecurityHandler) SignUp(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "signup", err)
		return
	}

	token, err := h.security.SignUp(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		respondError(c, "signup", err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Login godoc
// @Summary Email and password login
// @Description Authenticates with email and password and returns an app token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Inactive account"
// @Failure 403 {object} models.ErrorResponse "Invalid credentials or blocked account"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /login [post]
func (h *SecurityHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "login", err)
		return
	}

	token, err := h.security.Login(c.Request.Context(), c.ClientIP(), req.Email, req.Password)
	if err != nil {
		respondError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// ThirdPartyLogin godoc
// @Summary Google or Facebook login
// @Description Verifies a provider token, provisioning a customer account on first use
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ThirdPartyLoginRequest true "Provider token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request or token"
// @Failure 401 {object} models.ErrorResponse "Inactive account"
// @Failure 403 {object} models.ErrorResponse "Token rejected by the provider"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /login/thirdparty [post]
func (h *SecurityHandler) ThirdPartyLogin(c *gin.Context) {
	var req models.ThirdPartyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "thirdPartyLogin", err)
		return
	}

	token, err := h.security.ThirdPartyLogin(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		respondError(c, "thirdPartyLogin", err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// SSOLogin godoc
// @Summary GSuite single sign-on
// @Description Verifies a GSuite ID token for a company employee
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SSOLoginRequest true "GSuite ID token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request, token or unknown organisation"
// @Failure 401 {object} models.ErrorResponse "Inactive account"
// @Failure 403 {object} models.ErrorResponse "Token rejected by the provider"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /social-login [post]
func (h *SecurityHandler) SSOLogin(c *gin.Context) {
	var req models.SSOLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "ssoLogin", err)
		return
	}

	token, err := h.security.SSOLogin(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		respondError(c, "ssoLogin", err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// RefreshToken godoc
// @Summary Refresh the bearer token
// @Description Issues a new token for the authenticated account with the same audience
// @Tags auth
// @Produce json
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} models.ErrorResponse "Missing, expired or invalid token"
// @Security BearerAuth
// @Router /token/refresh [post]
func (h *SecurityHandler) RefreshToken(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	if account == nil {
		respondError(c, "auth", apperror.Unauthorized("auth", "missingToken"))
		return
	}

	audience := models.AudienceWeb
	if claims := middleware.CurrentClaims(c); claims != nil && claims.IsApp() {
		audience = models.AudienceApp
	}

	token, err := h.security.RefreshToken(c.ClientIP(), account, audience)
	if err != nil {
		respondError(c, "refreshToken", err)
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}
