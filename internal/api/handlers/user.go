package handlers

import (
	"context"
	"net/http"
	"strconv"

	"authcore/internal/api/middleware"
	"authcore/internal/apperror"
	"authcore/internal/models"

	"github.com/gin-gonic/gin"
)

// AccountService manages user profiles
type AccountService interface {
	FetchUserProfile(account *models.Account) models.UserProfile
	ModifyUserProfile(ctx context.Context, req models.UpdateProfileRequest, actor *models.Account) (models.UserProfile, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserHandler struct {
	accounts AccountService
}

func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetProfile godoc
// @Summary Get own profile
// @Description Returns the profile of the authenticated account
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} models.ErrorResponse "Missing, expired or invalid token"
// @Security BearerAuth
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	if account == nil {
		respondError(c, "auth", apperror.Unauthorized("auth", "missingToken"))
		return
	}
	c.JSON(http.StatusOK, h.accounts.FetchUserProfile(account))
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Updates names, email, phone and date of birth of the authenticated account
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields to change"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Missing, expired or invalid token"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	if account == nil {
		respondError(c, "auth", apperror.Unauthorized("auth", "missingToken"))
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "updateProfile", err)
		return
	}

	profile, err := h.accounts.ModifyUserProfile(c.Request.Context(), req, account)
	if err != nil {
		respondError(c, "updateProfile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteUser godoc
// @Summary Delete an account
// @Description Removes an account with its profile, roles and login history
// @Tags users
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid account id"
// @Failure 403 {object} models.ErrorResponse "Missing user:delete right"
// @Failure 404 {object} models.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, "deleteUser", apperror.InvalidRequest("deleteUser"))
		return
	}

	if err := h.accounts.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, "deleteUser", err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{MessageKey: "deleteUser", Reason: "success"})
}
