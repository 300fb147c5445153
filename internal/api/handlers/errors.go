package handlers

import (
	"authcore/internal/apperror"

	"github.com/gin-gonic/gin"
)

// respondError renders err as {messageKey, reason}. Errors that are not
// domain errors become a 500 under key.
func respondError(c *gin.Context, key string, err error) {
	appErr := apperror.As(err, key)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, appErr.ToBody())
}

// respondBindError renders a request binding failure
func respondBindError(c *gin.Context, key string, err error) {
	appErr := apperror.InvalidRequest(key)
	body := appErr.ToBody()
	body.Detail = err.Error()
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, body)
}
