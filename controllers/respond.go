// Package controllers holds the HTTP handlers, one subpackage per area.
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/repository"
	"go.uber.org/zap"
)

// RespondError maps repository errors to a status code. Anything it does
// not recognise is logged and answered with a 500 carrying msg.
func RespondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOutOfStock),
		errors.Is(err, repository.ErrNotEnough),
		errors.Is(err, repository.ErrEmptyCart),
		errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		zap.L().Error(msg,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// CurrentUser returns the authenticated user id, answering 401 when there
// is none.
func CurrentUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
