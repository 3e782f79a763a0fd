package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/storage"
	"go.uber.org/zap"
)

// UploadFormImage stores the multipart file in field under folder and
// returns its public URL. On failure it writes the response and returns
// false.
func UploadFormImage(c *gin.Context, up storage.Uploader, field, folder string) (string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
		return "", false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return "", false
	}
	defer file.Close()

	url, err := up.Upload(c.Request.Context(), file, header, folder)
	if errors.Is(err, storage.ErrUnsupportedType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	if err != nil {
		zap.L().Error("image upload failed", zap.String("folder", folder), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return "", false
	}
	return url, true
}
