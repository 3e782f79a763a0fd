package messageControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MessageInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// POST /contact
// Public contact form. Signed-in callers may leave out email.
func CreateMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input MessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, a valid email and message are required"})
			return
		}
		if input.Email == "" {
			input.Email = c.GetString(middleware.ContextEmail)
		}
		if input.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and message cannot be blank"})
			return
		}

		msg := models.Message{
			Name:    strings.TrimSpace(input.Name),
			Email:   strings.TrimSpace(input.Email),
			Subject: strings.TrimSpace(input.Subject),
			Message: strings.TrimSpace(input.Message),
		}
		if err := db.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
			controllers.RespondError(c, err, "Failed to send message")
			return
		}

		zap.L().Info("contact message received", zap.String("message_id", msg.ID))
		c.JSON(http.StatusCreated, gin.H{"message": "Message sent", "id": msg.ID})
	}
}

// GET /admin/messages
// Newest first. ?unread=true limits to unread messages.
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context()).Order("created_at desc")
		if c.Query("unread") == "true" {
			q = q.Where("is_read = ?", false)
		}

		messages := []models.Message{}
		if err := q.Find(&messages).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch messages")
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

// GET /admin/messages/:id
// Opening a message marks it read.
func GetMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context())
		var msg models.Message
		if err := q.First(&msg, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to fetch message")
			return
		}

		if !msg.IsRead {
			if err := q.Model(&msg).Update("is_read", true).Error; err != nil {
				controllers.RespondError(c, err, "Failed to fetch message")
				return
			}
		}
		c.JSON(http.StatusOK, msg)
	}
}

// DELETE /admin/messages/:id
func DeleteMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.WithContext(c.Request.Context()).Delete(&models.Message{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			controllers.RespondError(c, res.Error, "Failed to delete message")
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
	}
}
