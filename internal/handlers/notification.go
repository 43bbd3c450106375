package handlers

import (
	"net/http"

	"fleet-admin/internal/database"
	"fleet-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// ListMyNotifications — the caller's inbox, newest first.
func ListMyNotifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var notifs []models.Notification
	if err := database.DB.
		Where("user_id = ?", actor.ID).
		Order("created_at desc").
		Limit(100).
		Find(&notifs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifs})
}
