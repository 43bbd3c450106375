package handlers

import (
	"net/http"

	"fleet-admin/internal/database"
	"fleet-admin/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	dbq := database.DB.
		Preload("User").
		Order("created_at desc")

	if entity := c.Query("entity"); entity != "" {
		dbq = dbq.Where("entity = ?", entity)
	}
	if action := c.Query("action"); action != "" {
		dbq = dbq.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := dbq.Limit(200).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
