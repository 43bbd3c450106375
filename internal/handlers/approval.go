package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleet-admin/internal/database"
	"fleet-admin/internal/models"

	"github.com/gin-gonic/gin"
)

//
// APPROVAL QUEUE
//

// ListChangeRequests shows the queue to approvers; defaults to pending.
func ListChangeRequests(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.RequestPending))

	dbq := database.DB.
		Preload("Requester").
		Preload("Approver").
		Order("created_at desc")

	if status != "all" {
		dbq = dbq.Where("status = ?", status)
	}
	if kind := c.Query("target_kind"); kind != "" {
		dbq = dbq.Where("target_kind = ?", kind)
	}

	var requests []models.ChangeRequest
	if err := dbq.Limit(200).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load change requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func ApproveChangeRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	if err := engine().Approve(actor, uint(id)); err != nil {
		abortEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": models.RequestApproved})
}

type rejectBody struct {
	RejectionReason string `json:"rejection_reason" form:"rejection_reason"`
}

func RejectChangeRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var body rejectBody
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// the engine would fall back to a placeholder text, but the API
	// insists on a real reason
	if strings.TrimSpace(body.RejectionReason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rejection_reason is required"})
		return
	}

	if err := engine().Reject(actor, uint(id), body.RejectionReason); err != nil {
		abortEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": models.RequestRejected})
}
