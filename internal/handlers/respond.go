package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-admin/internal/approval"
	"fleet-admin/internal/database"
	"fleet-admin/internal/middleware"
	"fleet-admin/internal/policy"
)

func engine() *approval.Engine {
	return approval.NewEngine(database.DB)
}

// currentActor builds the explicit actor the engine wants from the user
// middleware.InjectUser resolved for this request, so a role change takes
// effect without a re-login.
func currentActor(c *gin.Context) (approval.Actor, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return approval.Actor{}, false
	}
	return approval.Actor{
		ID:   user.ID,
		Role: user.Role,
		IP:   c.ClientIP(),
	}, true
}

// abortEngineError maps the engine's error taxonomy onto HTTP statuses.
func abortEngineError(c *gin.Context, err error) {
	var ve *approval.ValidationError
	switch {
	case errors.Is(err, policy.ErrUnauthorizedRole):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrUnknownMutation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// submissionResponse — 201 when applied on the spot, 202 when queued.
func submissionResponse(c *gin.Context, res *approval.SubmissionResult) {
	if res.Applied {
		c.JSON(http.StatusCreated, gin.H{
			"applied":   true,
			"entity_id": res.EntityID,
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"applied":    false,
		"request_id": res.RequestID,
	})
}
