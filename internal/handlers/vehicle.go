package handlers

import (
	"net/http"
	"strconv"

	"fleet-admin/internal/approval"
	"fleet-admin/internal/database"
	"fleet-admin/internal/models"

	"github.com/gin-gonic/gin"
)

//
// LIST / DETAIL
//

func ListVehicles(c *gin.Context) {
	dbq := database.DB.Order("vehicle_number asc")

	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("current_status = ?", status)
	}
	if appr := c.Query("approval_status"); appr != "" {
		dbq = dbq.Where("approval_status = ?", appr)
	}
	if q := c.Query("q"); q != "" {
		dbq = dbq.Where("vehicle_number LIKE ?", "%"+q+"%")
	}

	var vehicles []models.Vehicle
	if err := dbq.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func GetVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var vehicle models.Vehicle
	if err := database.DB.Preload("Financing").First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

//
// MUTATIONS — routed through the approval engine
//

type proposalBody struct {
	ProposedData map[string]any `json:"proposed_data"`
	Reason       string         `json:"reason"`
}

func SubmitVehicleCreate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body proposalBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := engine().Submit(actor, approval.SubmitInput{
		TargetKind:   models.KindVehicle,
		RequestType:  models.RequestCreate,
		ProposedData: body.ProposedData,
		Reason:       body.Reason,
	})
	if err != nil {
		abortEngineError(c, err)
		return
	}

	submissionResponse(c, res)
}

func SubmitVehicleUpdate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	targetID := uint(id)

	var body proposalBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := engine().Submit(actor, approval.SubmitInput{
		TargetKind:     models.KindVehicle,
		RequestType:    models.RequestUpdate,
		ProposedData:   body.ProposedData,
		TargetEntityID: &targetID,
		Reason:         body.Reason,
	})
	if err != nil {
		abortEngineError(c, err)
		return
	}

	submissionResponse(c, res)
}

// DeleteVehicle is a direct soft delete; the route is gated to admin and
// superadmin, there is no vehicle-deletion request kind.
func DeleteVehicle(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	if err := database.DB.Delete(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vehicle"})
		return
	}

	database.CreateAuditLog(actor.ID, "vehicle", vehicle.ID, "delete",
		"Vehicle deleted: "+vehicle.VehicleNumber, actor.IP)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
