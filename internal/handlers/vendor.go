package handlers

import (
	"errors"
	"io"
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

func ListVendors(c *gin.Context) {
	dbq := database.DB.Order("name asc")

	if appr := c.Query("approval_status"); appr != "" {
		dbq = dbq.Where("approval_status = ?", appr)
	}
	if city := c.Query("city"); city != "" {
		dbq = dbq.Where("city = ?", city)
	}

	var vendors []models.Vendor
	if err := dbq.Find(&vendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func GetVendor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	var vendor models.Vendor
	if err := database.DB.
		Preload("Contacts").
		Preload("Services").
		Preload("Documents").
		Preload("Vehicles").
		First(&vendor, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

//
// MUTATIONS — routed through the approval engine
//

func SubmitVendorCreate(c *gin.Context) {
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
		TargetKind:   models.KindVendor,
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

func SubmitVendorUpdate(c *gin.Context) {
	submitVendorMutation(c, models.KindVendor, models.RequestUpdate)
}

func SubmitVendorBankUpdate(c *gin.Context) {
	submitVendorMutation(c, models.KindVendorBank, models.RequestUpdate)
}

// SubmitVendorDeletion raises a vendor-deletion request; only admins and
// superadmins get it applied on the spot.
func SubmitVendorDeletion(c *gin.Context) {
	submitVendorMutation(c, models.KindVendorDeletion, models.RequestDeletion)
}

func submitVendorMutation(c *gin.Context, kind models.TargetKind, op models.RequestType) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}
	targetID := uint(id)

	// deletion requests may come with no body at all; anything else,
	// including chunked uploads without a Content-Length, must parse
	var body proposalBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := engine().Submit(actor, approval.SubmitInput{
		TargetKind:     kind,
		RequestType:    op,
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
