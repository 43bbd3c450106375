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
// LOCATIONS — plain CRUD, no approval step
//

func ListLocations(c *gin.Context) {
	dbq := database.DB.Order("name asc")
	if city := c.Query("city"); city != "" {
		dbq = dbq.Where("city = ?", city)
	}

	var locations []models.Location
	if err := dbq.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

type locationForm struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark"`
}

func CreateLocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form locationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	if len(form.Name) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location name must be at least 2 characters"})
		return
	}

	location := models.Location{
		Name:     form.Name,
		City:     strings.TrimSpace(form.City),
		State:    strings.TrimSpace(form.State),
		Pincode:  strings.TrimSpace(form.Pincode),
		Landmark: strings.TrimSpace(form.Landmark),
	}

	if err := database.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save location"})
		return
	}

	database.CreateAuditLog(actor.ID, "location", location.ID, "create",
		"Location created: "+location.Name, actor.IP)

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

func UpdateLocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	var location models.Location
	if err := database.DB.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	var form locationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	if len(form.Name) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location name must be at least 2 characters"})
		return
	}

	location.Name = form.Name
	location.City = strings.TrimSpace(form.City)
	location.State = strings.TrimSpace(form.State)
	location.Pincode = strings.TrimSpace(form.Pincode)
	location.Landmark = strings.TrimSpace(form.Landmark)

	if err := database.DB.Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save location"})
		return
	}

	database.CreateAuditLog(actor.ID, "location", location.ID, "update",
		"Location updated: "+location.Name, actor.IP)

	c.JSON(http.StatusOK, gin.H{"location": location})
}
