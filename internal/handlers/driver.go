package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-admin/internal/database"
	"fleet-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// Drivers are plain CRUD, no approval step.

func ListDrivers(c *gin.Context) {
	dbq := database.DB.Preload("Vehicle").Order("name asc")

	if status := c.Query("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}

	var drivers []models.Driver
	if err := dbq.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load drivers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

type driverForm struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	LicenseExpiry string `json:"license_expiry"` // YYYY-MM-DD
	VehicleID     *uint  `json:"vehicle_id"`
	Status        string `json:"status"`
}

func CreateDriver(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form driverForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.LicenseNumber = strings.TrimSpace(form.LicenseNumber)
	if len(form.Name) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver name must be at least 3 characters"})
		return
	}

	if form.LicenseNumber != "" {
		var count int64
		database.DB.Model(&models.Driver{}).
			Where("license_number = ?", form.LicenseNumber).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		}
	}

	driver := models.Driver{
		Name:          form.Name,
		Phone:         strings.TrimSpace(form.Phone),
		LicenseNumber: form.LicenseNumber,
		VehicleID:     form.VehicleID,
		Status:        "active",
	}

	if form.LicenseExpiry != "" {
		t, err := time.Parse("2006-01-02", form.LicenseExpiry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "license_expiry must be YYYY-MM-DD"})
			return
		}
		driver.LicenseExpiry = &t
	}

	if err := database.DB.Create(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save driver"})
		return
	}

	database.CreateAuditLog(actor.ID, "driver", driver.ID, "create",
		"Driver created: "+driver.Name, actor.IP)

	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

func UpdateDriver(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver id"})
		return
	}

	var driver models.Driver
	if err := database.DB.First(&driver, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
		return
	}

	var form driverForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.LicenseNumber = strings.TrimSpace(form.LicenseNumber)
	if len(form.Name) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver name must be at least 3 characters"})
		return
	}

	if form.LicenseNumber != "" && form.LicenseNumber != driver.LicenseNumber {
		var count int64
		database.DB.Model(&models.Driver{}).
			Where("license_number = ? AND id <> ?", form.LicenseNumber, driver.ID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a driver with this license number already exists"})
			return
		}
	}

	driver.Name = form.Name
	driver.Phone = strings.TrimSpace(form.Phone)
	driver.LicenseNumber = form.LicenseNumber
	driver.VehicleID = form.VehicleID
	if form.Status == "active" || form.Status == "inactive" {
		driver.Status = form.Status
	}

	if form.LicenseExpiry != "" {
		t, err := time.Parse("2006-01-02", form.LicenseExpiry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "license_expiry must be YYYY-MM-DD"})
			return
		}
		driver.LicenseExpiry = &t
	}

	if err := database.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save driver"})
		return
	}

	database.CreateAuditLog(actor.ID, "driver", driver.ID, "update",
		"Driver updated: "+driver.Name, actor.IP)

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}
