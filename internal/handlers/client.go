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
// CLIENTS — plain CRUD, no approval step
//

func ListClients(c *gin.Context) {
	var clients []models.Client
	if err := database.DB.Order("name asc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func GetClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

type clientForm struct {
	Name         string `json:"name"`
	GSTIN        string `json:"gstin"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Notes        string `json:"notes"`
}

func CreateClient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.GSTIN = strings.TrimSpace(form.GSTIN)
	if len(form.Name) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client name must be at least 3 characters"})
		return
	}

	// GSTIN and name must stay unique across clients
	if form.GSTIN != "" {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("gstin = ?", form.GSTIN).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a client with this GSTIN already exists"})
			return
		}
	}
	var count int64
	database.DB.Model(&models.Client{}).
		Where("LOWER(name) = LOWER(?)", form.Name).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a client with this name already exists"})
		return
	}

	client := models.Client{
		Name:         form.Name,
		GSTIN:        form.GSTIN,
		ContactName:  strings.TrimSpace(form.ContactName),
		ContactPhone: strings.TrimSpace(form.ContactPhone),
		ContactEmail: strings.TrimSpace(form.ContactEmail),
		Address:      strings.TrimSpace(form.Address),
		City:         strings.TrimSpace(form.City),
		Notes:        strings.TrimSpace(form.Notes),
	}

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save client"})
		return
	}

	database.CreateAuditLog(actor.ID, "client", client.ID, "create",
		"Client created: "+client.Name, actor.IP)

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

func UpdateClient(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	form.GSTIN = strings.TrimSpace(form.GSTIN)
	if len(form.Name) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client name must be at least 3 characters"})
		return
	}

	if form.GSTIN != "" && form.GSTIN != client.GSTIN {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("gstin = ? AND id <> ?", form.GSTIN, client.ID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a client with this GSTIN already exists"})
			return
		}
	}
	if !strings.EqualFold(form.Name, client.Name) {
		var count int64
		database.DB.Model(&models.Client{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", form.Name, client.ID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a client with this name already exists"})
			return
		}
	}

	client.Name = form.Name
	client.GSTIN = form.GSTIN
	client.ContactName = strings.TrimSpace(form.ContactName)
	client.ContactPhone = strings.TrimSpace(form.ContactPhone)
	client.ContactEmail = strings.TrimSpace(form.ContactEmail)
	client.Address = strings.TrimSpace(form.Address)
	client.City = strings.TrimSpace(form.City)
	client.Notes = strings.TrimSpace(form.Notes)

	if err := database.DB.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save client"})
		return
	}

	database.CreateAuditLog(actor.ID, "client", client.ID, "update",
		"Client updated: "+client.Name, actor.IP)

	c.JSON(http.StatusOK, gin.H{"client": client})
}
