package server

import (
	"net/http"

	"fleet-admin/internal/config"
	"fleet-admin/internal/handlers"
	"fleet-admin/internal/middleware"
	"fleet-admin/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// role shorthands used when wiring routes; the approval engine
// re-validates on top of these
var (
	proposerRoles = []models.UserRole{
		models.RoleL2Supervisor, models.RoleL1Supervisor,
		models.RoleManager1, models.RoleManager2,
		models.RoleAdmin, models.RoleSuperadmin,
	}
	approverRoles = []models.UserRole{
		models.RoleManager1, models.RoleManager2,
		models.RoleAdmin, models.RoleSuperadmin,
	}
	deleterRoles = []models.UserRole{
		models.RoleAdmin, models.RoleSuperadmin,
	}
	deletionProposerRoles = []models.UserRole{
		models.RoleL1Supervisor,
		models.RoleManager1, models.RoleManager2,
		models.RoleAdmin, models.RoleSuperadmin,
	}
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("fleet_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// VEHICLES
	auth.GET("/vehicles", handlers.ListVehicles)
	auth.GET("/vehicles/:id", handlers.GetVehicle)
	auth.POST("/vehicles",
		middleware.RequireRole(proposerRoles...),
		handlers.SubmitVehicleCreate,
	)
	auth.POST("/vehicles/:id",
		middleware.RequireRole(proposerRoles...),
		handlers.SubmitVehicleUpdate,
	)
	auth.DELETE("/vehicles/:id",
		middleware.RequireRole(deleterRoles...),
		handlers.DeleteVehicle,
	)

	// VENDORS
	auth.GET("/vendors", handlers.ListVendors)
	auth.GET("/vendors/:id", handlers.GetVendor)
	auth.POST("/vendors",
		middleware.RequireRole(proposerRoles...),
		handlers.SubmitVendorCreate,
	)
	auth.POST("/vendors/:id",
		middleware.RequireRole(proposerRoles...),
		handlers.SubmitVendorUpdate,
	)
	auth.POST("/vendors/:id/bank-details",
		middleware.RequireRole(proposerRoles...),
		handlers.SubmitVendorBankUpdate,
	)
	auth.POST("/vendors/:id/delete",
		middleware.RequireRole(deletionProposerRoles...),
		handlers.SubmitVendorDeletion,
	)

	// APPROVAL QUEUE
	auth.GET("/approvals",
		middleware.RequireRole(approverRoles...),
		handlers.ListChangeRequests,
	)
	auth.POST("/approvals/:id/approve",
		middleware.RequireRole(approverRoles...),
		handlers.ApproveChangeRequest,
	)
	auth.POST("/approvals/:id/reject",
		middleware.RequireRole(approverRoles...),
		handlers.RejectChangeRequest,
	)

	// NOTIFICATIONS
	auth.GET("/notifications", handlers.ListMyNotifications)

	// DRIVERS / CLIENTS / LOCATIONS
	auth.GET("/drivers", handlers.ListDrivers)
	auth.POST("/drivers",
		middleware.RequireRole(proposerRoles...),
		handlers.CreateDriver,
	)
	auth.POST("/drivers/:id",
		middleware.RequireRole(proposerRoles...),
		handlers.UpdateDriver,
	)

	auth.GET("/clients", handlers.ListClients)
	auth.GET("/clients/:id", handlers.GetClient)
	auth.POST("/clients",
		middleware.RequireRole(proposerRoles...),
		handlers.CreateClient,
	)
	auth.POST("/clients/:id",
		middleware.RequireRole(proposerRoles...),
		handlers.UpdateClient,
	)

	auth.GET("/locations", handlers.ListLocations)
	auth.POST("/locations",
		middleware.RequireRole(proposerRoles...),
		handlers.CreateLocation,
	)
	auth.POST("/locations/:id",
		middleware.RequireRole(proposerRoles...),
		handlers.UpdateLocation,
	)

	// AUDIT
	auth.GET("/audit",
		middleware.RequireRole(deleterRoles...),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
