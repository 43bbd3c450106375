package database

import (
	"log"
	"os"
	"time"

	"fleet-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultSuperadmin()
	seedDefaultUsers()
}

// Migrate is shared with the test helpers, which run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.VehicleFinancing{},
		&models.Driver{},
		&models.Client{},
		&models.Location{},
		&models.Vendor{},
		&models.VendorContact{},
		&models.VendorService{},
		&models.VendorDocument{},
		&models.VendorVehicle{},
		&models.ChangeRequest{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

// superadmin only from code/config, never through the register form
func createDefaultSuperadmin() {
	username := os.Getenv("SUPERADMIN_USERNAME")
	if username == "" {
		username = "superadmin@fleet.local"
	}
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "Super123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleSuperadmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check superadmin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default superadmin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Default Superadmin",
		Role:         models.RoleSuperadmin,
		Status:       models.UserActive,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default superadmin: %v", err)
		return
	}

	log.Printf("created default superadmin user: %s", username)
}

// one demo account per working role
func seedDefaultUsers() {
	type seedUser struct {
		Username string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{Username: "admin@fleet.local", Password: "Admin123!", Role: models.RoleAdmin},
		{Username: "manager1@fleet.local", Password: "Manager123!", Role: models.RoleManager1},
		{Username: "manager2@fleet.local", Password: "Manager123!", Role: models.RoleManager2},
		{Username: "l1@fleet.local", Password: "Super123!", Role: models.RoleL1Supervisor},
		{Username: "l2@fleet.local", Password: "Super123!", Role: models.RoleL2Supervisor},
		{Username: "staff@fleet.local", Password: "Staff123!", Role: models.RoleStaff},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Username, err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Username, err)
			continue
		}

		user := models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			Status:       models.UserActive,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Username, err)
			continue
		}

		log.Printf("created seed user: %s (role=%s)", u.Username, u.Role)
	}
}
