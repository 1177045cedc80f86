package boot

import (
	"errors"
	"etix/src/db"
	"etix/src/models"
	"etix/src/types"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []string{
	"Music",
	"Sports",
	"Arts & Theatre",
	"Conferences",
	"Food & Drink",
	"Community",
}

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Event{},
		&models.Purchase{},
		&models.Ticket{},
		&models.Rating{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	seedCategories(db)
	seedAdmin(db)

	return db
}

func seedCategories(db *gorm.DB) {
	for _, name := range defaultCategories {
		var category models.Category
		err := db.Where(&models.Category{Name: name}).First(&category).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error checking category %q: %s\n", name, err.Error())
			continue
		}
		if err := db.Create(&models.Category{Name: name}).Error; err != nil {
			log.Printf("Error seeding category %q: %s\n", name, err.Error())
		}
	}
}

// seedAdmin creates the admin account from the environment on first boot.
// Admins are never created through registration.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var existing models.User
	if err := db.Where(&models.User{Email: email}).First(&existing).Error; err == nil {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %s\n", err.Error())
		return
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         types.ROLE_ADMIN,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin account: %s\n", err.Error())
		return
	}
	log.Printf("Seeded admin account: %d\n", admin.ID)
}
