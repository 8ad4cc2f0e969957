package bootstrap

import (
	"log"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/pkg/auth"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Book{},
		&entity.Review{},
		&entity.Comment{},
		&entity.Image{},
		&entity.Notification{},
	)
}

// SeedAdminUser creates the development admin account if it is missing.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@bookhaven.id").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Name:         "Administrator",
		Email:        "admin@bookhaven.id",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	log.Println("   Email: admin@bookhaven.id")
	log.Println("   Password: admin123")

	return nil
}
