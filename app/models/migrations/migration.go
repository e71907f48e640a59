package migrations

import (
	"github.com/Rakhulsr/go-shop/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.ProductMaterial{},
		&models.Feedback{},
		&models.Image{},
		&models.Order{},
		&models.OrderItem{},
	)
}
