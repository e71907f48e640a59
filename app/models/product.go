package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint              `gorm:"primaryKey"`
	CategoryID  uint              `gorm:"not null;index"`
	Category    Category          `gorm:"foreignKey:CategoryID"`
	Name        string            `gorm:"size:255;not null;index"`
	Price       decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Description string            `gorm:"type:text"`
	Size        string            `gorm:"size:255"`
	Weight      float64           `gorm:"not null"`
	Stock       int               `gorm:"not null"`
	IsAvailable bool              `gorm:"not null;index"`
	Materials   []ProductMaterial `gorm:"many2many:product_material_products;constraint:OnDelete:CASCADE"`
	Images      []Image           `gorm:"polymorphic:Owner;polymorphicValue:product"`
	Feedback    []Feedback        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	OrderItems  []OrderItem       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductMaterial names are unique system wide.
type ProductMaterial struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	Products  []Product `gorm:"many2many:product_material_products;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
