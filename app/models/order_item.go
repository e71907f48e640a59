package models

import (
	"time"
)

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"not null;index"`
	Product   Product `gorm:"foreignKey:ProductID"`
	OrderID   uint    `gorm:"not null;index"`
	Order     Order   `gorm:"foreignKey:OrderID"`
	Quantity  int     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
