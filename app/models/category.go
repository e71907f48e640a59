package models

import (
	"time"
)

// Category forms a tree through ParentCategoryID; roots have no parent.
type Category struct {
	ID               uint       `gorm:"primaryKey"`
	Name             string     `gorm:"size:255;not null;index"`
	ParentCategoryID *uint      `gorm:"index"`
	ParentCategory   *Category  `gorm:"foreignKey:ParentCategoryID"`
	ChildCategories  []Category `gorm:"foreignKey:ParentCategoryID;constraint:OnDelete:CASCADE"`
	Products         []Product  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
