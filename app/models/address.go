package models

import (
	"time"
)

type Address struct {
	ID          uint    `gorm:"primaryKey"`
	UserID      uint    `gorm:"not null;index"`
	User        User    `gorm:"foreignKey:UserID"`
	Country     string  `gorm:"size:255;not null"`
	Region      string  `gorm:"size:255;not null"`
	City        string  `gorm:"size:255;not null"`
	Street      string  `gorm:"size:255;not null"`
	HouseNumber string  `gorm:"size:255;not null"`
	FlatNumber  string  `gorm:"size:255;not null"`
	PostalCode  uint    `gorm:"not null"`
	Orders      []Order `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
