package models

import (
	"time"
)

type User struct {
	ID          uint       `gorm:"primaryKey"`
	Username    string     `gorm:"size:150;not null;uniqueIndex"`
	Password    string     `gorm:"size:255;not null"`
	FirstName   string     `gorm:"size:150"`
	LastName    string     `gorm:"size:150"`
	Email       string     `gorm:"size:254"`
	PhoneNumber string     `gorm:"size:15"`
	IsStaff     bool       `gorm:"not null"`
	IsSuperuser bool       `gorm:"not null"`
	IsActive    bool       `gorm:"not null"`
	Addresses   []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Feedback    []Feedback `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Orders      []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
