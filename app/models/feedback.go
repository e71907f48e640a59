package models

import (
	"time"
)

type Feedback struct {
	ID          uint    `gorm:"primaryKey"`
	AuthorID    uint    `gorm:"not null;index"`
	Author      User    `gorm:"foreignKey:AuthorID"`
	ProductID   uint    `gorm:"not null;index"`
	Product     Product `gorm:"foreignKey:ProductID"`
	Title       string  `gorm:"size:255;not null"`
	Content     string  `gorm:"type:text;not null"`
	IsModerated bool    `gorm:"not null;index"`
	Images      []Image `gorm:"polymorphic:Owner;polymorphicValue:feedback"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Feedback) TableName() string {
	return "feedback"
}
