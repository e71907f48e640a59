package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Owner types an Image may be attached to.
const (
	OwnerProduct  = "product"
	OwnerFeedback = "feedback"
)

var ErrImageOwnerUnset = errors.New("image owner is not set")

// Image is attached to exactly one owner through the (OwnerType, OwnerID) pair.
type Image struct {
	ID        uint   `gorm:"primaryKey"`
	File      string `gorm:"size:512;not null"`
	Tip       string `gorm:"size:255"`
	OwnerType string `gorm:"size:32;not null;index:idx_images_owner"`
	OwnerID   uint   `gorm:"not null;index:idx_images_owner"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Image) BeforeSave(tx *gorm.DB) error {
	if i.OwnerType == "" || i.OwnerID == 0 {
		return ErrImageOwnerUnset
	}
	return nil
}
