package models

import (
	"time"

	"github.com/Rakhulsr/go-shop/app/utils/calc"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"not null;index"`
	User        User        `gorm:"foreignKey:UserID"`
	AddressID   uint        `gorm:"not null;index"`
	Address     Address     `gorm:"foreignKey:AddressID"`
	IsPaid      bool        `gorm:"not null"`
	PaymentCode *string     `gorm:"size:64;uniqueIndex"`
	PaymentURL  string      `gorm:"type:text"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Total sums price times quantity over the preloaded order items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(calc.LineTotal(item.Product.Price, item.Quantity))
	}
	return total
}
