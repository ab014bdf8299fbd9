package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. Price is in the smallest currency unit.
type Product struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string         `json:"name" gorm:"type:varchar(100);index" validate:"required,min=2,max=100"`
	Price       int64          `json:"price" validate:"gte=0"`
	Image       string         `json:"image" validate:"omitempty,max=500"`
	Category    string         `json:"category" gorm:"type:varchar(50);index" validate:"required,max=50"`
	Description string         `json:"description" validate:"omitempty,max=1000"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// CartItem is a product snapshot plus the quantity the user wants.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price × quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
