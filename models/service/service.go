package service

import (
	"time"
)

// Service is one entry of the bookable catalog. Checkout snapshots the name
// and price into the booking row, so editing the catalog later does not touch
// existing bookings.
type Service struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null;unique" json:"name"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string  `gorm:"type:varchar(2048)" json:"image"`
	IsActive    bool    `gorm:"type:bool;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
