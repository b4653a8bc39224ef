package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a vendor order eligible for claiming. OrderID is the external
// marketplace identifier used in notifications and label lookups.
type Order struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    string         `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	VendorID   uint           `gorm:"index" json:"vendor_id"`
	VendorName string         `gorm:"size:255" json:"vendor_name"`
	Product    string         `gorm:"size:255" json:"product"`
	Quantity   int            `gorm:"default:1" json:"quantity"`
	Status     string         `gorm:"size:20;not null;index;default:UNCLAIMED" json:"status"`
	LabelURL   string         `gorm:"size:512" json:"label_url"`
	ClaimedBy  *uint          `json:"claimed_by,omitempty"`
	ClaimedAt  *time.Time     `json:"claimed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
