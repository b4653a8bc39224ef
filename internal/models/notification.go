package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is one classified operational error awaiting triage.
// Type and Severity are set once at classification time; status updates
// never touch them.
type Notification struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Type            string         `gorm:"size:50;not null;index" json:"type"`
	Severity        string         `gorm:"size:20;not null;index" json:"severity"` // low | medium | high | critical
	Title           string         `gorm:"size:255" json:"title"`
	Message         string         `gorm:"type:text" json:"message"`
	OrderID         *string        `gorm:"size:64;index" json:"order_id,omitempty"`
	VendorID        *uint          `gorm:"index" json:"vendor_id,omitempty"`
	VendorName      *string        `gorm:"size:255" json:"vendor_name,omitempty"`
	Status          string         `gorm:"size:20;not null;index;default:pending" json:"status"`
	ResolvedBy      *uint          `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ResolutionNotes *string        `gorm:"type:text" json:"resolution_notes,omitempty"`
	DismissReason   *string        `gorm:"size:255" json:"dismiss_reason,omitempty"`
	Metadata        string         `gorm:"type:text" json:"metadata"` // JSON snapshot from classification
	ErrorDetails    *string        `gorm:"type:text" json:"error_details,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
