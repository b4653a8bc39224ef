package models

import "time"

// PushSubscription is one admin's alert delivery preferences. Endpoint is
// empty for a permission-only subscription (fallback channel, no push
// endpoint registered). Permission mirrors the last browser-reported state;
// a denied permission makes delivery inactive regardless of the flags here.
type PushSubscription struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Endpoint        string    `gorm:"size:512" json:"endpoint"`
	P256dh          string    `gorm:"size:255" json:"p256dh"`
	Auth            string    `gorm:"size:255" json:"auth"`
	Enabled         bool      `gorm:"default:false" json:"enabled"`
	Permission      string    `gorm:"size:16;default:default" json:"permission"` // default | granted | denied | unsupported
	FallbackEnabled bool      `gorm:"default:false" json:"fallback_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
