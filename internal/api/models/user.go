// Package models holds the API-surface data shapes for the operator-facing
// HTTP layer: accounts and sessions. These are deliberately separate from
// the planning domain's models package (models.Field, models.Crop, ...),
// which never depends on gorm or an operator identity.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an operator account gating access to the planning API.
type User struct {
	gorm.Model
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Active    bool       `gorm:"default:true" json:"active"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Session records an issued JWT for revocation/audit purposes.
type Session struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Token     string    `gorm:"unique;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}
