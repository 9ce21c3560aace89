package models

import (
	"time"
)

// User represents a registered account (customer or staff)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"` // grants access to all orders
	Orders    []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
