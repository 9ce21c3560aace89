package models

import (
	"time"
)

// PizzaSize is the closed set of pizza sizes an order can carry.
type PizzaSize string

const (
	SizeSmall      PizzaSize = "SMALL"
	SizeMedium     PizzaSize = "MEDIUM"
	SizeLarge      PizzaSize = "LARGE"
	SizeExtraLarge PizzaSize = "EXTRA-LARGE"
)

// Valid reports whether s is one of the known pizza sizes.
func (s PizzaSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}
	return false
}

// OrderStatus is the closed set of delivery states for an order.
// Staff may set any status in any sequence; no transition graph is enforced.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusInTransit OrderStatus = "IN-TRANSIT"
	StatusDelivered OrderStatus = "DELIVERED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// Order represents a pizza order placed by a user
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Quantity    int         `gorm:"not null" json:"quantity"`
	PizzaSize   PizzaSize   `gorm:"not null;default:'MEDIUM'" json:"pizza_size"`
	OrderStatus OrderStatus `gorm:"not null;default:'PENDING'" json:"order_status"`
	UserID      uint        `gorm:"index" json:"user_id"` // owner, set at creation and never reassigned
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
