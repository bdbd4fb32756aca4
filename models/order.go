package models

import (
	"time"

	"gorm.io/gorm"
)

// Order records a single purchase attributed to a customer.
type Order struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index:idx_orders_customer_id" json:"customer_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Date       time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_orders_date" json:"date"`
	CreatedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate is called before creating a new record
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Date.IsZero() {
		o.Date = time.Now().UTC()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return nil
}

// OrderFilter represents filter criteria for order queries
type OrderFilter struct {
	ID         *uint
	CustomerID *uint
	DateAfter  *time.Time
	DateBefore *time.Time
}
