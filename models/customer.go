// Package models contains domain entities and business models for the CRM system
package models

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;not null;uniqueIndex:uk_customers_email" json:"email"`
	Phone string `gorm:"size:20" json:"phone,omitempty"`

	// Engagement fields the segmentation engine filters on
	Spend      float64   `gorm:"not null;default:0;index:idx_customers_spend" json:"spend"`
	Visits     int       `gorm:"not null;default:0;index:idx_customers_visits" json:"visits"`
	LastActive time.Time `gorm:"column:last_active;not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_last_active" json:"last_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate is called before creating a new record
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.LastActive.IsZero() {
		c.LastActive = time.Now().UTC()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint
	Email         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
