package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign represents a marketing campaign in the database. Campaigns are
// created once and immutable thereafter; the audience filter is stored exactly
// as submitted so the dispatched membership can be audited or replayed.
type Campaign struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	AudienceFilter AudienceFilter `gorm:"type:jsonb;not null" json:"audience_filter"`
	Message        string         `gorm:"type:text;not null" json:"message"`
	CreatedAt      time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
