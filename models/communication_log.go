package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryStatus represents the lifecycle status of a communication log entry
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "PENDING"
	DeliveryStatusSent    DeliveryStatus = "SENT"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// String returns the string representation of the status
func (s DeliveryStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusSent, DeliveryStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends the log's lifecycle. SENT and
// FAILED are terminal; once either is recorded it must never be overwritten.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusSent || s == DeliveryStatusFailed
}

// Scan implements the sql.Scanner interface for DeliveryStatus
func (s *DeliveryStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = DeliveryStatus(v)
	case []byte:
		*s = DeliveryStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DeliveryStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DeliveryStatus
func (s DeliveryStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid DeliveryStatus: %s", s)
	}
	return string(s), nil
}

// CommunicationLog records one delivery attempt for one (campaign, customer)
// pair. A campaign's audience size is defined as the count of its logs; the
// filter is never re-evaluated after dispatch. Logs start PENDING and move to
// a terminal status at most once when a vendor receipt is reconciled.
type CommunicationLog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_communication_logs_uuid" json:"uuid"`
	CampaignID      uint           `gorm:"not null;index:idx_communication_logs_campaign_id" json:"campaign_id"`
	CustomerID      uint           `gorm:"not null;index:idx_communication_logs_customer_id" json:"customer_id"`
	RenderedMessage string         `gorm:"type:text;not null" json:"rendered_message"`
	Status          DeliveryStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_communication_logs_status" json:"status"`
	VendorResponse  *string        `gorm:"size:255" json:"vendor_response,omitempty"`
	CreatedAt       time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_communication_logs_created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// TableName returns the table name for the model
func (CommunicationLog) TableName() string {
	return "communication_logs"
}

// BeforeCreate is called before creating a new record
func (l *CommunicationLog) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = DeliveryStatusPending
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CommunicationLogFilter represents filter criteria for communication log queries
type CommunicationLogFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	CampaignID *uint
	CustomerID *uint
	Status     *DeliveryStatus
}
