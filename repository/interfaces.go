// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/segment"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CustomerRepository defines operations for customers. The campaign subsystem
// only reads from it; writes happen through the CRUD surface.
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	ByAudience(ctx context.Context, predicate segment.Predicate) ([]*models.Customer, error)
	ListNewest(ctx context.Context, limit int) ([]*models.Customer, error)
	TopBySpend(ctx context.Context, limit int) ([]*models.Customer, error)
	RecordOrderActivity(ctx context.Context, customerID uint, amount float64, at time.Time) error
}

// OrderRepository defines operations for orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ListNewestWithCustomer(ctx context.Context, limit, offset int) ([]*models.Order, error)
	Totals(ctx context.Context) (count int64, revenue float64, err error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ListNewest(ctx context.Context, limit, offset int) ([]*models.Campaign, error)
}

// CommunicationLogRepository defines operations for per-recipient delivery records
type CommunicationLogRepository interface {
	Repository[models.CommunicationLog, models.CommunicationLogFilter]
	ByUUID(ctx context.Context, uuid string) (*models.CommunicationLog, error)
	// ApplyReceipt records a terminal status for a log iff the log is still
	// PENDING. It returns true when the row was updated, false when the log
	// had already reached a terminal status (the first terminal write stays
	// authoritative).
	ApplyReceipt(ctx context.Context, logID uint, status models.DeliveryStatus, vendorResponse string) (bool, error)
	CountByStatus(ctx context.Context, campaignID uint) (map[models.DeliveryStatus]int64, error)
}
