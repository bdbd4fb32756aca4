package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulsecrm/pulse/models"
	"gorm.io/gorm"
)

// CommunicationLogRepositoryImpl implements CommunicationLogRepository interface
type CommunicationLogRepositoryImpl struct {
	*BaseRepository[models.CommunicationLog, models.CommunicationLogFilter]
}

// NewCommunicationLogRepository creates a new communication log repository
func NewCommunicationLogRepository(db *gorm.DB) CommunicationLogRepository {
	return &CommunicationLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CommunicationLog, models.CommunicationLogFilter](db),
	}
}

// ByUUID retrieves a communication log by its public UUID
func (r *CommunicationLogRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.CommunicationLog, error) {
	db := r.getDB(ctx)

	var log models.CommunicationLog
	err := db.Where("uuid = ?", uuid).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find communication log by UUID: %w", err)
	}

	return &log, nil
}

// ApplyReceipt is the conditional write that serializes receipt application.
// The WHERE status = 'PENDING' guard makes the read-modify-write atomic per
// row: concurrent receipts for the same log race on the row lock and only the
// first one flips the status. RowsAffected == 0 means the log was already
// terminal.
func (r *CommunicationLogRepositoryImpl) ApplyReceipt(ctx context.Context, logID uint, status models.DeliveryStatus, vendorResponse string) (bool, error) {
	if !status.Terminal() {
		return false, fmt.Errorf("receipt status must be terminal, got %q", status)
	}

	db := r.getDB(ctx)

	result := db.Model(&models.CommunicationLog{}).
		Where("id = ? AND status = ?", logID, models.DeliveryStatusPending).
		Updates(map[string]any{
			"status":          status,
			"vendor_response": vendorResponse,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to apply receipt: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// CountByStatus counts a campaign's logs grouped by delivery status. Missing
// statuses are reported as zero so callers always see all three buckets.
func (r *CommunicationLogRepositoryImpl) CountByStatus(ctx context.Context, campaignID uint) (map[models.DeliveryStatus]int64, error) {
	db := r.getDB(ctx)

	type statusCount struct {
		Status models.DeliveryStatus
		Count  int64
	}

	var rows []statusCount
	err := db.Model(&models.CommunicationLog{}).
		Select("status, COUNT(*) as count").
		Where("campaign_id = ?", campaignID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count logs by status: %w", err)
	}

	counts := map[models.DeliveryStatus]int64{
		models.DeliveryStatusPending: 0,
		models.DeliveryStatusSent:    0,
		models.DeliveryStatusFailed:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *CommunicationLogRepositoryImpl) applyFilter(db *gorm.DB, f models.CommunicationLogFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	return db
}

// ByFilter retrieves communication logs based on filter criteria
func (r *CommunicationLogRepositoryImpl) ByFilter(ctx context.Context, filter models.CommunicationLogFilter, orderBy string, limit, offset int) ([]*models.CommunicationLog, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CommunicationLog{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var logs []*models.CommunicationLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find communication logs by filter: %w", err)
	}
	return logs, nil
}

// Count returns the number of communication logs matching the filter
func (r *CommunicationLogRepositoryImpl) Count(ctx context.Context, filter models.CommunicationLogFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CommunicationLog{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count communication logs: %w", err)
	}
	return count, nil
}

// Exists checks if any communication log matching the filter exists
func (r *CommunicationLogRepositoryImpl) Exists(ctx context.Context, filter models.CommunicationLogFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
