package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pulsecrm/pulse/models"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByUUID retrieves a campaign by its public UUID
func (r *CampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaign models.Campaign
	err := db.Where("uuid = ?", uuid).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find campaign by UUID: %w", err)
	}

	return &campaign, nil
}

// ListNewest retrieves campaigns newest-first
func (r *CampaignRepositoryImpl) ListNewest(ctx context.Context, limit, offset int) ([]*models.Campaign, error) {
	return r.ByFilter(ctx, models.CampaignFilter{}, "created_at DESC", limit, offset)
}

func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, f models.CampaignFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var campaigns []*models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to find campaigns by filter: %w", err)
	}
	return campaigns, nil
}

// Count returns the number of campaigns matching the filter
func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// Exists checks if any campaign matching the filter exists
func (r *CampaignRepositoryImpl) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
