// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/segment"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// ByEmail retrieves a customer by email address
func (r *CustomerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	filter := models.CustomerFilter{Email: &email}
	customers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}

	if len(customers) == 0 {
		return nil, nil
	}

	return customers[0], nil
}

// ByAudience retrieves all customers matched by a compiled segmentation
// predicate. The universal predicate returns the full population.
func (r *CustomerRepositoryImpl) ByAudience(ctx context.Context, predicate segment.Predicate) ([]*models.Customer, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Customer{})
	if clause, args := predicate.Clause(); clause != "" {
		query = query.Where(clause, args...)
	}

	var customers []*models.Customer
	if err := query.Order("id ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers by audience: %w", err)
	}

	return customers, nil
}

// ListNewest retrieves the most recently created customers
func (r *CustomerRepositoryImpl) ListNewest(ctx context.Context, limit int) ([]*models.Customer, error) {
	return r.ByFilter(ctx, models.CustomerFilter{}, "created_at DESC", limit, 0)
}

// TopBySpend retrieves the highest-spending customers
func (r *CustomerRepositoryImpl) TopBySpend(ctx context.Context, limit int) ([]*models.Customer, error) {
	return r.ByFilter(ctx, models.CustomerFilter{}, "spend DESC", limit, 0)
}

// RecordOrderActivity bumps the engagement counters a new order implies:
// spend grows by the order amount, visits by one, last_active moves to at.
func (r *CustomerRepositoryImpl) RecordOrderActivity(ctx context.Context, customerID uint, amount float64, at time.Time) error {
	db := r.getDB(ctx)

	result := db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"spend":       gorm.Expr("spend + ?", amount),
			"visits":      gorm.Expr("visits + 1"),
			"last_active": at,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record order activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *CustomerRepositoryImpl) applyFilter(db *gorm.DB, f models.CustomerFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves customers based on filter criteria
func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var customers []*models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers by filter: %w", err)
	}
	return customers, nil
}

// Count returns the number of customers matching the filter
func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// Exists checks if any customer matching the filter exists
func (r *CustomerRepositoryImpl) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
