// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/pulsecrm/pulse/models"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements OrderRepository interface
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ListNewestWithCustomer retrieves orders newest-first with the owning
// customer preloaded for display (name and email).
func (r *OrderRepositoryImpl) ListNewestWithCustomer(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Order{}).
		Preload("Customer").
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders with customer: %w", err)
	}

	return orders, nil
}

// Totals returns the order count and summed revenue across all orders
func (r *OrderRepositoryImpl) Totals(ctx context.Context) (int64, float64, error) {
	db := r.getDB(ctx)

	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue float64
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum order revenue: %w", err)
	}

	return count, revenue, nil
}

func (r *OrderRepositoryImpl) applyFilter(db *gorm.DB, f models.OrderFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.DateAfter != nil {
		db = db.Where("date >= ?", *f.DateAfter)
	}
	if f.DateBefore != nil {
		db = db.Where("date < ?", *f.DateBefore)
	}
	return db
}

// ByFilter retrieves orders based on filter criteria
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var orders []*models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders by filter: %w", err)
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Exists checks if any order matching the filter exists
func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
