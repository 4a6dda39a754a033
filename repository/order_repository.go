package repository

import (
	"context"

	"catalog-service/models"

	"gorm.io/gorm"
)

// exportBatchSize bounds how many rows each export batch holds in memory.
const exportBatchSize = 500

// OrderRepository exposes the read-only order access the export module
// needs. Orders are written by another system.
type OrderRepository interface {
	StreamForExport(ctx context.Context, fn func(batch []models.Order) error) error
	Count(ctx context.Context) (int64, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// StreamForExport walks all orders in batches, invoking fn per batch. The
// underlying cursor lives for the duration of the walk, so fn must not
// block indefinitely.
func (r *GormOrderRepository) StreamForExport(ctx context.Context, fn func(batch []models.Order) error) error {
	var batch []models.Order
	return r.db.WithContext(ctx).
		Order("created_at ASC").
		FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}
