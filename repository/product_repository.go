package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/apperrors"
	"catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListParams controls paginated, filterable product listings.
type ListParams struct {
	Page    int
	Limit   int
	Search  string                 // matched against name and description
	Filters map[string]interface{} // field filters, allow-listed
}

// CatalogOptions controls which products a catalog listing excludes.
type CatalogOptions struct {
	ExcludeVariants bool // drop products that are the child of a variation
	ExcludeParents  bool // drop products that have variants of their own
	OnlyOrderable   bool // require at least one stock item with units on hand
}

// Fields callers may filter listings by. Anything else is rejected rather
// than interpolated into the query.
var filterableFields = map[string]bool{
	"state":                     true,
	"tenant":                    true,
	"slug":                      true,
	"selling_price_currency":    true,
	"max_retail_price_currency": true,
}

// ProductRepository defines data-access operations for products.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	DeleteByTaxon(ctx context.Context, taxonID uuid.UUID) (int64, error)
	FindCatalog(ctx context.Context, opts CatalogOptions) ([]models.Product, error)
	FindFiltered(ctx context.Context, params ListParams) ([]models.Product, int64, error)
	CountByStateInRange(ctx context.Context, state string, from, to time.Time) (int64, error)
	IsOrderable(ctx context.Context, id uuid.UUID) (bool, error)
	StreamForExport(ctx context.Context, fn func(batch []models.Product) error) error
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Taxons").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Taxons").
		Preload("StockItems").
		Preload("ParentVariation").
		First(&p, "id = ?", id).Error; err != nil {
		return nil, translate("product", err)
	}
	return &p, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translate("product", err)
	}
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return translate("product", err)
	}
	return nil
}

// SoftDelete marks the product deleted without removing the row.
func (r *GormProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("state", models.ProductStateDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", nil)
	}
	return nil
}

// DeleteByTaxon soft-deletes every product tagged to the taxon or any of
// its descendants. The pre-counted total must match the bulk update's
// affected rows; a mismatch rolls the whole cascade back.
func (r *GormProductRepository) DeleteByTaxon(ctx context.Context, taxonID uuid.UUID) (int64, error) {
	var deleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taxonIDs []uuid.UUID
		if err := tx.Raw(`
			WITH RECURSIVE subtree AS (
				SELECT id FROM taxons WHERE id = ?
				UNION ALL
				SELECT t.id FROM taxons t JOIN subtree s ON t.parent_id = s.id
			)
			SELECT id FROM subtree`, taxonID).Scan(&taxonIDs).Error; err != nil {
			return err
		}
		if len(taxonIDs) == 0 {
			return apperrors.NotFound("taxon", nil)
		}

		var total int64
		if err := tx.Model(&models.Product{}).
			Where("state <> ?", models.ProductStateDeleted).
			Where("id IN (?)", tx.Table("product_taxons").
				Select("product_id").
				Where("taxon_id IN ?", taxonIDs)).
			Count(&total).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("state <> ?", models.ProductStateDeleted).
			Where("id IN (?)", tx.Table("product_taxons").
				Select("product_id").
				Where("taxon_id IN ?", taxonIDs)).
			Update("state", models.ProductStateDeleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != total {
			return apperrors.New(apperrors.KindPartialDelete,
				fmt.Sprintf("cascade delete incomplete: expected %d rows, updated %d", total, res.RowsAffected),
				nil)
		}

		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// FindCatalog lists active products with the configured exclusions.
func (r *GormProductRepository) FindCatalog(ctx context.Context, opts CatalogOptions) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.state = ?", models.ProductStateActive)

	if opts.ExcludeVariants {
		query = query.Where("NOT EXISTS (SELECT 1 FROM variations WHERE variations.child_product_id = products.id)")
	}
	if opts.ExcludeParents {
		query = query.Where("NOT EXISTS (SELECT 1 FROM variations WHERE variations.parent_product_id = products.id)")
	}
	if opts.OnlyOrderable {
		query = query.Where("EXISTS (SELECT 1 FROM stock_items WHERE stock_items.product_id = products.id AND stock_items.count_on_hand > 0)")
	}

	var products []models.Product
	if err := query.Preload("Images").Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindFiltered returns one page of non-deleted products plus the total
// match count. Unknown filter fields are rejected.
func (r *GormProductRepository) FindFiltered(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("state <> ?", models.ProductStateDeleted)

	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", term, term)
	}
	for field, value := range params.Filters {
		if !filterableFields[field] {
			return nil, 0, apperrors.Validation("unknown filter field "+field, nil)
		}
		query = query.Where(field+" = ?", value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 25
	}

	var products []models.Product
	if err := query.
		Offset((page - 1) * limit).
		Limit(limit).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) CountByStateInRange(ctx context.Context, state string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("state = ?", state).
		Where("created_at BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *GormProductRepository) IsOrderable(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("product_id = ? AND count_on_hand > 0", id).
		Count(&count).Error
	return count > 0, err
}

// StreamForExport walks all non-deleted products in batches, invoking fn
// per batch, keeping the cursor open only for the walk's duration.
func (r *GormProductRepository) StreamForExport(ctx context.Context, fn func(batch []models.Product) error) error {
	var batch []models.Product
	return r.db.WithContext(ctx).
		Where("state <> ?", models.ProductStateDeleted).
		Order("created_at ASC").
		FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}

// translate maps GORM errors to typed application errors at the
// repository boundary.
func translate(entity string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(entity, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Validation(entity+" constraint violation", err)
	}
	return err
}
