package repository

import (
	"context"

	"catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxonRepository defines data-access operations for the category tree.
type TaxonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Taxon, error)
	FindRoots(ctx context.Context) ([]models.Taxon, error)
	DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// GormTaxonRepository implements TaxonRepository using GORM.
type GormTaxonRepository struct {
	db *gorm.DB
}

// NewGormTaxonRepository creates a new GormTaxonRepository.
func NewGormTaxonRepository(db *gorm.DB) TaxonRepository {
	return &GormTaxonRepository{db: db}
}

func (r *GormTaxonRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Taxon, error) {
	var t models.Taxon
	if err := r.db.WithContext(ctx).Preload("Children").First(&t, "id = ?", id).Error; err != nil {
		return nil, translate("taxon", err)
	}
	return &t, nil
}

func (r *GormTaxonRepository) FindRoots(ctx context.Context) ([]models.Taxon, error) {
	var taxons []models.Taxon
	err := r.db.WithContext(ctx).
		Preload("Children").
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&taxons).Error
	if err != nil {
		return nil, err
	}
	return taxons, nil
}

// DescendantIDs returns the taxon id plus every descendant id.
func (r *GormTaxonRepository) DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM taxons WHERE id = ?
			UNION ALL
			SELECT t.id FROM taxons t JOIN subtree s ON t.parent_id = s.id
		)
		SELECT id FROM subtree`, id).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
