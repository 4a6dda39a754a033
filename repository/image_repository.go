package repository

import (
	"context"

	"catalog-service/apperrors"
	"catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageRepository defines data-access operations for product images and
// their join rows. Mutating methods take the *gorm.DB so callers can run
// them inside a transaction.
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error)
	Create(tx *gorm.DB, image *models.Image) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Associate(tx *gorm.DB, assoc *models.ProductImage) error
	DeleteAssociation(tx *gorm.DB, productID, imageID uuid.UUID) error
	DeleteAssociationsExcept(tx *gorm.DB, productID uuid.UUID, keep []uuid.UUID) error
	ClearDefault(tx *gorm.DB, productID uuid.UUID) error
	SetDefault(tx *gorm.DB, productID, imageID uuid.UUID) error
}

// GormImageRepository implements ImageRepository using GORM.
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository.
func NewGormImageRepository(db *gorm.DB) ImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, translate("image", err)
	}
	return &img, nil
}

func (r *GormImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Joins("JOIN product_images ON product_images.image_id = images.id").
		Where("product_images.product_id = ?", productID).
		Order("images.position ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GormImageRepository) Create(tx *gorm.DB, image *models.Image) error {
	if err := tx.Create(image).Error; err != nil {
		return translate("image", err)
	}
	return nil
}

func (r *GormImageRepository) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&models.Image{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("image", nil)
	}
	return nil
}

func (r *GormImageRepository) Associate(tx *gorm.DB, assoc *models.ProductImage) error {
	if err := tx.Create(assoc).Error; err != nil {
		return translate("product image", err)
	}
	return nil
}

func (r *GormImageRepository) DeleteAssociation(tx *gorm.DB, productID, imageID uuid.UUID) error {
	res := tx.Where("product_id = ? AND image_id = ?", productID, imageID).
		Delete(&models.ProductImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product image association", nil)
	}
	return nil
}

// ClearDefault drops the default flag from every association of the
// product.
func (r *GormImageRepository) ClearDefault(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&models.ProductImage{}).
		Where("product_id = ? AND is_default = ?", productID, true).
		Update("is_default", false).Error
}

// SetDefault marks one existing association as the product's default.
func (r *GormImageRepository) SetDefault(tx *gorm.DB, productID, imageID uuid.UUID) error {
	res := tx.Model(&models.ProductImage{}).
		Where("product_id = ? AND image_id = ?", productID, imageID).
		Update("is_default", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product image association", nil)
	}
	return nil
}

// DeleteAssociationsExcept removes every association for the product whose
// image id is not in keep.
func (r *GormImageRepository) DeleteAssociationsExcept(tx *gorm.DB, productID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where("product_id = ?", productID)
	if len(keep) > 0 {
		query = query.Where("image_id NOT IN ?", keep)
	}
	return query.Delete(&models.ProductImage{}).Error
}
