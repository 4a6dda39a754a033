package services

import (
	"context"
	"time"

	"catalog-service/apperrors"
	"catalog-service/blobstore"
	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// blobCleanupTimeout bounds each compensating blob delete.
const blobCleanupTimeout = 5 * time.Second

// ImageEntry is one element of an image-set rewrite: either a reference to
// an existing image that stays attached, or a new binary to upload.
type ImageEntry struct {
	KeepImageID *uuid.UUID
	Upload      *blobstore.Upload
	IsDefault   bool
}

// ImageService sequences the multi-step image attach/delete operations so
// the database steps are atomic. Blob storage is outside the transaction:
// new blobs are stored first and compensated with best-effort deletes when
// the transaction fails, so no committed association can reference a blob
// that was never stored.
type ImageService interface {
	AddImages(ctx context.Context, productID uuid.UUID, entries []ImageEntry) ([]models.Image, error)
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type imageServiceImpl struct {
	db       *gorm.DB
	products repository.ProductRepository
	images   repository.ImageRepository
	blobs    blobstore.BlobStore
	logger   *zap.Logger
}

// NewImageService creates an ImageService.
func NewImageService(
	db *gorm.DB,
	products repository.ProductRepository,
	images repository.ImageRepository,
	blobs blobstore.BlobStore,
	logger *zap.Logger,
) ImageService {
	return &imageServiceImpl{
		db:       db,
		products: products,
		images:   images,
		blobs:    blobs,
		logger:   logger,
	}
}

// storedBlob tracks a blob written during this call, for compensation.
type storedBlob struct {
	key      string
	entry    ImageEntry
	position int
}

// AddImages rewrites the product's image set: associations not named in a
// KeepImageID entry are dropped, and each Upload entry becomes a new image
// row whose position follows the entry order. At most one entry may carry
// IsDefault; it replaces any previous default. All-or-nothing: a blob
// store failure aborts the whole operation and every blob already stored
// by this call is deleted again.
func (s *imageServiceImpl) AddImages(ctx context.Context, productID uuid.UUID, entries []ImageEntry) ([]models.Image, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var keepIDs []uuid.UUID
	var uploads []ImageEntry
	var positions []int
	var defaultKeepID *uuid.UUID
	defaults := 0
	for i, e := range entries {
		if e.IsDefault {
			defaults++
		}
		switch {
		case e.KeepImageID != nil:
			keepIDs = append(keepIDs, *e.KeepImageID)
			if e.IsDefault {
				defaultKeepID = e.KeepImageID
			}
		case e.Upload != nil:
			uploads = append(uploads, e)
			positions = append(positions, i)
		}
	}
	if defaults > 1 {
		return nil, apperrors.Validation("at most one image may be the default", nil)
	}

	// Phase 1: store new blobs before touching the database.
	var stored []storedBlob
	for i, e := range uploads {
		key, err := s.blobs.Store(ctx, product.ID, *e.Upload)
		if err != nil {
			s.compensate(product.ID, stored)
			return nil, apperrors.New(apperrors.KindUpload, "store image "+e.Upload.Filename, err)
		}
		stored = append(stored, storedBlob{key: key, entry: e, position: positions[i]})
	}

	// Phase 2: rewrite associations atomically.
	var created []models.Image
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.images.DeleteAssociationsExcept(tx, product.ID, keepIDs); err != nil {
			return err
		}
		if defaults == 1 {
			if err := s.images.ClearDefault(tx, product.ID); err != nil {
				return err
			}
		}

		for _, sb := range stored {
			img := models.Image{
				BlobKey:     sb.key,
				Filename:    sb.entry.Upload.Filename,
				ContentType: sb.entry.Upload.ContentType,
				Position:    sb.position,
			}
			if err := s.images.Create(tx, &img); err != nil {
				return err
			}
			if err := s.images.Associate(tx, &models.ProductImage{
				ProductID: product.ID,
				ImageID:   img.ID,
				IsDefault: sb.entry.IsDefault,
			}); err != nil {
				return err
			}
			created = append(created, img)
		}

		if defaultKeepID != nil {
			return s.images.SetDefault(tx, product.ID, *defaultKeepID)
		}
		return nil
	})
	if err != nil {
		s.compensate(product.ID, stored)
		return nil, err
	}

	return created, nil
}

// DeleteImage removes the image row and its association in one
// transaction, then removes the blob best-effort. A blob store failure is
// reported as BlobCleanupError while the committed deletes stand.
func (s *imageServiceImpl) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}

	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.images.Delete(tx, img.ID); err != nil {
			return err
		}
		return s.images.DeleteAssociation(tx, productID, img.ID)
	})
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, productID, img.BlobKey); err != nil {
		s.logger.Warn("Blob cleanup failed after image delete",
			zap.String("product_id", productID.String()),
			zap.String("image_id", img.ID.String()),
			zap.String("blob_key", img.BlobKey),
			zap.Error(err),
		)
		return apperrors.New(apperrors.KindBlobCleanup, "remove blob "+img.BlobKey, err)
	}
	return nil
}

// compensate deletes blobs stored earlier in a failed AddImages call.
func (s *imageServiceImpl) compensate(productID uuid.UUID, stored []storedBlob) {
	for _, sb := range stored {
		ctx, cancel := context.WithTimeout(context.Background(), blobCleanupTimeout)
		if err := s.blobs.Delete(ctx, productID, sb.key); err != nil {
			s.logger.Warn("Compensating blob delete failed",
				zap.String("product_id", productID.String()),
				zap.String("blob_key", sb.key),
				zap.Error(err),
			)
		}
		cancel()
	}
}
