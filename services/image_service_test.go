package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-service/apperrors"
	"catalog-service/blobstore"
	"catalog-service/models"
	"catalog-service/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

// ---- mock image repository ----

type mockImageRepo struct {
	findByIDImage *models.Image
	findByIDErr   error
	created       []*models.Image
	createErr     error
	associated    []*models.ProductImage
	associateErr  error
	deletedIDs    []uuid.UUID
	deleteErr     error
	removedAssocs int
	exceptCalls   [][]uuid.UUID
	clearedCount  int
	setDefaultIDs []uuid.UUID
}

func (m *mockImageRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Image, error) {
	return m.findByIDImage, m.findByIDErr
}
func (m *mockImageRepo) FindByProduct(_ context.Context, _ uuid.UUID) ([]models.Image, error) {
	return nil, nil
}
func (m *mockImageRepo) Create(_ *gorm.DB, img *models.Image) error {
	if m.createErr != nil {
		return m.createErr
	}
	img.ID = uuid.New()
	m.created = append(m.created, img)
	return nil
}
func (m *mockImageRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}
func (m *mockImageRepo) Associate(_ *gorm.DB, assoc *models.ProductImage) error {
	if m.associateErr != nil {
		return m.associateErr
	}
	m.associated = append(m.associated, assoc)
	return nil
}
func (m *mockImageRepo) DeleteAssociation(_ *gorm.DB, _, _ uuid.UUID) error {
	m.removedAssocs++
	return nil
}
func (m *mockImageRepo) DeleteAssociationsExcept(_ *gorm.DB, _ uuid.UUID, keep []uuid.UUID) error {
	m.exceptCalls = append(m.exceptCalls, keep)
	return nil
}
func (m *mockImageRepo) ClearDefault(_ *gorm.DB, _ uuid.UUID) error {
	m.clearedCount++
	return nil
}
func (m *mockImageRepo) SetDefault(_ *gorm.DB, _ uuid.UUID, imageID uuid.UUID) error {
	m.setDefaultIDs = append(m.setDefaultIDs, imageID)
	return nil
}

// ---- mock blob store ----

type mockBlobStore struct {
	storeErr  error
	stored    []string
	deleted   []string
	deleteErr error
}

func (m *mockBlobStore) Store(_ context.Context, productID uuid.UUID, up blobstore.Upload) (string, error) {
	if m.storeErr != nil {
		return "", m.storeErr
	}
	key := "products/" + productID.String() + "/" + up.Filename
	m.stored = append(m.stored, key)
	return key, nil
}

func (m *mockBlobStore) Delete(_ context.Context, _ uuid.UUID, key string) error {
	m.deleted = append(m.deleted, key)
	return m.deleteErr
}

func newUpload(name string) *blobstore.Upload {
	return &blobstore.Upload{
		Filename:    name,
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	}
}

func TestAddImages_OneUploadZeroKept(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{Upload: newUpload("front.png"), IsDefault: true},
	})
	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, blobs.stored[0], created[0].BlobKey)
	assert.Len(t, images.associated, 1)
	assert.True(t, images.associated[0].IsDefault)
	assert.Empty(t, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImages_BlobFailureLeavesDatabaseUntouched(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{storeErr: errors.New("bucket gone")}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	created, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{Upload: newUpload("front.png")},
	})
	assert.Nil(t, created)
	assert.True(t, errors.Is(err, apperrors.ErrUpload))
	assert.Empty(t, images.created)
	assert.Empty(t, images.exceptCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImages_TxFailureCompensatesStoredBlobs(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{associateErr: errors.New("constraint violation")}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{Upload: newUpload("front.png")},
	})
	assert.Error(t, err)
	assert.Equal(t, blobs.stored, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImages_KeptSetPassedThrough(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	keep := uuid.New()
	_, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{KeepImageID: &keep},
	})
	assert.NoError(t, err)
	assert.Len(t, images.exceptCalls, 1)
	assert.Equal(t, []uuid.UUID{keep}, images.exceptCalls[0])
}

func TestAddImages_PositionsFollowEntryOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	keep := uuid.New()
	created, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{KeepImageID: &keep},
		{Upload: newUpload("front.png")},
		{Upload: newUpload("side.png")},
	})
	assert.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, 1, created[0].Position)
	assert.Equal(t, 2, created[1].Position)
}

func TestAddImages_SecondDefaultRejected(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	keep := uuid.New()
	_, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{KeepImageID: &keep, IsDefault: true},
		{Upload: newUpload("front.png"), IsDefault: true},
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, blobs.stored)
	assert.Empty(t, images.exceptCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImages_DefaultUploadReplacesExistingDefault(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{Upload: newUpload("front.png"), IsDefault: true},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, images.clearedCount)
	assert.True(t, images.associated[0].IsDefault)
	assert.Empty(t, images.setDefaultIDs)
}

func TestAddImages_DefaultKeptImageIsReflagged(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	keep := uuid.New()
	_, err := svc.AddImages(context.Background(), product.ID, []services.ImageEntry{
		{KeepImageID: &keep, IsDefault: true},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, images.clearedCount)
	assert.Equal(t, []uuid.UUID{keep}, images.setDefaultIDs)
}

func TestDeleteImage_UnknownImageLeavesProductUnchanged(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{findByIDErr: apperrors.NotFound("image", nil)}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	err := svc.DeleteImage(context.Background(), product.ID, uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, images.deletedIDs)
	assert.Zero(t, images.removedAssocs)
	assert.Empty(t, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteImage_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	img := &models.Image{ID: uuid.New(), BlobKey: "products/x/front.png"}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{findByIDImage: img}
	blobs := &mockBlobStore{}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.DeleteImage(context.Background(), product.ID, img.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{img.ID}, images.deletedIDs)
	assert.Equal(t, 1, images.removedAssocs)
	assert.Equal(t, []string{img.BlobKey}, blobs.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteImage_BlobFailureReportedAfterCommit(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	product := &models.Product{ID: uuid.New()}
	img := &models.Image{ID: uuid.New(), BlobKey: "products/x/front.png"}
	products := &mockProductRepo{findByIDProduct: product}
	images := &mockImageRepo{findByIDImage: img}
	blobs := &mockBlobStore{deleteErr: errors.New("throttled")}
	svc := services.NewImageService(gormDB, products, images, blobs, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.DeleteImage(context.Background(), product.ID, img.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBlobCleanup))
	// The database deletes stand even though cleanup failed.
	assert.Equal(t, []uuid.UUID{img.ID}, images.deletedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
