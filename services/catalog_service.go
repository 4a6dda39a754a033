package services

import (
	"context"
	"time"

	"catalog-service/apperrors"
	"catalog-service/cache"
	"catalog-service/models"
	"catalog-service/repository"
	"catalog-service/search"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// indexPushTimeout bounds the detached search index push.
const indexPushTimeout = 5 * time.Second

// ProductInput carries validated fields for product create/update.
type ProductInput struct {
	Name                   string          `validate:"required,max=255"`
	Slug                   string          `validate:"required,max=255"`
	Description            string          `validate:"max=65535"`
	State                  string          `validate:"omitempty,oneof=active in_active draft"`
	Tenant                 string          `validate:"max=64"`
	SellingPriceAmount     decimal.Decimal `validate:"required"`
	SellingPriceCurrency   string          `validate:"required,len=3"`
	MaxRetailPriceAmount   decimal.Decimal `validate:"required"`
	MaxRetailPriceCurrency string          `validate:"required,len=3"`
}

// CatalogService is the business-logic surface over the product catalog.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCatalog(ctx context.Context, opts repository.CatalogOptions) ([]models.Product, error)
	ListFiltered(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteByTaxon(ctx context.Context, taxonID uuid.UUID) (int64, error)
	CountByStateInRange(ctx context.Context, state string, from, to time.Time) (int64, error)
	IsOrderable(ctx context.Context, id uuid.UUID) (bool, error)
}

type catalogServiceImpl struct {
	products repository.ProductRepository
	indexer  search.Indexer
	cache    *cache.ProductCache
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService. The cache may be nil when
// Redis is not configured.
func NewCatalogService(
	products repository.ProductRepository,
	indexer search.Indexer,
	productCache *cache.ProductCache,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		products: products,
		indexer:  indexer,
		cache:    productCache,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetProduct serves from the Redis cache when possible and back-fills it
// asynchronously on a miss.
func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id.String()); ok {
			return p, nil
		}
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetAsync(id.String(), p)
	}
	return p, nil
}

func (s *catalogServiceImpl) ListCatalog(ctx context.Context, opts repository.CatalogOptions) ([]models.Product, error) {
	return s.products.FindCatalog(ctx, opts)
}

func (s *catalogServiceImpl) ListFiltered(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error) {
	return s.products.FindFiltered(ctx, params)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	state := input.State
	if state == "" {
		state = models.ProductStateDraft
	}

	p := &models.Product{
		Name:                   input.Name,
		Slug:                   input.Slug,
		Description:            input.Description,
		State:                  state,
		Tenant:                 input.Tenant,
		SellingPriceAmount:     input.SellingPriceAmount,
		SellingPriceCurrency:   input.SellingPriceCurrency,
		MaxRetailPriceAmount:   input.MaxRetailPriceAmount,
		MaxRetailPriceCurrency: input.MaxRetailPriceCurrency,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.pushIndexAsync(p)
	return p, nil
}

// UpdateProduct persists the changes and then pushes the new document to
// the search index. An index failure is logged only; the database write is
// never rolled back for it.
func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Slug = input.Slug
	p.Description = input.Description
	if input.State != "" {
		p.State = input.State
	}
	p.Tenant = input.Tenant
	p.SellingPriceAmount = input.SellingPriceAmount
	p.SellingPriceCurrency = input.SellingPriceCurrency
	p.MaxRetailPriceAmount = input.MaxRetailPriceAmount
	p.MaxRetailPriceCurrency = input.MaxRetailPriceCurrency

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id.String())
	}
	s.pushIndexAsync(p)
	return p, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id.String())
	}
	s.removeIndexAsync(id.String())
	return nil
}

// DeleteByTaxon soft-deletes every product under the taxon subtree and
// returns how many rows transitioned.
func (s *catalogServiceImpl) DeleteByTaxon(ctx context.Context, taxonID uuid.UUID) (int64, error) {
	count, err := s.products.DeleteByTaxon(ctx, taxonID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Cascade delete by taxon",
		zap.String("taxon_id", taxonID.String()),
		zap.Int64("products_deleted", count),
	)
	return count, nil
}

func (s *catalogServiceImpl) CountByStateInRange(ctx context.Context, state string, from, to time.Time) (int64, error) {
	if !models.ValidState(state) {
		return 0, apperrors.Validation("unknown product state "+state, nil)
	}
	return s.products.CountByStateInRange(ctx, state, from, to)
}

func (s *catalogServiceImpl) IsOrderable(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.products.IsOrderable(ctx, id)
}

// pushIndexAsync sends the product document to the search index on a
// detached goroutine. Failures are logged and never surface to the caller.
func (s *catalogServiceImpl) pushIndexAsync(p *models.Product) {
	if s.indexer == nil {
		return
	}
	doc := search.BuildDocument(p)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexPushTimeout)
		defer cancel()
		if err := s.indexer.Index(ctx, doc); err != nil {
			s.logger.Warn("Search index push failed", zap.String("product_id", doc.ID), zap.Error(err))
		}
	}()
}

func (s *catalogServiceImpl) removeIndexAsync(productID string) {
	if s.indexer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexPushTimeout)
		defer cancel()
		if err := s.indexer.Remove(ctx, productID); err != nil {
			s.logger.Warn("Search index removal failed", zap.String("product_id", productID), zap.Error(err))
		}
	}()
}
