package search_test

import (
	"testing"

	"catalog-service/models"
	"catalog-service/search"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildDocument_TopLevelProduct(t *testing.T) {
	p := &models.Product{
		ID:                     uuid.New(),
		Name:                   "Oak Desk",
		Slug:                   "oak-desk",
		Description:            "Solid oak desk",
		State:                  models.ProductStateActive,
		SellingPriceAmount:     decimal.NewFromFloat(349.5),
		SellingPriceCurrency:   "EUR",
		MaxRetailPriceAmount:   decimal.NewFromFloat(399),
		MaxRetailPriceCurrency: "EUR",
		RatingAverage:          4.2,
		RatingCount:            18,
		Tenant:                 "eu-store",
		Images: []models.Image{
			{BlobKey: "products/x/front.png"},
			{BlobKey: "products/x/side.png"},
		},
		Taxons: []models.Taxon{
			{Permalink: "furniture/desks"},
			{Permalink: "sale"},
		},
	}

	doc := search.BuildDocument(p)
	assert.Equal(t, p.ID.String(), doc.ID)
	assert.Empty(t, doc.ParentID)
	assert.Equal(t, []string{"products/x/front.png", "products/x/side.png"}, doc.Images)
	assert.Equal(t, []string{"furniture/desks", "sale"}, doc.Facets)
	assert.True(t, doc.SellingPrice.Amount.Equal(decimal.NewFromFloat(349.5)))
	assert.Equal(t, "EUR", doc.SellingPrice.Currency)
	assert.Equal(t, 4.2, doc.RatingAverage)
	assert.Equal(t, "eu-store", doc.Tenant)
}

func TestBuildDocument_VariantCarriesParentID(t *testing.T) {
	parentID := uuid.New()
	p := &models.Product{
		ID:   uuid.New(),
		Name: "Oak Desk / Walnut",
		ParentVariation: &models.Variation{
			ParentProductID: parentID,
			ChildProductID:  uuid.New(),
		},
	}

	doc := search.BuildDocument(p)
	assert.Equal(t, parentID.String(), doc.ParentID)
}

func TestBuildDocument_EmptyCollectionsAreNotNil(t *testing.T) {
	doc := search.BuildDocument(&models.Product{ID: uuid.New(), Name: "Mug"})
	assert.NotNil(t, doc.Images)
	assert.NotNil(t, doc.Facets)
	assert.Empty(t, doc.Images)
	assert.Empty(t, doc.Facets)
}

func TestBuildDocument_AutocompleteLowercasesAndDedupes(t *testing.T) {
	doc := search.BuildDocument(&models.Product{
		ID:   uuid.New(),
		Name: "Blue Blue OCEAN ocean Towel",
	})
	assert.Equal(t, []string{"blue", "ocean", "towel"}, doc.Autocomplete)
}
