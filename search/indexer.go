package search

import (
	"context"
	"strings"
	"time"

	"catalog-service/models"

	"github.com/shopspring/decimal"
)

// Price is an amount+currency pair as stored in the index.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ProductDocument is the serialized product representation pushed to the
// search index. Field names follow the index mapping.
type ProductDocument struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	ParentID       string    `json:"parent_id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Images         []string  `json:"images"`
	RatingAverage  float64   `json:"rating_average"`
	RatingCount    int       `json:"rating_count"`
	SellingPrice   Price     `json:"selling_price"`
	MaxRetailPrice Price     `json:"max_retail_price"`
	Tenant         string    `json:"tenant,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
	Facets         []string  `json:"facets"`
	Autocomplete   []string  `json:"autocomplete"`
}

// Indexer pushes product documents into the external search index.
type Indexer interface {
	Index(ctx context.Context, doc ProductDocument) error
	Remove(ctx context.Context, productID string) error
}

// BuildDocument converts a product into its index representation.
func BuildDocument(p *models.Product) ProductDocument {
	doc := ProductDocument{
		ID:            p.ID.String(),
		Slug:          p.Slug,
		Name:          p.Name,
		Description:   p.Description,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		SellingPrice: Price{
			Amount:   p.SellingPriceAmount,
			Currency: p.SellingPriceCurrency,
		},
		MaxRetailPrice: Price{
			Amount:   p.MaxRetailPriceAmount,
			Currency: p.MaxRetailPriceCurrency,
		},
		Tenant:       p.Tenant,
		UpdatedAt:    p.UpdatedAt,
		Images:       []string{},
		Facets:       []string{},
		Autocomplete: autocompleteKeywords(p.Name),
	}

	if p.ParentVariation != nil {
		doc.ParentID = p.ParentVariation.ParentProductID.String()
	}
	for _, img := range p.Images {
		doc.Images = append(doc.Images, img.BlobKey)
	}
	for _, t := range p.Taxons {
		doc.Facets = append(doc.Facets, t.Permalink)
	}
	return doc
}

// autocompleteKeywords tokenizes the product name into lowercase keywords.
func autocompleteKeywords(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !seen[f] {
			keywords = append(keywords, f)
			seen[f] = true
		}
	}
	return keywords
}
