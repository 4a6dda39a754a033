package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product lifecycle states. "deleted" is the soft-delete marker: deleted
// rows stay in the table but are excluded from active listings.
const (
	ProductStateActive   = "active"
	ProductStateInActive = "in_active"
	ProductStateDraft    = "draft"
	ProductStateDeleted  = "deleted"
)

// Product is the GORM model persisted in Postgres.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	State       string    `gorm:"type:varchar(20);not null;default:'draft';index" json:"state"`
	Tenant      string    `gorm:"type:varchar(64);index" json:"tenant,omitempty"`

	SellingPriceAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price_amount"`
	SellingPriceCurrency   string          `gorm:"type:varchar(3);not null;default:'USD'" json:"selling_price_currency"`
	MaxRetailPriceAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"max_retail_price_amount"`
	MaxRetailPriceCurrency string          `gorm:"type:varchar(3);not null;default:'USD'" json:"max_retail_price_currency"`

	RatingAverage float64 `gorm:"type:decimal(3,2);default:0" json:"rating_average"`
	RatingCount   int     `gorm:"default:0" json:"rating_count"`

	// A product is a variant when a Variation row names it as child; it has
	// variants when rows name it as parent.
	ParentVariation *Variation  `gorm:"foreignKey:ChildProductID" json:"parent_variation,omitempty"`
	Variations      []Variation `gorm:"foreignKey:ParentProductID" json:"variations,omitempty"`

	Images     []Image     `gorm:"many2many:product_images;joinForeignKey:ProductID;joinReferences:ImageID" json:"images,omitempty"`
	Taxons     []Taxon     `gorm:"many2many:product_taxons" json:"taxons,omitempty"`
	StockItems []StockItem `gorm:"foreignKey:ProductID" json:"stock_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) TableName() string {
	return "products"
}

// IsVariant reports whether the product is the child side of a Variation.
func (p *Product) IsVariant() bool {
	return p.ParentVariation != nil
}

// IsOrderable reports whether any loaded stock item has units on hand.
// Listing queries check the same condition in SQL via the repository.
func (p *Product) IsOrderable() bool {
	for _, si := range p.StockItems {
		if si.CountOnHand > 0 {
			return true
		}
	}
	return false
}

// ValidState reports whether s is one of the known lifecycle states.
func ValidState(s string) bool {
	switch s {
	case ProductStateActive, ProductStateInActive, ProductStateDraft, ProductStateDeleted:
		return true
	}
	return false
}
