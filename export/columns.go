package export

import (
	"fmt"
	"time"

	"catalog-service/models"
)

// EntityType tags which table an export reads.
type EntityType int

const (
	EntityProduct EntityType = iota + 1
	EntityOrder
)

func (e EntityType) String() string {
	switch e {
	case EntityProduct:
		return "product"
	case EntityOrder:
		return "order"
	}
	return "unknown"
}

// ParseEntityType maps the external tag to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	switch s {
	case "product":
		return EntityProduct, nil
	case "order":
		return EntityOrder, nil
	}
	return 0, fmt.Errorf("unknown export entity type %q", s)
}

// Format selects the output file format.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	}
	return "unknown"
}

// ParseFormat maps the external tag to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// Column allow-lists per entity type. These are fixed: callers never pick
// columns.
var (
	productColumns = []string{
		"id",
		"name",
		"slug",
		"description",
		"state",
		"selling_price_amount",
		"selling_price_currency",
		"max_retail_price_amount",
		"max_retail_price_currency",
		"created_at",
	}

	orderColumns = []string{
		"id",
		"number",
		"state",
		"email",
		"total_amount",
		"currency",
		"shipping_address",
		"billing_address",
		"created_at",
	}
)

// Columns returns the fixed column list for the entity type.
func Columns(entity EntityType) []string {
	switch entity {
	case EntityProduct:
		return productColumns
	case EntityOrder:
		return orderColumns
	}
	return nil
}

func productRow(p models.Product) []string {
	return []string{
		p.ID.String(),
		p.Name,
		p.Slug,
		p.Description,
		p.State,
		p.SellingPriceAmount.StringFixed(2),
		p.SellingPriceCurrency,
		p.MaxRetailPriceAmount.StringFixed(2),
		p.MaxRetailPriceCurrency,
		p.CreatedAt.Format(time.RFC3339),
	}
}

func orderRow(o models.Order) []string {
	return []string{
		o.ID.String(),
		o.Number,
		o.State,
		o.Email,
		o.TotalAmount.StringFixed(2),
		o.Currency,
		o.ShippingAddress.Flatten(),
		o.BillingAddress.Flatten(),
		o.CreatedAt.Format(time.RFC3339),
	}
}
