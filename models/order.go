package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order state constants (read side only; orders are written elsewhere).
const (
	OrderStateCart      = "cart"
	OrderStateConfirmed = "confirmed"
	OrderStateShipped   = "shipped"
	OrderStateComplete  = "complete"
	OrderStateCanceled  = "canceled"
)

// Order is read by the export module; this service never mutates it.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number      string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"number"`
	State       string          `gorm:"type:varchar(20);not null;index" json:"state"`
	Email       string          `gorm:"type:varchar(255)" json:"email"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:bill_" json:"billing_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) TableName() string {
	return "orders"
}

// Address represents a structured mailing address.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO 3166-1 alpha-2, e.g. "US"
}

// Flatten joins the non-empty address parts with single spaces, the form
// used in report exports.
func (a Address) Flatten() string {
	parts := []string{a.Name, a.Street1, a.Street2, a.City, a.State, a.PostalCode, a.Country}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
